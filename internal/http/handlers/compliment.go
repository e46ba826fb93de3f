package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"server/internal/domain"
)

type complimentRequest struct {
	UserQuery    string `json:"userQuery"`
	SystemPrompt string `json:"systemPrompt"`
}

type complimentResponse struct {
	Compliment string `json:"compliment"`
}

// GetCompliment proxies a generation request to the LLM provider. The route
// is unauthenticated on purpose: it mirrors a public serverless function, and
// its only job is to keep the provider credential server-side.
func (a *App) GetCompliment(w http.ResponseWriter, r *http.Request) {
	var req complimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	start := time.Now()
	text, err := a.Generator.Generate(r.Context(), req.UserQuery, req.SystemPrompt)
	if err != nil {
		if errors.Is(err, domain.ErrMissingCredential) {
			a.error(w, http.StatusInternalServerError, "Server configuration error: Missing API key.")
			return
		}
		a.Logger.Error().Err(err).Msg("compliment generation failed")
		a.recordUsage(r.Context(), a.currentUserID(r), "COMPLIMENT", false, time.Since(start), nil)
		a.error(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.recordUsage(r.Context(), a.currentUserID(r), "COMPLIMENT", true, time.Since(start), map[string]any{
		"query_length": len(req.UserQuery),
	})
	a.json(w, http.StatusOK, complimentResponse{Compliment: text})
}
