package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"server/internal/middleware"

	"github.com/google/uuid"
)

type sessionRequest struct {
	Token string `json:"token"`
}

type sessionResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

// SessionAnonymous resolves a stable anonymous identity for the calling
// device. A valid token from a previous session yields the same user ID;
// anything else mints a fresh one. The signed token is the provider's own
// persistence mechanism: clients cache it and present it on the next boot.
func (a *App) SessionAnonymous(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	// An empty or absent body means a first-time device.
	_ = json.NewDecoder(r.Body).Decode(&req)

	userID := ""
	if req.Token != "" {
		if claims, err := middleware.VerifyJWT(a.SessionSecret, req.Token); err == nil {
			userID = claims.Sub
		}
	}
	if userID == "" {
		userID = "anon-" + uuid.NewString()
	}

	token, err := middleware.SignJWT(a.SessionSecret, middleware.TokenClaims{
		Sub:      userID,
		Exp:      time.Now().Add(a.SessionTTL).Unix(),
		Issuer:   "kindzap-api",
		Audience: "kindzap-clients",
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign session token failed")
		a.error(w, http.StatusInternalServerError, "failed to sign token")
		return
	}

	a.json(w, http.StatusOK, sessionResponse{UserID: userID, Token: token})
}
