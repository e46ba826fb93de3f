package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"server/internal/domain"
)

// ConfigGet returns the caller's config document, creating the default one on
// first access.
func (a *App) ConfigGet(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "missing user context")
		return
	}
	cfg, err := a.Store.GetOrCreate(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("config get-or-create failed")
		a.error(w, http.StatusInternalServerError, "failed to load config")
		return
	}
	a.json(w, http.StatusOK, cfg)
}

// ConfigMerge applies a field-level merge to the caller's config document.
// Unknown persona styles are rejected (fail closed). The plan field is
// client-writable with no entitlement check, matching the observed system.
func (a *App) ConfigMerge(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "missing user context")
		return
	}
	var patch domain.ConfigPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if patch.Empty() {
		a.error(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if patch.Plan != nil && *patch.Plan != domain.PlanFree && *patch.Plan != domain.PlanPro {
		a.error(w, http.StatusBadRequest, "unsupported plan")
		return
	}
	if patch.Style != nil {
		if _, ok := domain.LookupPersona(*patch.Style); !ok {
			a.error(w, http.StatusBadRequest, "unknown style")
			return
		}
	}
	if patch.ComplimentCount != nil && *patch.ComplimentCount < 0 {
		a.error(w, http.StatusBadRequest, "complimentCount must be non-negative")
		return
	}

	cfg, err := a.Store.MergeUpdate(r.Context(), userID, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "config not found")
			return
		}
		a.Logger.Error().Err(err).Msg("config merge failed")
		a.error(w, http.StatusInternalServerError, "failed to update config")
		return
	}
	if patch.Plan != nil {
		a.recordUsage(r.Context(), userID, "PLAN_CHANGE", true, 0, map[string]any{"plan": *patch.Plan})
	}
	a.json(w, http.StatusOK, cfg)
}
