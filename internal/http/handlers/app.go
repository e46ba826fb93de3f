package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/middleware"
	"server/internal/providers/compliment"
	"server/internal/sqlinline"

	"github.com/rs/zerolog"
)

// App is the handler container; dependencies are injected once at startup.
type App struct {
	SQL           infra.SQLExecutor
	Store         domain.ConfigStore
	Generator     compliment.Generator
	Logger        zerolog.Logger
	SessionSecret string
	SessionTTL    time.Duration
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"error": msg})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// recordUsage inserts a usage event. Best effort: failures are logged and
// never surfaced to the request path.
func (a *App) recordUsage(ctx context.Context, userID, eventType string, success bool, latency time.Duration, props map[string]any) {
	if a.SQL == nil {
		return
	}
	raw, _ := json.Marshal(props)
	if _, err := a.SQL.Exec(ctx, sqlinline.QInsertUsageEvent, userID, eventType, success, int(latency.Milliseconds()), raw); err != nil {
		a.Logger.Warn().Err(err).Str("event", eventType).Msg("record usage failed")
	}
}
