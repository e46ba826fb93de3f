package httpapi

import (
	stdhttp "net/http"

	"server/internal/http/handlers"
	appmw "server/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *handlers.App, allowedOrigins []string) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(
		appmw.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		appmw.Logger(app.Logger),
		appmw.CORS(allowedOrigins),
	)

	// Health
	r.Get("/v1/healthz", app.Health)

	// The compliment proxy is public: it mirrors the serverless function the
	// browser app calls directly.
	r.Post("/api/getCompliment", app.GetCompliment)

	r.Post("/v1/session/anonymous", app.SessionAnonymous)

	r.Group(func(r chi.Router) {
		r.Use(appmw.AuthSession(app.SessionSecret))
		r.Get("/v1/config", app.ConfigGet)
		r.Patch("/v1/config", app.ConfigMerge)
	})

	return r
}
