package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/kwybro/guilloteam/internal/infrastructure/http/handlers"
	"github.com/kwybro/guilloteam/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	AuthHandler     *handlers.AuthHandler
	HealthHandler   *handlers.HealthHandler
	TeamsHandler    *handlers.TeamsHandler
	ProjectsHandler *handlers.ProjectsHandler
	TasksHandler    *handlers.TasksHandler
	InvitesHandler  *handlers.InvitesHandler
	RequireAuth     func(http.Handler) http.Handler // bearer API key for everything below /auth
	Log             zerolog.Logger
	Secure          func(http.Handler) http.Handler
	CORS            func(http.Handler) http.Handler
	IPRateLimit     func(http.Handler) http.Handler
	UserRateLimit   func(http.Handler) http.Handler
	Metrics         bool // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	r.Use(middleware.APIVersion("v1"))
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	if cfg.CORS != nil {
		r.Use(cfg.CORS)
	}
	r.Use(chimid.AllowContentType("application/json"))
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/send-code", cfg.AuthHandler.SendCode)
		r.Post("/verify", cfg.AuthHandler.Verify)
	})

	// Everything below requires a bearer API key.
	r.Group(func(r chi.Router) {
		if cfg.RequireAuth != nil {
			r.Use(cfg.RequireAuth)
		}
		if cfg.UserRateLimit != nil {
			r.Use(cfg.UserRateLimit)
		}

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", cfg.TeamsHandler.List)
			r.Post("/", cfg.TeamsHandler.Create)
			r.Route("/{teamID}", func(r chi.Router) {
				r.Get("/", cfg.TeamsHandler.Get)
				r.Patch("/", cfg.TeamsHandler.Update)
				r.Delete("/", cfg.TeamsHandler.Delete)

				r.Route("/projects", func(r chi.Router) {
					r.Get("/", cfg.ProjectsHandler.List)
					r.Post("/", cfg.ProjectsHandler.Create)
					r.Route("/{projectID}", func(r chi.Router) {
						r.Get("/", cfg.ProjectsHandler.Get)
						r.Patch("/", cfg.ProjectsHandler.Update)
						r.Delete("/", cfg.ProjectsHandler.Delete)

						r.Route("/tasks", func(r chi.Router) {
							r.Get("/", cfg.TasksHandler.List)
							r.Post("/", cfg.TasksHandler.Create)
							r.Route("/{taskID}", func(r chi.Router) {
								r.Get("/", cfg.TasksHandler.Get)
								r.Patch("/", cfg.TasksHandler.Update)
								r.Delete("/", cfg.TasksHandler.Delete)
							})
						})
					})
				})

				r.Route("/invites", func(r chi.Router) {
					r.Get("/", cfg.InvitesHandler.List)
					r.Post("/", cfg.InvitesHandler.Create)
					r.Delete("/{inviteID}", cfg.InvitesHandler.Revoke)
				})
			})
		})

		r.Post("/invites/{token}/accept", cfg.InvitesHandler.Accept)
	})

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimid.GetReqID(r.Context())
			log.Info().
				Str("request_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("request")
			next.ServeHTTP(w, r)
		})
	}
}
