package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	mw "github.com/lorrc/accounts-backend/internal/adapters/primary/http/middleware"
	"github.com/lorrc/accounts-backend/internal/auth"
)

// RouterDeps carries everything the router needs wired in.
type RouterDeps struct {
	AuthHandler    *AuthHandler
	AccountHandler *AccountHandler
	HealthHandler  *HealthHandler
	TokenManager   *auth.TokenManager

	// Optional middleware
	GeneralRateLimiter *mw.RateLimiter
	AuthRateLimiter    *mw.RateLimiter

	RequestLogger  func(http.Handler) http.Handler
	RecoveryLogger func(http.Handler) http.Handler

	AllowedOrigins []string
}

// NewRouter assembles the chi router with middleware and all routes.
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	if deps.RecoveryLogger != nil {
		r.Use(deps.RecoveryLogger)
	}
	if deps.RequestLogger != nil {
		r.Use(deps.RequestLogger)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if deps.GeneralRateLimiter != nil {
		r.Use(deps.GeneralRateLimiter.Middleware)
	}

	deps.HealthHandler.RegisterRoutes(r)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if deps.AuthRateLimiter != nil {
				r.Use(deps.AuthRateLimiter.Middleware)
			}
			deps.AuthHandler.RegisterRoutes(r)
		})

		deps.AccountHandler.RegisterPublicRoutes(r)

		r.Route("/me", func(r chi.Router) {
			r.Use(mw.JWTMiddleware(deps.TokenManager))
			deps.AccountHandler.RegisterMeRoutes(r)
		})
	})

	return r
}
