package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/redmonkez12/athena-api/internal/auth"
	"github.com/redmonkez12/athena-api/internal/cardset"
	"github.com/redmonkez12/athena-api/internal/config"
	"github.com/redmonkez12/athena-api/internal/httputil"
	"github.com/redmonkez12/athena-api/internal/logging"
	"github.com/redmonkez12/athena-api/internal/search"
	"github.com/redmonkez12/athena-api/internal/social"
	"github.com/redmonkez12/athena-api/internal/user"
)

// Handlers groups the per-package HTTP handlers mounted by NewRouter.
type Handlers struct {
	Auth    *auth.Handler
	User    *user.Handler
	CardSet *cardset.Handler
	Social  *social.Handler
	Search  *search.Handler
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, authMiddleware *auth.Middleware, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	r.Use(SecurityHeaders(!cfg.Server.IsDevelopment()))
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	r.Get("/health", handleHealth)

	// Swagger UI is only mounted in development
	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled", "path", "/swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	// Account lifecycle (public)
	r.Post("/register", h.Auth.Register)
	r.Post("/login", h.Auth.Login)
	r.Post("/confirmation", h.Auth.Confirmation)
	r.Post("/resend", h.Auth.Resend)
	r.Post("/reset", h.Auth.Reset)
	r.Post("/updatepassword", h.Auth.UpdatePassword)

	// Public reads
	r.Post("/infouser", h.User.InfoUser)
	r.Post("/infoset", h.CardSet.InfoSet)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)

		r.Post("/addset", h.CardSet.AddSet)
		r.Post("/editset", h.CardSet.EditSet)
		r.Post("/deleteset", h.CardSet.DeleteSet)

		r.Post("/follow", h.Social.Follow)
		r.Post("/unfollow", h.Social.Unfollow)
		r.Post("/like", h.Social.Like)
		r.Post("/unlike", h.Social.Unlike)
	})

	// Search; the caller is optional except on routes scoped to "me"
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.OptionalAuth)

		r.Post("/search/sets", h.Search.SearchSets)
		r.Post("/search/users", h.Search.SearchUsers)

		for _, recipe := range search.LegacyRoutes {
			if recipe.RequireAuth {
				r.With(authMiddleware.RequireAuth).Post(recipe.Path, h.Search.Legacy(recipe))
				continue
			}
			r.Post(recipe.Path, h.Search.Legacy(recipe))
		}
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
