package api

import (
	"net/http"

	"github.com/dcollins/storyshare/internal/api/handlers"
	"github.com/dcollins/storyshare/internal/api/middleware"
	"github.com/dcollins/storyshare/internal/config"
	"github.com/dcollins/storyshare/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Every request resolves its session cookie into a viewer; anonymous
	// is a normal outcome, not a rejection.
	r.Use(middleware.ResolveSession(services.Sessions))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, cfg)
	storyHandler := handlers.NewStoryHandler(services.Story)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)

			if services.Auth.GoogleEnabled() {
				r.Get("/google", authHandler.GoogleLogin)
				r.Get("/google/callback", authHandler.GoogleCallback)
			}

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/me", authHandler.Me)
			})
		})

		r.Route("/stories", func(r chi.Router) {
			// Public reads; single-story privacy is enforced in the service
			r.Get("/", storyHandler.ListPublic)
			r.Get("/{id}", storyHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/", storyHandler.Create)
				r.Get("/mine", storyHandler.ListMine)
				r.Put("/{id}", storyHandler.Update)
				r.Delete("/{id}", storyHandler.Delete)
			})
		})
	})

	return r
}
