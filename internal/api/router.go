package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/streamhub/backend/internal/api/handlers"
	"github.com/streamhub/backend/internal/api/middleware"
	"github.com/streamhub/backend/internal/config"
	"github.com/streamhub/backend/internal/service"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	userHandler := handlers.NewUserHandler(services.Auth, services.User, cfg)
	videoHandler := handlers.NewVideoHandler(services.Video, cfg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			// Public routes
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
			r.Post("/refresh-token", userHandler.RefreshToken)

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Token))
				r.Post("/logout", userHandler.Logout)
				r.Post("/change-password", userHandler.ChangePassword)
				r.Get("/current-user", userHandler.CurrentUser)
				r.Patch("/update-account", userHandler.UpdateAccount)
				r.Patch("/avatar", userHandler.UpdateAvatar)
				r.Patch("/cover-image", userHandler.UpdateCoverImage)
				r.Get("/c/{username}", userHandler.ChannelProfile)
				r.Get("/history", userHandler.WatchHistory)
			})
		})

		// Every video route requires an authenticated identity.
		r.Route("/videos", func(r chi.Router) {
			r.Use(middleware.Auth(services.Token))

			r.Get("/", videoHandler.List)
			r.Post("/", videoHandler.Publish)
			r.Get("/{videoId}", videoHandler.Get)
			r.Patch("/{videoId}", videoHandler.UpdateDetails)
			r.Delete("/{videoId}", videoHandler.Delete)
			r.Patch("/{videoId}/thumbnail", videoHandler.UpdateThumbnail)
			r.Patch("/toggle/{videoId}", videoHandler.TogglePublish)
		})
	})

	return r
}
