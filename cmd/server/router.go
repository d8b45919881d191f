package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/tenxcards/tenxcards-api/internal/api"
	apiMiddleware "github.com/tenxcards/tenxcards-api/internal/api/middleware"
	"github.com/tenxcards/tenxcards-api/internal/api/shared"
)

// Login attempts allowed per client IP and window.
const (
	loginMaxAttempts = 5
	loginWindow      = 15 * time.Minute
)

// setupRouter mounts the middleware chain and every API route.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   app.config.Server.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Location", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler)

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.logger)
	cardHandler := api.NewCardHandler(app.cardService, app.logger)
	contentHandler := api.NewOriginalContentHandler(app.contentService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	loginLimiter := apiMiddleware.NewRateLimiter(loginMaxAttempts, loginWindow, apiMiddleware.ByIP)
	generationLimiter := apiMiddleware.NewRateLimiter(
		app.config.RateLimit.MaxRequestsPerWindow,
		time.Duration(app.config.RateLimit.WindowMinutes)*time.Minute,
		apiMiddleware.ByUser,
	)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.With(loginLimiter.Handler).Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Route("/cards", func(r chi.Router) {
				r.With(generationLimiter.Handler).Post("/generate", cardHandler.GenerateCards)
				r.Post("/", cardHandler.CreateCard)
				r.Get("/", cardHandler.ListCards)
				r.Get("/{id}", cardHandler.GetCard)
				r.Put("/{id}", cardHandler.UpdateCard)
				r.Delete("/{id}", cardHandler.DeleteCard)
				r.With(generationLimiter.Handler).Post("/{id}/regenerate", cardHandler.RegenerateCard)
				r.Get("/{id}/errors", cardHandler.ListCardErrors)
			})

			r.Route("/original-contents", func(r chi.Router) {
				r.Post("/", contentHandler.Create)
				r.Get("/", contentHandler.List)
				r.Get("/{id}", contentHandler.Get)
				r.Delete("/{id}", contentHandler.Delete)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, api.HealthResponse{Status: "ok"})
	})

	return r
}
