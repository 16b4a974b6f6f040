package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/everpath/mastery-api/internal/api"
	apimiddleware "github.com/everpath/mastery-api/internal/api/middleware"
)

// setupRouter wires the middleware chain and all routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.Trace)

	authHandler := api.NewAuthHandler(app.authService, app.logger)
	transformHandler := api.NewTransformHandler(app.transformer, app.logger)
	reviewHandler := api.NewReviewHandler(app.engine, app.grader, app.learnerStore, app.logger)
	domainHandler := api.NewDomainHandler(app.registry, app.logger)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/domains", domainHandler.ListDomains)

		// Protected endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/transform", transformHandler.Transform)
			r.Post("/grade", reviewHandler.Grade)
			r.Post("/reviews", reviewHandler.SubmitReview)
			r.Get("/reviews/due", reviewHandler.DueReviews)
			r.Get("/mastery/{domainID}/{conceptID}", reviewHandler.GetMastery)
			r.Get("/profile", reviewHandler.GetProfile)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
