package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tasklane/tasklane-api/internal/api"
	apiMiddleware "github.com/tasklane/tasklane-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	authHandler := api.NewAuthHandler(app.accounts, app.google, app.config.Server.FrontendURL)
	userHandler := api.NewUserHandler(app.accounts, app.userStore)
	taskHandler := api.NewTaskHandler(app.taskStore)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.tokenStore, app.userStore)

	// Public session and account lifecycle endpoints.
	r.Post("/login", authHandler.Login)
	r.Patch("/confirmAccount", authHandler.ConfirmAccount)
	r.Post("/forgotPassword", authHandler.ForgotPassword)
	r.Patch("/resetPassword", authHandler.ResetPassword)
	r.Get("/login/google", authHandler.GoogleLogin)
	r.Get("/auth/google/callback", authHandler.GoogleCallback)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Get("/logout", authHandler.Logout)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Register)
		r.Post("/registerWithGoogle", userHandler.RegisterWithGoogle)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/", userHandler.List)
			r.Get("/me/", userHandler.Me)
			r.Get("/{id}", userHandler.GetByID)
			r.Put("/{id}", userHandler.Update)
		})
	})

	r.Route("/task", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Post("/", taskHandler.Create)
		r.Get("/", taskHandler.List)
		r.Get("/stats/summary", taskHandler.Stats)
		r.Put("/mark_as_done/{id}", taskHandler.MarkAsDone)
		r.Put("/toggle_state/{id}", taskHandler.ToggleState)
		r.Get("/{id}", taskHandler.GetByID)
		r.Put("/{id}", taskHandler.Update)
		r.Delete("/{id}", taskHandler.Delete)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
