package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/imruiz/gotodo-be/internal/api/handlers"
	"github.com/imruiz/gotodo-be/internal/auth"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(authMW *auth.Middleware, userHandler *handlers.UserHandler, todoHandler *handlers.TodoHandler) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// CORS configuration; the token header must be exposed so browser
	// clients can read it off register/login responses.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", auth.TokenHeader},
		ExposedHeaders:   []string{auth.TokenHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Register)
		r.Post("/login", userHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Require)
			r.Get("/me", userHandler.Me)
			r.Delete("/me/token", userHandler.Logout)
		})
	})

	r.Route("/todos", func(r chi.Router) {
		r.Use(authMW.Require)
		r.Get("/", todoHandler.List)
		r.Post("/", todoHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", todoHandler.Get)
			r.Patch("/", todoHandler.Update)
			r.Delete("/", todoHandler.Delete)
		})
	})

	return r
}
