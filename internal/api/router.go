// Package api assembles the HTTP router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tghbhs/science-carnival/backend/internal/audit"
	"github.com/tghbhs/science-carnival/backend/internal/auth"
	"github.com/tghbhs/science-carnival/backend/internal/middleware"
	"github.com/tghbhs/science-carnival/backend/internal/registrations"
	"github.com/tghbhs/science-carnival/backend/internal/settings"
	"github.com/tghbhs/science-carnival/backend/internal/store"
	"github.com/tghbhs/science-carnival/backend/internal/users"
	"github.com/tghbhs/science-carnival/backend/internal/wiki"
)

// Deps carries everything the router needs.
type Deps struct {
	Store          store.Store
	Sessions       auth.Sessions
	Media          wiki.Media
	Audit          audit.Recorder
	SecureCookies  bool
	AllowedOrigins []string
}

// NewRouter wires the full API surface. Each protected route names the roles
// it accepts explicitly; there is no role hierarchy.
func NewRouter(d Deps) *chi.Mux {
	authHandler := auth.NewHandler(d.Store, d.Sessions, d.SecureCookies)
	regHandler := registrations.NewHandler(d.Store, d.Audit)
	userHandler := users.NewHandler(d.Store, d.Audit)
	wikiHandler := wiki.NewHandler(d.Store, d.Media, d.Audit)
	settingsHandler := settings.NewHandler(d.Store, d.Audit)
	auditHandler := audit.NewHandler(d.Audit)

	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	if len(d.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   d.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(middleware.WithUser(d.Sessions, d.Store))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		// Authentication
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.With(middleware.RequireAuth).Get("/user", authHandler.Me)

		// Settings: public read, admin write
		r.Get("/settings", settingsHandler.Get)
		r.With(middleware.RequireAuth, middleware.RequireAdmin).Post("/settings", settingsHandler.Update)

		// Wiki: public read, admin write
		r.Route("/wiki", func(r chi.Router) {
			r.Get("/", wikiHandler.List)
			r.Get("/categories", wikiHandler.Categories)
			r.Get("/category/{category}", wikiHandler.ByCategory)
			r.Get("/assets/*", wikiHandler.Asset)
			r.Get("/{id}", wikiHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth, middleware.RequireAdmin)
				r.Post("/", wikiHandler.Create)
				r.Post("/upload", wikiHandler.Upload)
				r.Put("/{id}", wikiHandler.Update)
				r.Delete("/{id}", wikiHandler.Delete)
			})
		})

		// Carnival registrations
		r.Post("/register-carnival", regHandler.RegisterCarnival)
		r.Route("/registrations", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", regHandler.List)
			r.Get("/{id}", regHandler.Get)
			r.Put("/{id}", regHandler.Update)
			r.With(middleware.RequireAdmin).Delete("/{id}", regHandler.Delete)
		})

		// Own profile
		r.Route("/profile", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", userHandler.Profile)
			r.Put("/", userHandler.UpdateProfile)
		})

		// Admin user management
		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireAuth, middleware.RequireAdmin)
			r.Get("/", userHandler.List)
			r.Post("/", userHandler.Create)
			r.Put("/{id}", userHandler.Update)
			r.Delete("/{id}", userHandler.Delete)
		})

		// Admin audit log
		r.With(middleware.RequireAuth, middleware.RequireAdmin).Get("/audit", auditHandler.List)
	})

	return r
}
