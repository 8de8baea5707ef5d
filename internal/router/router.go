package router

import (
	"net/http"

	"metamarket-api/internal/handler"
	"metamarket-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler           *handler.Handler
	WatchlistHandler  *handler.WatchlistHandler
	AuthHandler       *handler.AuthHandler
	CartHandler       *handler.CartHandler
	CatalogHandler    *handler.CatalogHandler
	TournamentHandler *handler.TournamentHandler
	AdminHandler      *handler.AdminHandler
	APIKeyMiddleware  func(http.Handler) http.Handler
	CORSOrigins       []string
	Logger            *zap.Logger
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.NewRecovery(cfg.Logger))
	r.Use(middleware.NewLogging(cfg.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-API-Key", middleware.ProfileHeader},
		ExposedHeaders:   []string{"X-Request-ID", middleware.ProfileHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// PUBLIC routes (no auth required)
	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
	}

	r.Group(func(r chi.Router) {
		if cfg.APIKeyMiddleware != nil {
			r.Use(cfg.APIKeyMiddleware)
		}

		r.Route("/api/v1", func(r chi.Router) {
			// Health check endpoints
			if cfg.Handler != nil {
				r.Get("/health", cfg.Handler.Health)
				r.Get("/ready", cfg.Handler.Ready)
			}

			// Per-profile state
			r.Group(func(r chi.Router) {
				r.Use(middleware.Profile)

				if cfg.WatchlistHandler != nil {
					r.Route("/watchlist", func(r chi.Router) {
						r.Get("/", cfg.WatchlistHandler.List)
						r.Post("/", cfg.WatchlistHandler.Add)
						r.Get("/{cardId}", cfg.WatchlistHandler.Check)
						r.Put("/{cardId}/alert", cfg.WatchlistHandler.UpdateAlert)
						r.Delete("/{cardId}", cfg.WatchlistHandler.Remove)
					})
				}

				if cfg.AuthHandler != nil {
					r.Route("/auth", func(r chi.Router) {
						r.Get("/session", cfg.AuthHandler.Session)
						r.Post("/login", cfg.AuthHandler.Login)
						r.Post("/register", cfg.AuthHandler.Register)
						r.Post("/logout", cfg.AuthHandler.Logout)
						r.Patch("/profile", cfg.AuthHandler.UpdateProfile)
					})
				}

				if cfg.CartHandler != nil {
					r.Route("/cart", func(r chi.Router) {
						r.Get("/", cfg.CartHandler.Get)
						r.Delete("/", cfg.CartHandler.Clear)
						r.Post("/items", cfg.CartHandler.AddItem)
						r.Put("/items/{id}", cfg.CartHandler.UpdateQuantity)
						r.Delete("/items/{id}", cfg.CartHandler.RemoveItem)
						r.Post("/toggle", cfg.CartHandler.Toggle)
						r.Post("/close", cfg.CartHandler.Close)
					})
				}
			})

			// Upstream catalog
			if cfg.CatalogHandler != nil {
				r.Route("/cards", func(r chi.Router) {
					r.Get("/", cfg.CatalogHandler.ListCards)
					r.Get("/{id}", cfg.CatalogHandler.GetCard)
					r.Get("/{id}/prices", cfg.CatalogHandler.PriceHistory)
					r.Get("/{id}/summary", cfg.CatalogHandler.PriceSummary)
					r.Get("/{id}/overview", cfg.CatalogHandler.Overview)
				})
				r.Get("/catalog/tournaments", cfg.CatalogHandler.ListTournaments)
			}

			// Local tournaments
			if cfg.TournamentHandler != nil {
				r.Route("/tournaments", func(r chi.Router) {
					r.Get("/", cfg.TournamentHandler.List)
					r.Post("/", cfg.TournamentHandler.Create)
					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", cfg.TournamentHandler.Get)
						r.Put("/", cfg.TournamentHandler.Update)
						r.Delete("/", cfg.TournamentHandler.Delete)
						r.Get("/decklists", cfg.TournamentHandler.ListDecklists)
						r.Post("/decklists", cfg.TournamentHandler.CreateDecklist)
						r.Get("/decklists/{decklistId}", cfg.TournamentHandler.GetDecklist)
						r.Put("/decklists/{decklistId}", cfg.TournamentHandler.UpdateDecklist)
						r.Delete("/decklists/{decklistId}", cfg.TournamentHandler.DeleteDecklist)
					})
				})
			}

			// Admin endpoints
			if cfg.AdminHandler != nil {
				r.Get("/admin/stats", cfg.AdminHandler.GetStats)
			}
		})
	})

	return r
}
