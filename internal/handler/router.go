package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/solotrip/solotrip-go/internal/middleware"
)

// RouterConfig holds the HTTP surface settings.
type RouterConfig struct {
	BasePath    string
	CORSOrigins []string
}

// NewRouter mounts every route under cfg.BasePath. Only trip creation and /auth/me require a token.
func NewRouter(cfg RouterConfig, auth *AuthHandler, trips *TripHandler, tokens middleware.TokenVerifier) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	requireAuth := middleware.JWTAuth(tokens)

	routes := func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", auth.HandleLogin)
			r.With(requireAuth).Get("/me", auth.HandleMe)
		})

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", trips.HandleList)
			r.With(requireAuth).Post("/", trips.HandleCreate)
			r.Get("/search", trips.HandleSearch)
			r.Get("/{id}", trips.HandleGet)
			r.Put("/{id}", trips.HandleUpdate)
			r.Delete("/{id}", trips.HandleDelete)
		})
	}

	if cfg.BasePath == "" || cfg.BasePath == "/" {
		routes(r)
	} else {
		r.Route(cfg.BasePath, routes)
	}
	return r
}
