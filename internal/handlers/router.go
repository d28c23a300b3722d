package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handlers groups everything the router dispatches to
type Handlers struct {
	Auth       *AuthHandler
	Admin      *AdminHandler
	User       *UserHandler
	Game       *GameHandler
	Middleware *Middleware
}

// RouterOptions configures the middleware stack
type RouterOptions struct {
	ClientOrigin string
	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP
	TrustProxy bool
}

// NewRouter builds the HTTP API
func NewRouter(h Handlers, opts RouterOptions, logger *zap.Logger) http.Handler {
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "*"
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.StripSlashes)
	r.Use(CORS(opts.ClientOrigin))
	r.Use(MethodOverride)

	notFound := func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusNotFound, map[string]string{
			"error":  ErrRouteNotFound,
			"method": r.Method,
			"path":   r.URL.Path,
		})
	}
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, okResponse{OK: true})
	})

	mw := h.Middleware

	r.Route("/auth", func(r chi.Router) {
		r.With(mw.RateLimit).Post("/register", h.Auth.Register)
		r.With(mw.RateLimit).Post("/login", h.Auth.Login)
		r.Post("/logout", h.Auth.Logout)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(mw.RequireAuth, mw.RequireAdmin)
		r.Get("/users", h.Admin.ListUsers)
		r.Post("/users", h.Admin.CreateUser)
		r.Patch("/users/{id:[0-9]+}/role", h.Admin.ChangeRole)
		r.Delete("/users/{id:[0-9]+}", h.Admin.DeleteUser)
	})

	r.Route("/user", func(r chi.Router) {
		r.Use(mw.RequireAuth)
		r.Get("/me", h.User.Me)
		r.Post("/password", h.User.ChangePassword)
		r.Get("/stats", h.User.Stats)
	})

	r.Route("/gamer/games", func(r chi.Router) {
		r.Use(mw.RequireAuth)
		r.Post("/", h.Game.CreateGame)
		r.Get("/", h.Game.ListGames)
		r.Get("/{id:[0-9]+}", h.Game.GetGame)
		r.Get("/{id:[0-9]+}/attempts", h.Game.Attempts)
		r.Post("/{id:[0-9]+}/reveal", h.Game.Reveal)
		r.Post("/{id:[0-9]+}/surrender", h.Game.Surrender)
	})

	return r
}
