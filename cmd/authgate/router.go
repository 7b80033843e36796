package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/routerd/authgate"
)

func newRouter(gate *authgate.Middleware, registry *prometheus.Registry, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", authgate.HeaderName},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(gate.Handler)
		r.Get("/whoami", whoami)
		r.Get("/me", me)
	})

	return r
}

type identity struct {
	Enabled  bool   `json:"enabled"`
	Logged   bool   `json:"logged"`
	UserID   uint64 `json:"userid,omitempty"`
	Username string `json:"username,omitempty"`
}

func whoami(w http.ResponseWriter, r *http.Request) {
	ext, enabled := authgate.Extension(r.Context())

	resp := identity{Enabled: enabled, Logged: ext.IsLogged()}
	if ext.IsLogged() {
		resp.UserID = ext.Claims.UserID
		resp.Username = ext.Claims.Username
	}
	writeJSON(w, http.StatusOK, resp)
}

func me(w http.ResponseWriter, r *http.Request) {
	claims, err := authgate.RequireLogged(r.Context())
	if err != nil {
		authgate.DefaultErrorHandler(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, identity{
		Enabled:  true,
		Logged:   true,
		UserID:   claims.UserID,
		Username: claims.Username,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
