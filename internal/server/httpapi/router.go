package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
)

// Handler builds the router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		r.Route("/users", func(r chi.Router) {
			r.With(s.gate.Authenticated()).Get("/@me", s.handleMe)
			r.With(s.gate.Require(services.PermViewUsers)).Get("/", s.handleListUsers)
			r.With(s.gate.Require(services.PermManageGroups)).Post("/{id}/groups", s.handleAssignGroup)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.errors.Error(w, fmt.Errorf("%w: no such route", common.ErrorNotFound))
	})

	return r
}
