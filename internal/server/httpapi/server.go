// Package httpapi exposes registration, login and user endpoints over HTTP
// using a chi router. Protected routes are wrapped by the gate middleware.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/gate"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/respond"
	"github.com/dmitrijs2005/gophauth/internal/server/validation"
)

const (
	maxRequestBodySize = 1 << 20
	shutdownTimeout    = 10 * time.Second
)

// UserService is the business API the handlers call.
type UserService interface {
	Register(ctx context.Context, req validation.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, req validation.LoginRequest) (*models.User, string, error)
	Me(ctx context.Context, userID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	AssignGroup(ctx context.Context, userID string, req validation.AssignGroupRequest) error
}

// CookieConfig controls the auth_token cookie set on register and login.
type CookieConfig struct {
	Secure bool
	MaxAge time.Duration
}

type Server struct {
	address string
	users   UserService
	gate    *gate.Gate
	logger  logging.Logger
	metrics *metrics.Metrics
	errors  respond.Writer
	cookie  CookieConfig
}

type Option func(*Server)

func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithProduction marks cookies Secure and hides 5xx details.
func WithProduction(production bool) Option {
	return func(s *Server) {
		s.errors = respond.Writer{Production: production}
		s.cookie.Secure = production
	}
}

func WithCookieMaxAge(d time.Duration) Option {
	return func(s *Server) { s.cookie.MaxAge = d }
}

func NewServer(address string, users UserService, g *gate.Gate, opts ...Option) *Server {
	s := &Server{
		address: address,
		users:   users,
		gate:    g,
		logger:  logging.Nop(),
		cookie:  CookieConfig{MaxAge: 24 * time.Hour},
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = s.logger.With("module", "http_server")
	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
