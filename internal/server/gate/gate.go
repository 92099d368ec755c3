// Package gate decides whether a request may run: it authenticates the
// caller's token and, when an operation names permissions, checks that the
// caller holds all of them.
//
// The same decision backs the chi middleware (Require) and the gRPC unary
// interceptor (UnaryInterceptor). An unauthenticated caller is rejected
// before any permission lookup is made.
package gate

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/respond"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
)

// TokenValidator verifies a raw token and returns its claims.
type TokenValidator interface {
	Validate(raw string) (*auth.Claims, error)
}

// PermissionResolver returns the permissions held by a user.
type PermissionResolver interface {
	PermissionsFor(ctx context.Context, userID string) (services.PermissionSet, error)
}

type Gate struct {
	validator TokenValidator
	resolver  PermissionResolver
	logger    logging.Logger
	metrics   *metrics.Metrics
	errors    respond.Writer
}

type Option func(*Gate)

func WithLogger(l logging.Logger) Option {
	return func(g *Gate) { g.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gate) { g.metrics = m }
}

// WithProduction hides 5xx details in rejection bodies.
func WithProduction(production bool) Option {
	return func(g *Gate) { g.errors = respond.Writer{Production: production} }
}

func New(v TokenValidator, r PermissionResolver, opts ...Option) *Gate {
	g := &Gate{validator: v, resolver: r, logger: logging.Nop()}
	for _, o := range opts {
		o(g)
	}
	g.logger = g.logger.With("module", "gate")
	return g
}

// Authorize runs the decision for one request. present reports whether the
// transport carried a token at all. With no perms any valid token passes.
//
// Token failures of every kind come back as the bare common.ErrorUnauthorized;
// the specific reason is only logged.
func (g *Gate) Authorize(ctx context.Context, raw string, present bool, perms ...string) (*auth.Claims, error) {
	if !present {
		return nil, common.ErrorUnauthorized
	}

	claims, err := g.validator.Validate(raw)
	if err != nil {
		g.logger.Warn(ctx, "token rejected", "reason", reasonOf(err))
		return nil, common.ErrorUnauthorized
	}

	if len(perms) == 0 {
		return claims, nil
	}

	held, err := g.resolver.PermissionsFor(ctx, claims.Subject)
	if err != nil {
		g.logger.Error(ctx, "permission lookup failed", "user_id", claims.Subject, "error", err)
		return nil, err
	}
	for _, p := range perms {
		if !held.Has(p) {
			g.logger.Info(ctx, "permission denied", "user_id", claims.Subject, "permission", p)
			return nil, common.ErrorForbidden
		}
	}

	return claims, nil
}

// Authenticated is Require with no permissions.
func (g *Gate) Authenticated() func(http.Handler) http.Handler {
	return g.Require()
}

// Require returns middleware that lets the request through only when the
// caller holds every named permission. Claims are put on the request context
// for the handler (see auth.ClaimsFromContext).
func (g *Gate) Require(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, present := auth.Extract(r)

			claims, err := g.Authorize(r.Context(), raw, present, perms...)
			g.metrics.GateDecision("http", outcomeOf(err))
			if err != nil {
				g.errors.Error(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, common.ErrorUnauthorized):
		return metrics.OutcomeUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return metrics.OutcomeForbidden
	default:
		return metrics.OutcomeError
	}
}

func reasonOf(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "expired"
	case errors.Is(err, auth.ErrInvalidSignature):
		return "invalid_signature"
	default:
		return "malformed"
	}
}
