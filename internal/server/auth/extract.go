package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// Extract returns the raw token carried by r. A Bearer Authorization header
// wins over the auth_token cookie. ok is false when neither is present,
// which means the caller is anonymous rather than that something failed.
func Extract(r *http.Request) (token string, ok bool) {
	if token, ok := FromAuthorization(r.Header.Get(common.AuthorizationHeader)); ok {
		return token, true
	}

	c, err := r.Cookie(common.AuthCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// FromAuthorization parses "Bearer <token>". The scheme is case-insensitive.
func FromAuthorization(header string) (string, bool) {
	if len(header) < len(common.BearerPrefix) || !strings.EqualFold(header[:len(common.BearerPrefix)], common.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(common.BearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

type ctxKey string

const claimsKey ctxKey = "claims"

// WithClaims stores the verified claims of the caller in ctx.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFromContext returns the claims stored by WithClaims.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok && c != nil
}
