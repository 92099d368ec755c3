package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// Reasons a token is rejected. Every one of them also matches
// common.ErrorUnauthorized; they exist for logging only.
var (
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenMalformed   = errors.New("malformed token")
)

// Option configures an Issuer or a Validator.
type Option func(*clock)

type clock struct {
	now func() time.Time
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *clock) { c.now = now }
}

func newClock(opts []Option) clock {
	c := clock{now: time.Now}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Issuer signs identity tokens.
type Issuer struct {
	cfg   SigningConfig
	clock clock
}

func NewIssuer(cfg SigningConfig, opts ...Option) *Issuer {
	return &Issuer{cfg: cfg, clock: newClock(opts)}
}

// CheckKey fails with common.ErrorSigning when Issue could not succeed.
// Callers run it before any state-mutating work.
func (i *Issuer) CheckKey() error {
	return i.cfg.Check()
}

// Issue builds claims for userID valid from now for the configured TTL and
// returns the signed token.
func (i *Issuer) Issue(userID string, roles []string) (string, *Claims, error) {
	if err := i.CheckKey(); err != nil {
		return "", nil, err
	}

	now := i.clock.now().UTC().Truncate(time.Second)
	claims := &Claims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.TTL)),
		Issuer:    i.cfg.Issuer,
		Audience:  i.cfg.Audience,
		Roles:     roles,
	}

	signed, err := jwt.NewWithClaims(SigningMethod, claims).SignedString(i.cfg.Key)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", common.ErrorSigning, err)
	}
	return signed, claims, nil
}

// TTL is the lifetime given to issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.cfg.TTL
}

// Validator verifies tokens produced by an Issuer sharing the same
// SigningConfig.
type Validator struct {
	cfg   SigningConfig
	clock clock
}

func NewValidator(cfg SigningConfig, opts ...Option) *Validator {
	return &Validator{cfg: cfg, clock: newClock(opts)}
}

// Validate checks the signature, algorithm, exp and, when enabled, iss and
// aud. Any failure wraps common.ErrorUnauthorized plus one of
// ErrTokenExpired, ErrInvalidSignature or ErrTokenMalformed.
func (v *Validator) Validate(raw string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{SigningMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.clock.now),
	}
	if v.cfg.ValidateIssuer {
		opts = append(opts, jwt.WithIssuer(v.cfg.Issuer))
	}
	if v.cfg.ValidateAudience {
		opts = append(opts, jwt.WithAudience(v.cfg.Audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.cfg.Key, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %v", common.ErrorUnauthorized, reason(err), err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, ErrInvalidSignature)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: %w: missing subject", common.ErrorUnauthorized, ErrTokenMalformed)
	}

	return claims, nil
}

func reason(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return ErrInvalidSignature
	default:
		return ErrTokenMalformed
	}
}
