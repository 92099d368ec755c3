package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

func testSigning(t *testing.T, key string) SigningConfig {
	t.Helper()
	cfg, err := NewSigningConfig(SigningConfig{
		Key:            []byte(key),
		Issuer:         "gophauth",
		Audience:       "gophauth-api",
		TTL:            time.Hour,
		ValidateIssuer: true,
	})
	require.NoError(t, err)
	return cfg
}

func fixedClock(ts time.Time) Option {
	return WithClock(func() time.Time { return ts })
}

func TestIssueAndValidate_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := testSigning(t, "super-secret")
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tok, issued, err := NewIssuer(cfg, fixedClock(now)).Issue("user-123", []string{"admin"})
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	assert.Equal(t, "user-123", issued.Subject)
	assert.Equal(t, now, issued.IssuedAt.Time)
	assert.Equal(t, now.Add(time.Hour), issued.ExpiresAt.Time)
	assert.True(t, issued.ExpiresAt.After(issued.IssuedAt.Time))

	got, err := NewValidator(cfg, fixedClock(now.Add(time.Minute))).Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", got.Subject)
	assert.Equal(t, "gophauth", got.Issuer)
	assert.Equal(t, "gophauth-api", got.Audience)
	assert.Equal(t, []string{"admin"}, got.Roles)
}

func TestIssue_PayloadShape(t *testing.T) {
	t.Parallel()

	cfg := testSigning(t, "k")
	tok, _, err := NewIssuer(cfg, fixedClock(time.Unix(1000, 0))).Issue("u1", nil)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))

	assert.Equal(t, "u1", payload["sub"])
	assert.Equal(t, float64(1000), payload["iat"])
	assert.Equal(t, float64(1000+3600), payload["exp"])
	assert.Equal(t, "gophauth", payload["iss"])
	assert.Equal(t, "gophauth-api", payload["aud"], "aud is a plain string")
	assert.NotContains(t, payload, "roles")
}

func TestIssue_InvalidKey(t *testing.T) {
	t.Parallel()

	i := NewIssuer(SigningConfig{TTL: time.Hour})
	require.ErrorIs(t, i.CheckKey(), common.ErrorSigning)

	_, _, err := i.Issue("u", nil)
	require.ErrorIs(t, err, common.ErrorSigning)
}

func TestNewSigningConfig_RejectsNonPositiveTTL(t *testing.T) {
	t.Parallel()

	_, err := NewSigningConfig(SigningConfig{Key: []byte("k")})
	require.ErrorIs(t, err, common.ErrorSigning)
}

func TestNewSigningConfig_CopiesKey(t *testing.T) {
	t.Parallel()

	key := []byte("secret")
	cfg, err := NewSigningConfig(SigningConfig{Key: key, TTL: time.Minute})
	require.NoError(t, err)

	key[0] = 'X'
	assert.Equal(t, []byte("secret"), cfg.Key)
}

func TestValidate_Expired(t *testing.T) {
	t.Parallel()

	cfg := testSigning(t, "secret")
	now := time.Now()

	tok, _, err := NewIssuer(cfg, fixedClock(now.Add(-2*time.Hour))).Issue("u1", nil)
	require.NoError(t, err)

	_, err = NewValidator(cfg, fixedClock(now)).Validate(tok)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidate_ExpiresExactlyAtExp(t *testing.T) {
	t.Parallel()

	cfg := testSigning(t, "secret")
	now := time.Unix(5000, 0)

	tok, _, err := NewIssuer(cfg, fixedClock(now)).Issue("u1", nil)
	require.NoError(t, err)

	_, err = NewValidator(cfg, fixedClock(now.Add(time.Hour))).Validate(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidate_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, _, err := NewIssuer(testSigning(t, "right-secret")).Issue("u2", nil)
	require.NoError(t, err)

	_, err = NewValidator(testSigning(t, "wrong-secret")).Validate(tok)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestValidate_TamperedPayload(t *testing.T) {
	t.Parallel()

	cfg := testSigning(t, "secret")
	tok, _, err := NewIssuer(cfg).Issue("victim", nil)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	forged := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"attacker","iat":1,"exp":99999999999,"iss":"gophauth","aud":"gophauth-api"}`))
	_, err = NewValidator(cfg).Validate(parts[0] + "." + forged + "." + parts[2])
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestValidate_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := NewValidator(testSigning(t, "k")).Validate("not.a.jwt")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestValidate_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	cfg := testSigning(t, "secret")
	now := time.Now()
	claims := &Claims{
		Subject:   "u1",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		Issuer:    "gophauth",
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewValidator(cfg).Validate(none)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(cfg.Key)
	require.NoError(t, err)
	_, err = NewValidator(cfg).Validate(hs512)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestValidate_MissingExpiry(t *testing.T) {
	t.Parallel()

	cfg := testSigning(t, "secret")
	tok, err := jwt.NewWithClaims(SigningMethod, &Claims{Subject: "u1", Issuer: "gophauth"}).SignedString(cfg.Key)
	require.NoError(t, err)

	_, err = NewValidator(cfg).Validate(tok)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestValidate_MissingSubject(t *testing.T) {
	t.Parallel()

	cfg := testSigning(t, "secret")
	tok, _, err := NewIssuer(cfg).Issue("", nil)
	require.NoError(t, err)

	_, err = NewValidator(cfg).Validate(tok)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestValidate_IssuerAndAudience(t *testing.T) {
	t.Parallel()

	issuing := testSigning(t, "secret")
	tok, _, err := NewIssuer(issuing).Issue("u1", nil)
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(*SigningConfig)
		wantErr bool
	}{
		{name: "matching", mutate: func(*SigningConfig) {}},
		{name: "issuer mismatch checked", mutate: func(c *SigningConfig) { c.Issuer = "other" }, wantErr: true},
		{name: "issuer mismatch unchecked", mutate: func(c *SigningConfig) { c.Issuer = "other"; c.ValidateIssuer = false }},
		{name: "audience mismatch unchecked", mutate: func(c *SigningConfig) { c.Audience = "other" }},
		{name: "audience mismatch checked", mutate: func(c *SigningConfig) { c.Audience = "other"; c.ValidateAudience = true }, wantErr: true},
		{name: "audience match checked", mutate: func(c *SigningConfig) { c.ValidateAudience = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := issuing
			tt.mutate(&cfg)

			_, err := NewValidator(cfg).Validate(tok)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSignature), "mismatch is reported as a bad signature, got %v", err)
		})
	}
}
