package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// SigningMethod is the only algorithm gophauth signs and accepts.
var SigningMethod = jwt.SigningMethodHS256

// SigningConfig is the immutable key material and claim policy shared by
// Issuer and Validator. Build it once at start-up with NewSigningConfig.
type SigningConfig struct {
	Key              []byte
	Issuer           string
	Audience         string
	TTL              time.Duration
	ValidateIssuer   bool
	ValidateAudience bool
}

// NewSigningConfig returns a copy of c that owns its key bytes, or an
// ErrorSigning if the key or TTL is unusable.
func NewSigningConfig(c SigningConfig) (SigningConfig, error) {
	c.Key = append([]byte(nil), c.Key...)
	if err := c.Check(); err != nil {
		return SigningConfig{}, err
	}
	return c, nil
}

// Check reports whether tokens can be signed with this configuration.
func (c SigningConfig) Check() error {
	if len(c.Key) == 0 {
		return fmt.Errorf("%w: empty signing key", common.ErrorSigning)
	}
	if c.TTL <= 0 {
		return fmt.Errorf("%w: token ttl must be positive, got %s", common.ErrorSigning, c.TTL)
	}
	return nil
}
