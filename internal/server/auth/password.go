package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// ErrHashParse is returned by Verify for stored hashes it cannot decode.
var ErrHashParse = errors.New("malformed password hash")

// ArgonParams are the Argon2id cost parameters written into every hash.
type ArgonParams struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// DefaultArgonParams follows the OWASP recommendation for Argon2id.
var DefaultArgonParams = ArgonParams{
	Time:    3,
	Memory:  64 * 1024,
	Threads: 1,
	KeyLen:  32,
	SaltLen: 16,
}

// maxArgonMemory bounds the memory a stored hash may ask Verify to allocate.
const maxArgonMemory = 1024 * 1024

// Hasher produces and checks self-describing Argon2id hashes in PHC format:
//
//	$argon2id$v=19$m=65536,t=3,p=1$<salt>$<hash>
type Hasher struct {
	params ArgonParams
	rand   func(int) ([]byte, error)
}

func NewHasher(params ArgonParams) *Hasher {
	return &Hasher{params: params, rand: common.RandomBytes}
}

// Hash derives a hash of password under a fresh random salt.
func (h *Hasher) Hash(password string) (string, error) {
	salt, err := h.rand(int(h.params.SaltLen))
	if err != nil {
		return "", fmt.Errorf("%w: generating salt: %w", common.ErrorHashing, err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the hash of password with the salt and parameters
// embedded in encoded and compares in constant time.
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	salt, key, params, err := decodePHC(encoded)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrHashParse, err)
	}

	candidate := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Threads, uint32(len(key)))

	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

func decodePHC(encoded string) (salt, key []byte, params ArgonParams, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, nil, params, errors.New("invalid PHC format")
	}

	if parts[1] != "argon2id" {
		return nil, nil, params, fmt.Errorf("unsupported algorithm %q", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, params, fmt.Errorf("parsing version: %w", err)
	}
	if version != argon2.Version {
		return nil, nil, params, fmt.Errorf("unsupported version %d", version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Time, &params.Threads); err != nil {
		return nil, nil, params, fmt.Errorf("parsing parameters: %w", err)
	}
	if params.Time == 0 || params.Threads == 0 || params.Memory < 8*uint32(params.Threads) || params.Memory > maxArgonMemory {
		return nil, nil, params, errors.New("parameters out of range")
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, params, fmt.Errorf("decoding salt: %w", err)
	}

	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, params, fmt.Errorf("decoding hash: %w", err)
	}
	if len(key) == 0 {
		return nil, nil, params, errors.New("empty hash")
	}

	return salt, key, params, nil
}
