// Package cryptox implements salted one-way password hashing.
//
// Two algorithms are available behind the Hasher interface:
//
//   - argon2id (default): encoded as
//     $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash> with unpadded base64 parts.
//     The salt and cost parameters travel with the hash so Verify can recompute
//     it for the supplied password.
//   - bcrypt: the standard $2a$ encoding from golang.org/x/crypto/bcrypt.
//
// Verification is constant-time with respect to the stored hash.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	AlgorithmArgon2id = "argon2id"
	AlgorithmBcrypt   = "bcrypt"
)

// Upper bounds for cost parameters read back from a stored argon2id hash.
const (
	maxArgon2Memory = 1 << 20 // KiB, i.e. 1 GiB
	maxArgon2Time   = 16
)

var (
	// ErrMalformedHash is returned by Verify for hashes it cannot decode.
	ErrMalformedHash = errors.New("malformed password hash")
	// ErrPasswordTooLong is returned by bcrypt for passwords over 72 bytes.
	ErrPasswordTooLong = errors.New("password too long")
	// ErrUnknownAlgorithm is returned by NewHasher.
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")
)

// Hasher hashes passwords and verifies candidates against stored hashes.
type Hasher interface {
	// Hash returns an encoded hash of password with a fresh random salt.
	Hash(password string) (string, error)
	// Verify reports whether password matches encoded. A non-nil error means
	// encoded could not be interpreted at all.
	Verify(password, encoded string) (bool, error)
}

// NewHasher returns the Hasher for the named algorithm.
// An empty name selects argon2id.
func NewHasher(algorithm string) (Hasher, error) {
	switch algorithm {
	case "", AlgorithmArgon2id:
		return NewArgon2Hasher(), nil
	case AlgorithmBcrypt:
		return NewBcryptHasher(bcrypt.DefaultCost), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}

// Argon2Hasher hashes with argon2id.
type Argon2Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen int
}

// NewArgon2Hasher uses one pass, 64 MiB, four lanes and a 32-byte output.
func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{
		time:    1,
		memory:  64 * 1024,
		threads: 4,
		keyLen:  32,
		saltLen: 16,
	}
}

func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt := common.GenerateRandByteArray(h.saltLen)
	key := argon2.IDKey([]byte(password), salt, h.time, h.memory, h.threads, h.keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *Argon2Hasher) Verify(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != AlgorithmArgon2id {
		return false, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrMalformedHash
	}

	var (
		memory, time uint32
		threads      uint8
	)
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	if time == 0 || time > maxArgon2Time || threads == 0 || memory == 0 || memory > maxArgon2Memory {
		return false, fmt.Errorf("%w: cost parameters out of range", ErrMalformedHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false, ErrMalformedHash
	}

	got := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// BcryptHasher hashes with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher clamps cost into bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(password, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}
