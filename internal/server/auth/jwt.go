// Package auth signs and verifies the bearer tokens handed out on login.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims binds a token to a username and its issuance time. ExpiresAt is
// only set when the issuer has a positive validity duration.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Identity is what a verified token asserts.
type Identity struct {
	Username string
	IssuedAt time.Time
}

// TokenIssuer issues HS256 tokens with a shared secret.
type TokenIssuer struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewTokenIssuer returns an issuer. validity <= 0 issues tokens without exp.
func NewTokenIssuer(secret []byte, validity time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, validity: validity, now: time.Now}
}

// Issue signs a token for username.
func (i *TokenIssuer) Issue(username string) (string, error) {
	now := i.now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
		Username: username,
	}
	if i.validity > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.validity))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks the signature (and exp when present) and returns the
// identity. Every failure wraps common.ErrInvalidToken.
func (i *TokenIssuer) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if !token.Valid || claims.Username == "" {
		return nil, common.ErrInvalidToken
	}

	id := &Identity{Username: claims.Username}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	return id, nil
}

// IsExpired reports whether err came from an expired token.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
