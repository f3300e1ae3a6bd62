// Package services contains server-side business logic. AuthService
// validates registrations, stores hashed credentials, checks logins and
// issues bearer tokens.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophauth/internal/validation"
)

// MsgPasswordTooLong is reported when the hasher cannot accept the password.
const MsgPasswordTooLong = "Password is too long."

// TokenIssuer signs and checks bearer tokens.
type TokenIssuer interface {
	Issue(username string) (string, error)
	Verify(token string) (*auth.Identity, error)
}

// AuthService implements Register, Login and VerifyToken on top of a
// credential store passed in by the caller.
type AuthService struct {
	repo      accounts.Repository
	hasher    cryptox.Hasher
	tokens    TokenIssuer
	log       logging.Logger
	dummyHash string
}

// NewAuthService wires the service. It hashes a throwaway password once so
// logins for unknown users cost the same as logins with a wrong password.
func NewAuthService(repo accounts.Repository, hasher cryptox.Hasher, tokens TokenIssuer, log logging.Logger) (*AuthService, error) {
	throwaway, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	dummy, err := hasher.Hash(throwaway)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		log:       log.With("module", "auth"),
		dummyHash: dummy,
	}, nil
}

// Register validates the credentials, hashes the password and stores a new
// account. Failures: *validation.Error (common.ErrInvalidInput),
// common.ErrDuplicateUsername, or an internal error.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	if err := validation.CheckRegistration(username, password); err != nil {
		return err
	}

	taken, err := s.repo.Exists(ctx, username)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if taken {
		return common.ErrDuplicateUsername
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) {
			return &validation.Error{Reason: MsgPasswordTooLong}
		}
		return fmt.Errorf("hash password: %w", err)
	}

	acc, err := s.repo.Create(ctx, username, hash)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) {
			return common.ErrDuplicateUsername
		}
		return fmt.Errorf("create account: %w", err)
	}

	s.log.Info(ctx, "account registered", "username", username, "account_id", acc.ID)
	return nil
}

// Login checks the credentials and returns a signed token. Unknown users
// and wrong passwords both yield common.ErrAuthenticationFailed; the reason
// is only logged.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if err := validation.CheckLogin(username, password); err != nil {
		return "", err
	}

	acc, err := s.repo.Find(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Verify(password, s.dummyHash)
			s.log.Warn(ctx, "login failed", "username", username, "reason", "unknown_user")
			return "", common.ErrAuthenticationFailed
		}
		return "", fmt.Errorf("find account: %w", err)
	}

	ok, err := s.hasher.Verify(password, acc.PasswordHash)
	if err != nil {
		s.log.Error(ctx, "stored password hash unreadable", "username", username, "error", err)
		return "", fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.log.Warn(ctx, "login failed", "username", username, "reason", "wrong_password")
		return "", common.ErrAuthenticationFailed
	}

	token, err := s.tokens.Issue(acc.Username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.log.Info(ctx, "login succeeded", "username", username)
	return token, nil
}

// VerifyToken returns the identity carried by a valid token, or an error
// wrapping common.ErrInvalidToken.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*auth.Identity, error) {
	if token == "" {
		return nil, common.ErrInvalidToken
	}
	id, err := s.tokens.Verify(token)
	if err != nil {
		s.log.Debug(ctx, "token rejected", "error", err)
		return nil, err
	}
	return id, nil
}
