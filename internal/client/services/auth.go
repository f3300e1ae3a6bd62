// Package services contains application services for the GophAuth CLI.
// AuthService combines the API client with the local session store so a
// login survives restarts until logout or token rejection.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/repositories/session"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/validation"
)

// ErrNotLoggedIn is returned by Whoami when no session is stored.
var ErrNotLoggedIn = errors.New("not logged in")

// AuthService defines authentication operations for the CLI.
//
// Register and Login check input locally with the same rules the server
// applies, so obvious mistakes never leave the machine. All methods honour
// context cancellation.
type AuthService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) (*client.Identity, error)
	// Restore reports the username of a stored session that is still
	// usable. A session the server rejects is cleared.
	Restore(ctx context.Context) (string, bool, error)
	Close() error
}

type authService struct {
	client client.Client
	db     *sql.DB
}

func NewAuthService(c client.Client, db *sql.DB) AuthService {
	return &authService{client: c, db: db}
}

func (a *authService) repo() session.Repository {
	return session.NewSQLiteRepository(a.db)
}

func (a *authService) Register(ctx context.Context, username, password string) error {
	if err := validation.CheckRegistration(username, password); err != nil {
		return err
	}
	return a.client.Register(ctx, username, password)
}

func (a *authService) Login(ctx context.Context, username, password string) error {
	if err := validation.CheckLogin(username, password); err != nil {
		return err
	}

	token, err := a.client.Login(ctx, username, password)
	if err != nil {
		return err
	}

	if err := a.saveSession(ctx, username, token); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	return nil
}

// saveSession writes username and token in one transaction.
func (a *authService) saveSession(ctx context.Context, username, token string) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := session.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, session.KeyUsername, []byte(username)); err != nil {
			return err
		}
		return repo.Set(ctx, session.KeyToken, []byte(token))
	})
}

func (a *authService) Logout(ctx context.Context) error {
	return a.repo().Clear(ctx)
}

func (a *authService) Whoami(ctx context.Context) (*client.Identity, error) {
	token, err := a.repo().Get(ctx, session.KeyToken)
	if err != nil {
		return nil, err
	}
	if len(token) == 0 {
		return nil, ErrNotLoggedIn
	}
	return a.client.Whoami(ctx, string(token))
}

// Restore keeps the session when the server is unreachable; only an
// explicit token rejection clears it.
func (a *authService) Restore(ctx context.Context) (string, bool, error) {
	repo := a.repo()

	token, err := repo.Get(ctx, session.KeyToken)
	if err != nil {
		return "", false, err
	}
	username, err := repo.Get(ctx, session.KeyUsername)
	if err != nil {
		return "", false, err
	}
	if len(token) == 0 || len(username) == 0 {
		return "", false, nil
	}

	id, err := a.client.Whoami(ctx, string(token))
	switch {
	case err == nil:
		return id.Username, true, nil
	case errors.Is(err, client.ErrUnavailable):
		return string(username), true, nil
	case errors.Is(err, common.ErrInvalidToken):
		if cerr := repo.Clear(ctx); cerr != nil {
			return "", false, cerr
		}
		return "", false, nil
	default:
		return "", false, err
	}
}

func (a *authService) Close() error {
	return a.client.Close()
}
