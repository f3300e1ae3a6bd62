package client

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

func newAuthService(t *testing.T) *services.AuthService {
	t.Helper()
	svc, err := services.NewAuthService(
		accounts.NewMemoryRepository(),
		cryptox.NewBcryptHasher(bcrypt.MinCost),
		auth.NewTokenIssuer([]byte("secret"), 0),
		nopLogger{},
	)
	require.NoError(t, err)
	return svc
}

// exerciseClient runs the common register/login/whoami flow against c.
func exerciseClient(t *testing.T, c Client) {
	t.Helper()
	ctx := context.Background()

	err := c.Register(ctx, "alice", "weak")
	require.ErrorIs(t, err, errInvalidInput)
	require.Equal(t, "Password must be at least 8 characters long.", err.Error())

	require.NoError(t, c.Register(ctx, "alice", "Abcdef1!"))

	err = c.Register(ctx, "alice", "Abcdef2@")
	require.ErrorIs(t, err, errDuplicate)

	_, err = c.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, errAuthFailed)
	require.Equal(t, "Invalid credentials", err.Error())

	_, err = c.Login(ctx, "", "")
	require.ErrorIs(t, err, errInvalidInput)
	require.Equal(t, "Please fill in all fields.", err.Error())

	token, err := c.Login(ctx, "alice", "Abcdef1!")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := c.Whoami(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "alice", id.Username)
	require.False(t, id.IssuedAt.IsZero())

	_, err = c.Whoami(ctx, token+"x")
	require.ErrorIs(t, err, errInvalidToken)
}
