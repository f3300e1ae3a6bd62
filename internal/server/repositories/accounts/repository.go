// Package accounts is the credential store: a username to Account mapping
// with atomic insert-if-absent. Backends: in-memory, Postgres, MongoDB,
// Redis and S3.
package accounts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
)

// Repository persists Accounts.
//
// Create must be atomic with respect to concurrent calls for the same
// username: at most one succeeds, the rest get common.ErrDuplicateUsername
// and the store is left unchanged. Find returns common.ErrorNotFound for
// unknown usernames.
type Repository interface {
	Exists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, username, passwordHash string) (*models.Account, error)
	Find(ctx context.Context, username string) (*models.Account, error)
	Close() error
}

// newAccount stamps a fresh ID and creation time.
func newAccount(username, passwordHash string) *models.Account {
	return &models.Account{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
}
