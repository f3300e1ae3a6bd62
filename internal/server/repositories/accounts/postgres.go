package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// PostgresRepository stores accounts in the accounts table. Uniqueness is
// enforced by the username constraint and ON CONFLICT DO NOTHING.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Exists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Create(ctx context.Context, username, passwordHash string) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (id, username, password_hash, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (username) DO NOTHING
		 RETURNING id`

	acc := newAccount(username, passwordHash)

	err := r.db.QueryRowContext(ctx, query,
		acc.ID, acc.Username, acc.PasswordHash, acc.CreatedAt).Scan(&acc.ID)
	if err != nil {
		// Nothing returned means the conflict branch was taken.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return acc, nil
}

func (r *PostgresRepository) Find(ctx context.Context, username string) (*models.Account, error) {
	query :=
		`SELECT id, username, password_hash, created_at FROM accounts
		 WHERE username = $1`

	acc := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&acc.ID, &acc.Username, &acc.PasswordHash, &acc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return acc, nil
}

// Close closes the underlying pool when the repository was built on one.
func (r *PostgresRepository) Close() error {
	if c, ok := r.db.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
