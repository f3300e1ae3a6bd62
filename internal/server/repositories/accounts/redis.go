package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/redis/go-redis/v9"
)

// RedisKeyPrefix namespaces account keys.
const RedisKeyPrefix = "gophauth:account"

// RedisRepository stores each account as a JSON string under
// <prefix>:<username>. Create uses SET NX.
type RedisRepository struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisRepository(client *redis.Client, keyPrefix string) *RedisRepository {
	if keyPrefix == "" {
		keyPrefix = RedisKeyPrefix
	}
	return &RedisRepository{client: client, keyPrefix: keyPrefix}
}

func (r *RedisRepository) key(username string) string {
	return r.keyPrefix + ":" + username
}

func (r *RedisRepository) Exists(ctx context.Context, username string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(username)).Result()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return n > 0, nil
}

func (r *RedisRepository) Create(ctx context.Context, username, passwordHash string) (*models.Account, error) {
	acc := newAccount(username, passwordHash)

	data, err := json.Marshal(acc)
	if err != nil {
		return nil, fmt.Errorf("marshal account: %w", err)
	}

	ok, err := r.client.SetNX(ctx, r.key(username), data, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	if !ok {
		return nil, common.ErrDuplicateUsername
	}
	return acc, nil
}

func (r *RedisRepository) Find(ctx context.Context, username string) (*models.Account, error) {
	raw, err := r.client.Get(ctx, r.key(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	acc := &models.Account{}
	if err := json.Unmarshal(raw, acc); err != nil {
		return nil, fmt.Errorf("unmarshal account %q: %w", username, err)
	}
	return acc, nil
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}
