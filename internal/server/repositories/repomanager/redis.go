package repomanager

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	"github.com/redis/go-redis/v9"
)

// openRedis accepts an optional ?prefix= query parameter for the key
// namespace. It is stripped before handing the URL to go-redis.
func openRedis(ctx context.Context, dsn string, u *url.URL) (accounts.Repository, error) {
	q := u.Query()
	prefix := q.Get("prefix")
	if prefix != "" {
		q.Del("prefix")
		stripped := *u
		stripped.RawQuery = q.Encode()
		dsn = stripped.String()
	}

	opts, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return accounts.NewRedisRepository(client, prefix), nil
}
