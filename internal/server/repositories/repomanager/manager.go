// Package repomanager opens the credential store named by a storage DSN and
// prepares it for use (migrations, indexes, connectivity checks).
package repomanager

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
)

// Options carries the storage DSN plus the S3 settings that do not fit in
// a URL.
type Options struct {
	DSN            string
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string
	S3BaseEndpoint string
}

// Open returns the accounts.Repository for opts.DSN:
//
//	""  or memory://        in-process map
//	postgres://...          Postgres, migrations applied
//	mongodb://host/db       MongoDB, unique index ensured
//	redis://host:port/db    Redis
//	s3://bucket/prefix      S3 or any S3-compatible store
func Open(ctx context.Context, opts Options, log logging.Logger) (accounts.Repository, error) {
	if opts.DSN == "" {
		log.Info(ctx, "using in-memory credential store")
		return accounts.NewMemoryRepository(), nil
	}

	u, err := url.Parse(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse storage dsn: %w", err)
	}

	var repo accounts.Repository
	switch u.Scheme {
	case "memory":
		repo = accounts.NewMemoryRepository()
	case "postgres", "postgresql":
		repo, err = openPostgres(ctx, opts.DSN)
	case "mongodb", "mongodb+srv":
		repo, err = openMongo(ctx, opts.DSN, u)
	case "redis", "rediss":
		repo, err = openRedis(ctx, opts.DSN, u)
	case "s3":
		repo, err = openS3(ctx, opts, u)
	default:
		return nil, fmt.Errorf("unsupported storage scheme %q", u.Scheme)
	}
	if err != nil {
		return nil, err
	}

	log.Info(ctx, "credential store opened", "backend", u.Scheme, "host", u.Host)
	return repo, nil
}
