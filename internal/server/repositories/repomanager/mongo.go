package repomanager

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// defaultMongoDatabase is used when the DSN has no path.
const defaultMongoDatabase = "gophauth"

func mongoDatabase(u *url.URL) string {
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return defaultMongoDatabase
}

func openMongo(ctx context.Context, dsn string, u *url.URL) (accounts.Repository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dsn))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(mongoDatabase(u)).Collection(accounts.MongoCollection)
	repo := accounts.NewMongoRepository(coll, client)
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = repo.Close()
		return nil, err
	}
	return repo, nil
}
