package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollection is the default collection name.
const MongoCollection = "accounts"

// MongoRepository stores one document per account. A unique index on
// username turns concurrent duplicate inserts into duplicate-key errors.
type MongoRepository struct {
	coll   *mongo.Collection
	client *mongo.Client
}

// NewMongoRepository works on coll. When client is non-nil Close
// disconnects it.
func NewMongoRepository(coll *mongo.Collection, client *mongo.Client) *MongoRepository {
	return &MongoRepository{coll: coll, client: client}
}

// EnsureIndexes creates the unique username index if it is missing.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("username_unique"),
	})
	if err != nil {
		return fmt.Errorf("mongo create index: %w", err)
	}
	return nil
}

func (r *MongoRepository) Exists(ctx context.Context, username string) (bool, error) {
	err := r.coll.FindOne(ctx, bson.M{"username": username},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return false, nil
	default:
		return false, fmt.Errorf("mongo error: %w", err)
	}
}

func (r *MongoRepository) Create(ctx context.Context, username, passwordHash string) (*models.Account, error) {
	acc := newAccount(username, passwordHash)

	if _, err := r.coll.InsertOne(ctx, acc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, common.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	return acc, nil
}

func (r *MongoRepository) Find(ctx context.Context, username string) (*models.Account, error) {
	acc := &models.Account{}
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(acc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	return acc, nil
}

func (r *MongoRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Disconnect(context.Background())
}
