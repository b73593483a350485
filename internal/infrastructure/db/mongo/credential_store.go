package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/user-auth-ui/internal/core/domain"
)

const credentialCollection = "credentials"

// CredentialStore keeps bearer tokens as one document per storage key.
type CredentialStore struct {
	coll *mongo.Collection
	ttl  time.Duration
}

type credentialDoc struct {
	Key       string    `bson:"_id"`
	Token     string    `bson:"token"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewCredentialStore returns a store over db's credentials collection.
// With a positive ttl, EnsureIndexes installs a TTL index so idle
// credentials are reaped by the server.
func NewCredentialStore(db *mongo.Database, ttl time.Duration) *CredentialStore {
	return &CredentialStore{coll: db.Collection(credentialCollection), ttl: ttl}
}

// EnsureIndexes creates the expiry index when a ttl is configured.
func (s *CredentialStore) EnsureIndexes(ctx context.Context) error {
	if s.ttl <= 0 {
		return nil
	}
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(s.ttl.Seconds())),
	})
	if err != nil {
		return fmt.Errorf("create credential ttl index: %w", err)
	}
	return nil
}

func (s *CredentialStore) Get(ctx context.Context, key string) (string, error) {
	var doc credentialDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", domain.ErrCredentialNotFound
		}
		return "", fmt.Errorf("find credential: %w", err)
	}
	return doc.Token, nil
}

func (s *CredentialStore) Set(ctx context.Context, key, value string) error {
	update := bson.M{"$set": bson.M{"token": value, "updated_at": time.Now().UTC()}}
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert credential: %w", err)
	}
	return nil
}

func (s *CredentialStore) Delete(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

func (s *CredentialStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}
