package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"alcyxob/painrelief/internal/storage"
)

const defaultKVCollectionName = "kv"

// kvDocument is one stored value; the storage key is the document id.
type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// mongoKVStore implements storage.KeyValueStore on a single collection.
type mongoKVStore struct {
	collection *mongo.Collection
}

// NewMongoKVStore creates a key-value store backed by MongoDB. An empty
// collection name uses "kv".
func NewMongoKVStore(db *mongo.Database, collectionName string) storage.KeyValueStore {
	if collectionName == "" {
		collectionName = defaultKVCollectionName
	}
	return &mongoKVStore{collection: db.Collection(collectionName)}
}

func (s *mongoKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc kvDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("mongo get %s: %w", key, err)
	}
	return doc.Value, nil
}

// Set replaces the document for key, creating it if needed.
func (s *mongoKVStore) Set(ctx context.Context, key string, value []byte) error {
	doc := kvDocument{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo set %s: %w", key, err)
	}
	return nil
}

func (s *mongoKVStore) Remove(ctx context.Context, key string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("mongo remove %s: %w", key, err)
	}
	return nil
}
