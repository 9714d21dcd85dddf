package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// kvTTLIndexName names the updatedAt index so later runs can find it.
const kvTTLIndexName = "updatedAt_ttl"

// Server codes for an index that exists with other options or another name.
const (
	codeIndexOptionsConflict  = 85
	codeIndexKeySpecsConflict = 86
)

// indexSpec is the part of a listIndexes entry we look at.
type indexSpec struct {
	Name               string `bson:"name"`
	Key                bson.D `bson:"key"`
	ExpireAfterSeconds *int32 `bson:"expireAfterSeconds,omitempty"`
}

func (s indexSpec) onUpdatedAt() bool {
	return len(s.Key) == 1 && s.Key[0].Key == "updatedAt"
}

// indexOps is what EnsureKVIndexes needs from a collection.
type indexOps interface {
	create(ctx context.Context, model mongo.IndexModel) error
	setTTL(ctx context.Context, name string, seconds int32) error
	list(ctx context.Context) ([]indexSpec, error)
	drop(ctx context.Context, name string) error
}

type collectionIndexes struct {
	collection *mongo.Collection
}

func (c collectionIndexes) create(ctx context.Context, model mongo.IndexModel) error {
	_, err := c.collection.Indexes().CreateOne(ctx, model)
	return err
}

func (c collectionIndexes) setTTL(ctx context.Context, name string, seconds int32) error {
	cmd := bson.D{
		{Key: "collMod", Value: c.collection.Name()},
		{Key: "index", Value: bson.D{
			{Key: "name", Value: name},
			{Key: "expireAfterSeconds", Value: seconds},
		}},
	}
	return c.collection.Database().RunCommand(ctx, cmd).Err()
}

func (c collectionIndexes) list(ctx context.Context) ([]indexSpec, error) {
	cur, err := c.collection.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	var specs []indexSpec
	if err := cur.All(ctx, &specs); err != nil {
		return nil, err
	}
	return specs, nil
}

func (c collectionIndexes) drop(ctx context.Context, name string) error {
	_, err := c.collection.Indexes().DropOne(ctx, name)
	return err
}

func kvIndexModel(ttl time.Duration) mongo.IndexModel {
	opts := options.Index().SetName(kvTTLIndexName)
	if ttl > 0 {
		opts.SetExpireAfterSeconds(ttlSeconds(ttl))
	}
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "updatedAt", Value: 1}},
		Options: opts,
	}
}

func ttlSeconds(ttl time.Duration) int32 {
	return int32(ttl / time.Second)
}

func isIndexConflict(err error) bool {
	var se mongo.ServerError
	if !errors.As(err, &se) {
		return false
	}
	return se.HasErrorCode(codeIndexOptionsConflict) || se.HasErrorCode(codeIndexKeySpecsConflict)
}

// EnsureKVIndexes creates the indexes for the key-value collection. With a
// positive ttl, documents untouched for that long are expired by the server.
// An existing updatedAt index is brought to the new ttl in place when the
// server allows it, and rebuilt otherwise.
func EnsureKVIndexes(ctx context.Context, collection *mongo.Collection, ttl time.Duration) error {
	if err := ensureTTLIndex(ctx, collectionIndexes{collection: collection}, ttl); err != nil {
		return fmt.Errorf("create indexes for %s: %w", collection.Name(), err)
	}
	return nil
}

func ensureTTLIndex(ctx context.Context, ops indexOps, ttl time.Duration) error {
	model := kvIndexModel(ttl)
	err := ops.create(ctx, model)
	if err == nil || !isIndexConflict(err) {
		return err
	}

	if ttl > 0 {
		if err := ops.setTTL(ctx, kvTTLIndexName, ttlSeconds(ttl)); err == nil {
			return nil
		}
	}

	specs, err := ops.list(ctx)
	if err != nil {
		return fmt.Errorf("list indexes: %w", err)
	}
	for _, spec := range specs {
		if !spec.onUpdatedAt() {
			continue
		}
		if err := ops.drop(ctx, spec.Name); err != nil {
			return fmt.Errorf("drop index %s: %w", spec.Name, err)
		}
	}
	return ops.create(ctx, model)
}
