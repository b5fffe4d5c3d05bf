package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/okfngroup/hr-selfservice/internal/config"
)

// MongoDBStore implements Store using MongoDB
type MongoDBStore struct {
	client   *mongo.Client
	database *mongo.Database
}

// NewMongoDBStore creates a new MongoDB store instance
func NewMongoDBStore(cfg config.StorageConfig) (*MongoDBStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDBURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoDBStore{
		client:   client,
		database: client.Database(cfg.MongoDatabase),
	}, nil
}

// Put fully replaces the document under the given id, creating it if absent.
func (m *MongoDBStore) Put(ctx context.Context, collection, id string, doc any) error {
	opts := options.Replace().SetUpsert(true)
	_, err := m.database.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to replace document %s/%s: %w", collection, id, err)
	}
	return nil
}

// Add inserts the document under a generated id and returns the id.
func (m *MongoDBStore) Add(ctx context.Context, collection string, doc any) (string, error) {
	id := uuid.NewString()

	raw, err := bson.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode document for %s: %w", collection, err)
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return "", fmt.Errorf("failed to encode document for %s: %w", collection, err)
	}
	fields["_id"] = id

	if _, err := m.database.Collection(collection).InsertOne(ctx, fields); err != nil {
		return "", fmt.Errorf("failed to insert document into %s: %w", collection, err)
	}
	return id, nil
}

// Get decodes the document under the given id into out.
func (m *MongoDBStore) Get(ctx context.Context, collection, id string, out any) error {
	err := m.database.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get document %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update sets only the named fields on an existing document.
func (m *MongoDBStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	res, err := m.database.Collection(collection).UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update document %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Close disconnects from MongoDB
func (m *MongoDBStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
