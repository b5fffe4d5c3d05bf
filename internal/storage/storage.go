package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/okfngroup/hr-selfservice/internal/config"
)

// ErrNotFound is returned by Get when no document exists under the given id.
var ErrNotFound = errors.New("document not found")

// Store is the contract for the document database the application writes to.
// Put is always a full replacement of the document; fields not present in doc
// are dropped. Update patches only the named fields.
type Store interface {
	Put(ctx context.Context, collection, id string, doc any) error
	Add(ctx context.Context, collection string, doc any) (string, error)
	Get(ctx context.Context, collection, id string, out any) error
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Close() error
}

// NewStore creates a new document store instance based on configuration
func NewStore(cfg config.StorageConfig) (Store, error) {
	switch cfg.Type {
	case "mongodb":
		return NewMongoDBStore(cfg)
	case "dynamodb":
		return NewDynamoDBStore(cfg)
	case "postgresql":
		return NewPostgreSQLStore(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
