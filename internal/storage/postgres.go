package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/okfngroup/hr-selfservice/internal/config"
)

// PostgreSQLStore implements Store on top of a single JSONB documents table.
type PostgreSQLStore struct {
	db *sql.DB
}

// NewPostgreSQLStore creates a new PostgreSQL store instance
func NewPostgreSQLStore(cfg config.StorageConfig) (*PostgreSQLStore, error) {
	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	store := &PostgreSQLStore{db: db}
	if err := store.ensureTable(); err != nil {
		return nil, fmt.Errorf("failed to ensure table exists: %w", err)
	}
	return store, nil
}

// ensureTable creates the documents table if it doesn't exist
func (p *PostgreSQLStore) ensureTable() error {
	_, err := p.db.Exec(`
CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL,
    id         TEXT NOT NULL,
    body       JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (collection, id)
)`)
	return err
}

// Put fully replaces the document body; updated_at is set server-side.
func (p *PostgreSQLStore) Put(ctx context.Context, collection, id string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document %s/%s: %w", collection, id, err)
	}
	_, err = p.db.ExecContext(ctx, `
INSERT INTO documents (collection, id, body)
VALUES ($1, $2, $3)
ON CONFLICT (collection, id)
DO UPDATE SET body = EXCLUDED.body, updated_at = now()`,
		collection, id, body)
	if err != nil {
		return fmt.Errorf("failed to put document %s/%s: %w", collection, id, err)
	}
	return nil
}

// Add inserts the document under a generated id and returns the id.
func (p *PostgreSQLStore) Add(ctx context.Context, collection string, doc any) (string, error) {
	id := uuid.NewString()
	if err := p.Put(ctx, collection, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

// Get unmarshals the stored body into out.
func (p *PostgreSQLStore) Get(ctx context.Context, collection, id string, out any) error {
	var body []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = $1 AND id = $2`,
		collection, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get document %s/%s: %w", collection, id, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal document %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update merges the named fields into the stored body.
func (p *PostgreSQLStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal fields: %w", err)
	}
	res, err := p.db.ExecContext(ctx, `
UPDATE documents
SET body = body || $3::jsonb, updated_at = now()
WHERE collection = $1 AND id = $2`,
		collection, id, patch)
	if err != nil {
		return fmt.Errorf("failed to update document %s/%s: %w", collection, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the database connection
func (p *PostgreSQLStore) Close() error {
	return p.db.Close()
}
