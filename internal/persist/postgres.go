package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore keeps documents as rows in a single postgres table.
// It exists for installations that already run postgres; the document
// semantics are identical to the other drivers.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to the database named by dsn.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("postgres driver requires a dsn")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to reach database: %w", err), closeErr)
	}

	return &PostgresStore{db: db}, nil
}

// Ensure creates the documents table if it doesn't exist.
func (s *PostgresStore) Ensure(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			name TEXT PRIMARY KEY,
			body BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

// Read returns the full content of the named document.
func (s *PostgresStore) Read(ctx context.Context, name string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT body FROM documents WHERE name = $1", name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, name)
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Write replaces the named document with data.
func (s *PostgresStore) Write(ctx context.Context, name string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (name, body, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET
			body = EXCLUDED.body,
			updated_at = now()
	`, name, data)
	return err
}

// Close closes the underlying database.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
