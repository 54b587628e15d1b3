// Package persist provides the durable document gateway backing the
// stores. A document is a named whole resource: every write replaces it
// completely and every read returns it completely.
package persist

import (
	"context"
	"errors"
	"fmt"
)

// Resource names used by the stores.
const (
	TasksDocument = "tasks.json"
	UsersDocument = "users.json"
)

// ErrNotExist is returned by Read when the named document has never
// been written.
var ErrNotExist = errors.New("document does not exist")

// DocumentStore is the whole-resource persistence gateway.
type DocumentStore interface {
	// Ensure idempotently creates the backing container
	// (directory or table).
	Ensure(ctx context.Context) error

	// Read returns the full content of the named document, or
	// ErrNotExist if it was never written.
	Read(ctx context.Context, name string) ([]byte, error)

	// Write replaces the named document with data.
	Write(ctx context.Context, name string, data []byte) error

	// Close releases any underlying resources.
	Close() error
}

// Supported driver names.
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open constructs the document store selected by driver and ensures its
// container exists. The file driver stores documents under dataDir; the
// sqlite driver opens dsn (defaulting to a database file under dataDir);
// the postgres driver requires a dsn.
func Open(ctx context.Context, driver, dsn, dataDir string) (DocumentStore, error) {
	var (
		store DocumentStore
		err   error
	)

	switch driver {
	case DriverFile, "":
		store = NewFileStore(dataDir)
	case DriverSQLite:
		store, err = OpenSQLite(ctx, dsn, dataDir)
	case DriverPostgres:
		store, err = OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown persistence driver %q", driver)
	}
	if err != nil {
		return nil, err
	}

	if err := store.Ensure(ctx); err != nil {
		closeErr := store.Close()
		return nil, errors.Join(fmt.Errorf("ensure document container: %w", err), closeErr)
	}
	return store, nil
}
