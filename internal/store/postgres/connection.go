// Package postgres is the PostgreSQL dialect adapter for store: it
// implements EventStore, SnapshotStore, CutoffAdvancer, SegmentCatalog,
// ArchiveTransactor, and SchemaInitializer against github.com/lib/pq.
package postgres

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/cacack/go-eventstore/internal/domain"
	"github.com/cacack/go-eventstore/internal/store"
)

// OpenDB opens a PostgreSQL database connection and verifies it with a
// ping before handing it back.
func OpenDB(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// Store bundles the PostgreSQL implementations of every store interface
// over one *sql.DB and one logical store name (used as a table prefix).
type Store struct {
	db        *sql.DB
	storeName string
	policy    *domain.RetentionPolicyProvider
}

// NewStore validates storeName and returns a Store. Call EnsureSchema
// before using it. policy may be nil, in which case Append falls back to
// domain.Default whenever a caller does not pass an explicit retention mode.
func NewStore(db *sql.DB, storeName string, policy *domain.RetentionPolicyProvider) (*Store, error) {
	if err := domain.ValidateStoreName(storeName); err != nil {
		return nil, err
	}
	return &Store{db: db, storeName: storeName, policy: policy}, nil
}

func (s *Store) table(name string) string {
	return s.storeName + "_" + name
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

var (
	_ store.EventStore        = (*Store)(nil)
	_ store.SnapshotStore     = (*Store)(nil)
	_ store.CutoffAdvancer    = (*Store)(nil)
	_ store.SegmentCatalog    = (*Store)(nil)
	_ store.ArchiveTransactor = (*Store)(nil)
	_ store.SchemaInitializer = (*Store)(nil)
)
