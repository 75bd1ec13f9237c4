// Package sqlite is the SQLite dialect adapter for store: it implements
// EventStore, SnapshotStore, CutoffAdvancer, SegmentCatalog,
// ArchiveTransactor, and SchemaInitializer against github.com/mattn/go-sqlite3.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/cacack/go-eventstore/internal/domain"
	"github.com/cacack/go-eventstore/internal/store"
)

// OpenDB opens a SQLite database connection with recommended settings.
// _txlock=immediate makes every transaction acquire its write lock at
// BEGIN rather than on first write, which is what lets Append emulate
// Postgres's SELECT ... FOR UPDATE: combined with a single-connection
// pool, one in-flight Append blocks every other writer for its whole
// transaction instead of failing late with SQLITE_BUSY.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_foreign_keys=on&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Store bundles the SQLite implementations of every store interface over
// one *sql.DB and one logical store name (used as a table prefix).
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

func nowUTC() time.Time {
	return time.Now().UTC()
}

func nullableBytes(b []byte) any {
	if b == nil {
		return nil
	}
	return b
}

var (
	_ store.EventStore        = (*Store)(nil)
	_ store.SnapshotStore     = (*Store)(nil)
	_ store.CutoffAdvancer    = (*Store)(nil)
	_ store.SegmentCatalog    = (*Store)(nil)
	_ store.ArchiveTransactor = (*Store)(nil)
	_ store.SchemaInitializer = (*Store)(nil)
)
