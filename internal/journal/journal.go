// Package journal reads journal entries from the store that owns them and
// turns them into analytics series. The analytics service never writes;
// InsertEntry exists for seeding and tests.
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/soulscroll/luma/internal/config"
)

// ErrUnavailable marks failures to reach or query the backing store
var ErrUnavailable = errors.New("journal store unavailable")

// ErrCustomTableMigrate is returned when migrations are requested for a table
// other than DefaultTable
var ErrCustomTableMigrate = errors.New("embedded migrations do not support custom tables")

var errStoreClosed = errors.New("store is closed")

// Backend identifies a store implementation
type Backend string

const (
	BackendSQLite     Backend = "sqlite"
	BackendMySQL      Backend = "mysql"
	BackendPostgreSQL Backend = "postgresql"
	BackendMemory     Backend = "memory"
)

// DefaultTable is the table created by the embedded migrations
const DefaultTable = config.DefaultStoreTable

// Entry is one journal row
type Entry struct {
	ID           int64
	UserID       string
	Content      string
	EmotionScore *float64 // nil when the entry was never scored
	WordCount    int
	CreatedAt    time.Time
	DeletedAt    *time.Time
}

// Store is the read contract the analytics engine depends on
type Store interface {
	// ListEntries returns a user's live entries created at or after since,
	// oldest first with ties in insertion order.
	ListEntries(ctx context.Context, userID string, since time.Time) ([]Entry, error)

	// InsertEntry stores e and returns its assigned id
	InsertEntry(ctx context.Context, e Entry) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}

// Options configures Open
type Options struct {
	Backend      Backend
	DSN          string
	Table        string
	Migrate      bool
	MaxOpenConns int
	QueryTimeout time.Duration
}

// OptionsFromConfig maps the store section of the service configuration
func OptionsFromConfig(cfg config.StoreConfig) Options {
	return Options{
		Backend:      Backend(cfg.Backend),
		DSN:          cfg.DSN,
		Table:        cfg.Table,
		Migrate:      cfg.Migrate,
		MaxOpenConns: cfg.MaxOpenConns,
		QueryTimeout: cfg.QueryTimeout,
	}
}

// Open returns the store selected by opts.Backend
func Open(ctx context.Context, opts Options) (Store, error) {
	if opts.Backend == BackendMemory {
		return NewMemoryStore(), nil
	}

	store, err := OpenSQL(ctx, opts)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
