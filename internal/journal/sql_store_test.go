package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()

	store, err := OpenSQL(context.Background(), Options{
		Backend:      BackendSQLite,
		DSN:          filepath.Join(t.TempDir(), "journal.db"),
		Migrate:      true,
		QueryTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_Contract(t *testing.T) {
	runStoreContract(t, newSQLiteStore(t))
}

func TestSQLiteStore_SubSecondOrdering(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 10, 18, 30, 0, 0, time.UTC)

	// "…:00Z" would sort after "…:00.5Z" with variable-width layouts
	_, err := store.InsertEntry(ctx, Entry{UserID: "alice", Content: "later", CreatedAt: base.Add(500 * time.Millisecond)})
	require.NoError(t, err)
	_, err = store.InsertEntry(ctx, Entry{UserID: "alice", Content: "earlier", CreatedAt: base})
	require.NoError(t, err)

	entries, err := store.ListEntries(ctx, "alice", base)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "earlier", entries[0].Content)
	assert.Equal(t, "later", entries[1].Content)
	assert.True(t, entries[1].CreatedAt.Equal(base.Add(500*time.Millisecond)))
}

func TestSQLiteStore_NonUTCInput(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	tokyo := time.FixedZone("JST", 9*3600)
	created := time.Date(2026, 5, 11, 3, 0, 0, 0, tokyo) // 2026-05-10 18:00 UTC

	_, err := store.InsertEntry(ctx, Entry{UserID: "alice", CreatedAt: created})
	require.NoError(t, err)

	entries, err := store.ListEntries(ctx, "alice", time.Date(2026, 5, 10, 17, 59, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].CreatedAt.Equal(created))
	assert.Equal(t, time.UTC, entries[0].CreatedAt.Location())
}

func TestSQLiteStore_MigrationsAreIdempotent(t *testing.T) {
	store := newSQLiteStore(t)

	version, dirty, err := MigrationVersion(store.DB(), BackendSQLite)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(2), version)

	require.NoError(t, Migrate(store.DB(), BackendSQLite, -1))

	require.NoError(t, Migrate(store.DB(), BackendSQLite, 0))
	version, _, err = MigrationVersion(store.DB(), BackendSQLite)
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)

	_, err = store.ListEntries(context.Background(), "alice", time.Time{})
	assert.ErrorIs(t, err, ErrUnavailable, "table is gone after rolling back")
}

func TestSQLiteStore_ClosedDatabase(t *testing.T) {
	store := newSQLiteStore(t)
	require.NoError(t, store.Close())

	_, err := store.ListEntries(context.Background(), "alice", time.Time{})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, store.Ping(context.Background()), ErrUnavailable)
}

func TestOpenSQL_RejectsBadTable(t *testing.T) {
	_, err := OpenSQL(context.Background(), Options{
		Backend: BackendSQLite,
		DSN:     filepath.Join(t.TempDir(), "journal.db"),
		Table:   "entries;drop",
	})
	assert.Error(t, err)
}

func TestOpenSQL_CustomTable(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "journal.db")

	_, err := OpenSQL(ctx, Options{Backend: BackendSQLite, DSN: dsn, Table: "entries", Migrate: true})
	assert.ErrorIs(t, err, ErrCustomTableMigrate)

	// a pre-provisioned table with the journal columns works without migrations
	store, err := OpenSQL(ctx, Options{Backend: BackendSQLite, DSN: dsn, Table: "entries", QueryTimeout: 5 * time.Second})
	require.NoError(t, err)
	defer store.Close()

	_, err = store.DB().ExecContext(ctx, `CREATE TABLE entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		emotion_score REAL,
		word_count INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		deleted_at TEXT
	)`)
	require.NoError(t, err)

	created := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	_, err = store.InsertEntry(ctx, Entry{UserID: "alice", Content: "custom", CreatedAt: created})
	require.NoError(t, err)

	entries, err := store.ListEntries(ctx, "alice", created.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "custom", entries[0].Content)
}

func TestOpenSQL_InvalidMySQLDSN(t *testing.T) {
	_, err := OpenSQL(context.Background(), Options{Backend: BackendMySQL, DSN: "not a dsn"})
	assert.ErrorContains(t, err, "invalid MySQL DSN")
}

func TestPlaceholders(t *testing.T) {
	pg := &SQLStore{backend: BackendPostgreSQL, table: DefaultTable}
	lite := &SQLStore{backend: BackendSQLite, table: DefaultTable}
	my := &SQLStore{backend: BackendMySQL, table: DefaultTable}

	assert.Equal(t, "$3", pg.placeholder(3))
	assert.Equal(t, "?", lite.placeholder(3))
	assert.Equal(t, "`journal_entries`", my.quotedTable())
	assert.Equal(t, `"journal_entries"`, pg.quotedTable())
}

func TestOpenSQL_CreatesSQLiteDir(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "data", "journal.db")

	store, err := OpenSQL(context.Background(), Options{
		Backend:      BackendSQLite,
		DSN:          dsn,
		Migrate:      true,
		QueryTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	defer store.Close()

	assert.DirExists(t, filepath.Dir(dsn))
	assert.NoError(t, store.Ping(context.Background()))
}
