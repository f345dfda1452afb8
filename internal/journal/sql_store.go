package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// sqliteTimeLayout is fixed width so lexical order matches chronological order
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLStore implements Store on database/sql
type SQLStore struct {
	db           *sql.DB
	backend      Backend
	table        string
	queryTimeout time.Duration
}

var _ Store = (*SQLStore)(nil)

// OpenSQL opens a SQL-backed store, verifies the connection and, when
// opts.Migrate is set, applies the embedded migrations.
func OpenSQL(ctx context.Context, opts Options) (*SQLStore, error) {
	table := opts.Table
	if table == "" {
		table = DefaultTable
	}
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if opts.Migrate && table != DefaultTable {
		return nil, fmt.Errorf("%w: migrations only create %s, not %s", ErrCustomTableMigrate, DefaultTable, table)
	}

	db, err := openDB(opts.Backend, opts.DSN)
	if err != nil {
		return nil, err
	}

	if opts.Backend == BackendSQLite {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	} else if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}

	store := &SQLStore{
		db:           db,
		backend:      opts.Backend,
		table:        table,
		queryTimeout: opts.QueryTimeout,
	}

	if err := store.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", opts.Backend, err)
	}

	if opts.Migrate {
		if err := Migrate(db, opts.Backend, -1); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return store, nil
}

// openDB maps a backend to its database/sql driver
func openDB(backend Backend, dsn string) (*sql.DB, error) {
	var driverName string

	switch backend {
	case BackendSQLite:
		driverName = "sqlite"
		if err := ensureSQLiteDir(dsn); err != nil {
			return nil, err
		}

	case BackendMySQL:
		driverName = "mysql"
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid MySQL DSN: %w. Expected format: user:password@tcp(host:port)/dbname", err)
		}
		// Scan DATETIME columns as time.Time in UTC
		cfg.ParseTime = true
		cfg.Loc = time.UTC
		dsn = cfg.FormatDSN()

	case BackendPostgreSQL:
		driverName = "pgx"

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	return db, nil
}

// ensureSQLiteDir creates the parent directory of a plain file DSN
func ensureSQLiteDir(dsn string) error {
	if dsn == "" || dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create sqlite directory %s: %w", dir, err)
	}
	return nil
}

// DB exposes the underlying handle for migrations and tooling
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Backend returns the store's backend
func (s *SQLStore) Backend() Backend {
	return s.backend
}

func (s *SQLStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

// placeholder returns the n-th (1-based) bind parameter for the backend
func (s *SQLStore) placeholder(n int) string {
	if s.backend == BackendPostgreSQL {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (s *SQLStore) quotedTable() string {
	if s.backend == BackendMySQL {
		return "`" + s.table + "`"
	}
	return `"` + s.table + `"`
}

// timeArg converts t to the representation the backend stores
func (s *SQLStore) timeArg(t time.Time) interface{} {
	if s.backend == BackendSQLite {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t.UTC()
}

// ListEntries implements Store
func (s *SQLStore) ListEntries(ctx context.Context, userID string, since time.Time) ([]Entry, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT id, user_id, content, emotion_score, word_count, created_at
		FROM %s
		WHERE user_id = %s AND created_at >= %s AND deleted_at IS NULL
		ORDER BY created_at ASC, id ASC`,
		s.quotedTable(), s.placeholder(1), s.placeholder(2))

	rows, err := s.db.QueryContext(ctx, query, userID, s.timeArg(since))
	if err != nil {
		return nil, unavailable("list entries", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []Entry{}
	for rows.Next() {
		var (
			e     Entry
			score sql.NullFloat64
		)

		if s.backend == BackendSQLite {
			var created string
			if err := rows.Scan(&e.ID, &e.UserID, &e.Content, &score, &e.WordCount, &created); err != nil {
				return nil, unavailable("scan entry", err)
			}
			e.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
			if err != nil {
				return nil, fmt.Errorf("entry %d has malformed created_at %q: %w", e.ID, created, err)
			}
		} else {
			if err := rows.Scan(&e.ID, &e.UserID, &e.Content, &score, &e.WordCount, &e.CreatedAt); err != nil {
				return nil, unavailable("scan entry", err)
			}
			e.CreatedAt = e.CreatedAt.UTC()
		}

		if score.Valid {
			v := score.Float64
			e.EmotionScore = &v
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate entries", err)
	}

	return entries, nil
}

// InsertEntry implements Store
func (s *SQLStore) InsertEntry(ctx context.Context, e Entry) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var score sql.NullFloat64
	if e.EmotionScore != nil {
		score = sql.NullFloat64{Float64: *e.EmotionScore, Valid: true}
	}

	var deleted interface{}
	if e.DeletedAt != nil {
		deleted = s.timeArg(*e.DeletedAt)
	}

	values := ""
	for i := 1; i <= 6; i++ {
		if i > 1 {
			values += ", "
		}
		values += s.placeholder(i)
	}
	query := fmt.Sprintf(`INSERT INTO %s (user_id, content, emotion_score, word_count, created_at, deleted_at) VALUES (%s)`,
		s.quotedTable(), values)
	args := []interface{}{e.UserID, e.Content, score, e.WordCount, s.timeArg(e.CreatedAt), deleted}

	if s.backend == BackendPostgreSQL {
		var id int64
		if err := s.db.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, unavailable("insert entry", err)
		}
		return id, nil
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, unavailable("insert entry", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, unavailable("insert entry", err)
	}
	return id, nil
}

// Ping implements Store
func (s *SQLStore) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Close implements Store
func (s *SQLStore) Close() error {
	return s.db.Close()
}
