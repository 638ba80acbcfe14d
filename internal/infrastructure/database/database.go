package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	// dirPerm and filePerm keep the cache private to the owning user.
	dirPerm  = 0750
	filePerm = 0600

	// pingTimeout bounds the connectivity check in Open.
	pingTimeout = 5 * time.Second

	// msPerSecond converts Config.BusyTimeout to the driver's unit.
	msPerSecond = 1000
)

// Config describes one cache file. It maps to the cache section of
// config.yaml.
type Config struct {
	// Path of the SQLite file. Missing parent directories are created
	// on open.
	Path string

	// WALMode switches the journal to WAL so a load can overlap a save.
	WALMode bool

	// BusyTimeout is how many seconds a statement waits on a locked
	// cache before giving up.
	BusyTimeout int
}

// DB is an open handle on the name cache. It embeds *sql.DB and
// prefixes statement and transaction failures with cache context, so
// errors reaching the client log read unambiguously next to gateway
// errors.
type DB struct {
	*sql.DB
	path string
}

// dsn renders the driver connection string for cfg.
func dsn(cfg Config) string {
	s := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on",
		cfg.Path, cfg.BusyTimeout*msPerSecond)
	if cfg.WALMode {
		s += "&_journal_mode=WAL&_synchronous=NORMAL"
	}
	return s
}

// Open connects the cache file, creating it and its directory on first
// use, and verifies the connection with a bounded ping.
//
// The pool is pinned to a single connection: SQLite allows one writer,
// and the cache sees at most one save or load at a time anyway.
func Open(cfg Config) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), dirPerm); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	handle, err := sql.Open("sqlite3", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening name cache: %w", err)
	}
	handle.SetMaxOpenConns(1)
	handle.SetMaxIdleConns(1)
	handle.SetConnMaxLifetime(time.Hour)

	db := &DB{DB: handle, path: cfg.Path}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		handle.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("verifying name cache: %w", err)
	}

	_ = os.Chmod(cfg.Path, filePerm) //nolint:errcheck // File appears on first write

	return db, nil
}

// Close releases the cache handle. Safe on a handle that never opened.
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("closing name cache: %w", err)
	}
	return nil
}

// Path reports the cache file location.
func (db *DB) Path() string {
	return db.path
}

// HealthCheck runs a test query against the cache, honoring the
// caller's deadline.
func (db *DB) HealthCheck(ctx context.Context) error {
	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("name cache unhealthy: %w", err)
	}
	return nil
}

// ExecContext runs a statement against the cache, adding cache context
// to failures.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	result, err := db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("cache statement: %w", err)
	}
	return result, nil
}

// BeginTx opens a cache transaction.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	tx, err := db.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("opening cache transaction: %w", err)
	}
	return tx, nil
}
