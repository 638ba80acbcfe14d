package directory

import (
	"context"
	"database/sql"
	"fmt"
)

// cacheSchema holds the two cache tables. Position columns preserve
// listing order across restarts; names stay primary keys so a re-save
// can never produce duplicates.
const cacheSchema = `
CREATE TABLE IF NOT EXISTS devices (
	name     TEXT PRIMARY KEY,
	zone_id  TEXT NOT NULL,
	id       TEXT NOT NULL,
	type     TEXT NOT NULL DEFAULT '',
	position INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS scenes (
	name     TEXT PRIMARY KEY,
	zone_id  TEXT NOT NULL,
	id       TEXT NOT NULL,
	position INTEGER NOT NULL
);`

// DB is the slice of database access the store needs. A bare *sql.DB
// satisfies it, as does the managed cache handle the client opens.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Store persists the directory to SQLite so a restarted client comes up
// with a warm name directory before (or instead of) a discovery run.
type Store struct {
	db DB
}

// NewStore wraps an open database handle. Call Init before first use.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// Init creates the cache tables if they do not exist. Safe to call on
// every start.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, cacheSchema); err != nil {
		return fmt.Errorf("directory: creating cache schema: %w", err)
	}
	return nil
}

// Save replaces the cached directory with the given snapshot, keeping
// its order. The write is transactional: a failed save leaves the
// previous cache intact.
func (s *Store) Save(ctx context.Context, devices []NamedDevice, scenes []NamedScene) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("directory: beginning cache save: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op once committed

	if _, err := tx.ExecContext(ctx, `DELETE FROM devices`); err != nil {
		return fmt.Errorf("directory: clearing device cache: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM scenes`); err != nil {
		return fmt.Errorf("directory: clearing scene cache: %w", err)
	}

	for i, d := range devices {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO devices (name, zone_id, id, type, position) VALUES (?, ?, ?, ?, ?)`,
			d.Name, d.Entry.ZoneID, d.Entry.ID, d.Entry.Type, i,
		); err != nil {
			return fmt.Errorf("directory: caching device %q: %w", d.Name, err)
		}
	}

	for i, sc := range scenes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO scenes (name, zone_id, id, position) VALUES (?, ?, ?, ?)`,
			sc.Name, sc.Entry.ZoneID, sc.Entry.ID, i,
		); err != nil {
			return fmt.Errorf("directory: caching scene %q: %w", sc.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("directory: committing cache save: %w", err)
	}
	return nil
}

// Load returns the cached directory in saved order. An empty cache
// yields empty slices and no error.
func (s *Store) Load(ctx context.Context) ([]NamedDevice, []NamedScene, error) {
	devices, err := s.loadDevices(ctx)
	if err != nil {
		return nil, nil, err
	}
	scenes, err := s.loadScenes(ctx)
	if err != nil {
		return nil, nil, err
	}
	return devices, scenes, nil
}

func (s *Store) loadDevices(ctx context.Context) ([]NamedDevice, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, zone_id, id, type FROM devices ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("directory: reading device cache: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var devices []NamedDevice
	for rows.Next() {
		var d NamedDevice
		if err := rows.Scan(&d.Name, &d.Entry.ZoneID, &d.Entry.ID, &d.Entry.Type); err != nil {
			return nil, fmt.Errorf("directory: scanning cached device: %w", err)
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("directory: iterating device cache: %w", err)
	}
	return devices, nil
}

func (s *Store) loadScenes(ctx context.Context) ([]NamedScene, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, zone_id, id FROM scenes ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("directory: reading scene cache: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var scenes []NamedScene
	for rows.Next() {
		var sc NamedScene
		if err := rows.Scan(&sc.Name, &sc.Entry.ZoneID, &sc.Entry.ID); err != nil {
			return nil, fmt.Errorf("directory: scanning cached scene: %w", err)
		}
		scenes = append(scenes, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("directory: iterating scene cache: %w", err)
	}
	return scenes, nil
}
