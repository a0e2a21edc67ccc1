package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tb-go/internal/snapshot/migrations"
	"tb-go/internal/tb"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// sqliteBlobs stores records in the snapshots table.
type sqliteBlobs struct {
	db    *sql.DB
	clock tb.Clock
}

// NewSQLiteStore opens (creating if needed) a SQLite database at path and
// migrates it to the latest schema. path may be ":memory:".
func NewSQLiteStore(path string, sealer tb.Sealer, clock tb.Clock) (*Store, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating snapshot database: %w", err)
	}
	if err := migrations.CheckStatus(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("snapshot database schema out of date: %w", err)
	}

	return newStore(&sqliteBlobs{db: db, clock: clock}, sealer), nil
}

// OpenConnection opens and configures a SQLite connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: each ":memory:" connection would otherwise be its own database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

func (s *sqliteBlobs) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM snapshots WHERE namespace = ?", key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("querying snapshot: %w", err)
	}
	return []byte(data), true, nil
}

func (s *sqliteBlobs) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (namespace, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(namespace) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, string(data), s.clock.Now().UTC())
	if err != nil {
		return fmt.Errorf("upserting snapshot: %w", err)
	}
	return nil
}

func (s *sqliteBlobs) Close() error {
	return s.db.Close()
}
