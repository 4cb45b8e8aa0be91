package storage

import (
	"fmt"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS reservations (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	phone           TEXT NOT NULL,
	email           TEXT NOT NULL DEFAULT '',
	date            TEXT NOT NULL,
	time            TEXT NOT NULL,
	party_size      INTEGER NOT NULL DEFAULT 0,
	status          TEXT NOT NULL,
	operator_msg_id TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMP NOT NULL,
	resolved_at     TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_reservations_slot ON reservations (date, time);

CREATE TABLE IF NOT EXISTS orders (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	phone           TEXT NOT NULL,
	email           TEXT NOT NULL DEFAULT '',
	items           TEXT NOT NULL,
	total           TEXT NOT NULL,
	pickup_time     TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL,
	operator_msg_id TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMP NOT NULL,
	resolved_at     TIMESTAMP
);
`

// OpenDB opens (and if needed creates) the sqlite database at path and
// ensures the schema exists. Busy timeout is set so concurrent writers
// queue instead of failing immediately.
func OpenDB(path string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", filepath.ToSlash(path))
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite allows a single writer; keeping one connection avoids
	// SQLITE_BUSY churn between the admission and decision paths.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return db, nil
}
