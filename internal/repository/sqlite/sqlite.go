// Package sqlite implements the repository interfaces on SQLite.
//
// SQLite is embedded — one file, no server to run — and modernc.org/sqlite
// is a pure-Go driver, so the binary cross-compiles without a C toolchain.
// Use ":memory:" as the path for throwaway test databases.
//
// The profiles table is deliberately document-shaped: scalar columns for the
// fields we key or filter on, JSON TEXT columns for the embedded ordered
// lists (skills, social, experience, education). A profile is always read
// and written as a whole, which is exactly how the service layer treats it.
package sqlite

import (
	"database/sql"
	"fmt"

	// Blank import registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements every repository
// interface in the repository package.
type DB struct {
	conn *sql.DB
}

// New opens the database, verifies the connection, applies pragmas, and
// runs migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// sql.Open doesn't actually connect; Ping surfaces a bad path or
	// permissions problem now instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight — required for a
	// web server where requests interleave arbitrarily.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite; profiles and posts
	// reference users, so turn enforcement on.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Defer this wherever New is called.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			avatar_url    TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// user_id is the primary key: the schema itself guarantees at most one
	// profile per user, and gives ON CONFLICT(user_id) something to key on.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS profiles (
			user_id         TEXT PRIMARY KEY REFERENCES users(id),
			company         TEXT NOT NULL DEFAULT '',
			website         TEXT NOT NULL DEFAULT '',
			location        TEXT NOT NULL DEFAULT '',
			bio             TEXT NOT NULL DEFAULT '',
			status          TEXT NOT NULL,
			github_username TEXT NOT NULL DEFAULT '',
			skills          TEXT NOT NULL DEFAULT '[]',
			social          TEXT NOT NULL DEFAULT '{}',
			experience      TEXT NOT NULL DEFAULT '[]',
			education       TEXT NOT NULL DEFAULT '[]',
			created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating profiles table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS posts (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id),
			text       TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating posts table: %w", err)
	}

	return nil
}
