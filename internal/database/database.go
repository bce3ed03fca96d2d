package database

import (
	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer at a time; a single pooled connection also
	// keeps in-memory databases usable in tests.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema. It is
// idempotent. The UNIQUE constraints on users are load-bearing: registration
// relies on them for atomic duplicate detection.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		full_name TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT NOT NULL PRIMARY KEY,
		type TEXT NOT NULL,
		level TEXT NOT NULL,
		message TEXT NOT NULL,
		subject_id TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS schedules (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		cron_expression TEXT NOT NULL,
		input_path TEXT NOT NULL,
		output_dir TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		last_run_at DATETIME,
		next_run_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
