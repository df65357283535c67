package database

import (
	"database/sql"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	sep := "?"
	if strings.Contains(dataSourceName, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite", dataSourceName+sep+"_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT,
		age INTEGER,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'student',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS courses (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS assignments (
		id TEXT NOT NULL PRIMARY KEY,
		course_id TEXT NOT NULL REFERENCES courses(id),
		title TEXT NOT NULL,
		due_date TEXT NOT NULL, -- date granularity, "YYYY-MM-DD"
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS enrollments (
		student_id TEXT NOT NULL REFERENCES users(id),
		course_id TEXT NOT NULL REFERENCES courses(id),
		PRIMARY KEY (student_id, course_id)
	);

	CREATE TABLE IF NOT EXISTS uploads (
		id TEXT NOT NULL PRIMARY KEY,
		original_name TEXT NOT NULL,
		stored_name TEXT NOT NULL,
		size INTEGER NOT NULL,
		content_type TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL,
		username TEXT NOT NULL,
		full_name TEXT NOT NULL,
		email TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS reminder_runs (
		run_date TEXT NOT NULL PRIMARY KEY, -- "YYYY-MM-DD", in the configured timezone
		dispatched INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_assignments_due_date ON assignments(due_date);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
