package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// busyTimeoutMillis bounds how long a writer waits on a lock held by another
// CLI process before SQLite reports SQLITE_BUSY.
const busyTimeoutMillis = 5000

// dsn applies the connection pragmas to every pooled connection of a file
// database. An in-memory database has a single connection, configured below.
func dsn(path string) string {
	if path == MemoryPath {
		return path
	}
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeoutMillis))
	q.Add("_pragma", "journal_mode(WAL)")
	return "file:" + path + "?" + q.Encode()
}

// OpenDB opens the ledger database at path, creating the parent directory
// when needed. WAL, foreign keys and a busy timeout are configured before
// migrations run.
func OpenDB(path string) (*sql.DB, error) {
	if path != MemoryPath {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == MemoryPath {
		// Each pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []struct {
		stmt string
		what string
	}{
		{"PRAGMA journal_mode = WAL", "setting WAL mode"},
		{"PRAGMA foreign_keys = ON", "enabling foreign keys"},
		{fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeoutMillis), "setting busy timeout"},
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p.stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p.what, err)
		}
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}
