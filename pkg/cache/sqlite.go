package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const createResponsesTable = `
CREATE TABLE IF NOT EXISTS responses (
	url        TEXT PRIMARY KEY,
	body       BLOB NOT NULL,
	fetched_at TEXT NOT NULL
);`

// SQLiteCache is a persistent URL cache backed by a SQLite database,
// allowing fetched archive metadata to be reused across processes.
// Read and write failures degrade to cache misses; the archive is the
// source of truth.
type SQLiteCache struct {
	conn *sql.DB
}

// NewSQLiteCache opens (or creates) a cache database at the given path.
func NewSQLiteCache(dbPath string) (*SQLiteCache, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if _, err := conn.Exec(createResponsesTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return &SQLiteCache{conn: conn}, nil
}

// Close closes the underlying database.
func (c *SQLiteCache) Close() error {
	return c.conn.Close()
}

// Get returns the cached body for url, if present.
func (c *SQLiteCache) Get(url string) ([]byte, bool) {
	var body []byte
	err := c.conn.QueryRow(`SELECT body FROM responses WHERE url = ?`, url).Scan(&body)
	if err != nil {
		return nil, false
	}
	return body, true
}

// Set stores the body for url.
func (c *SQLiteCache) Set(url string, body []byte) {
	_, _ = c.conn.Exec(
		`INSERT OR REPLACE INTO responses (url, body, fetched_at) VALUES (?, ?, ?)`,
		url, body, time.Now().UTC().Format(time.RFC3339),
	)
}

// Invalidate removes a single entry.
func (c *SQLiteCache) Invalidate(url string) {
	_, _ = c.conn.Exec(`DELETE FROM responses WHERE url = ?`, url)
}

// Clear removes all entries.
func (c *SQLiteCache) Clear() {
	_, _ = c.conn.Exec(`DELETE FROM responses`)
}
