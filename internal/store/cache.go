// Package store provides a SQLite-backed cache of parsed transcripts.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/tokenscan/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache memoizes per-file parse results keyed by path plus file identity
// (mtime and size). It never stores rendered reports.
type Cache struct {
	db *sql.DB
}

// Entry is one cached transcript parse.
type Entry struct {
	Path      string
	MtimeNs   int64
	SizeBytes int64
	Usage     model.UsageRecord
	Info      model.AgentInfo
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Lookup returns the cached entry for path when both mtime and size still
// match. A stale or absent row reports ok=false.
func (c *Cache) Lookup(path string, mtimeNs, sizeBytes int64) (Entry, bool, error) {
	e := Entry{Path: path}
	err := c.db.QueryRow(`SELECT
		mtime_ns, size_bytes, input_tokens, output_tokens, cache_creation,
		cache_read, session_id, agent_id, slug, git_branch, task
		FROM transcripts WHERE file_path = ?`, path).Scan(
		&e.MtimeNs, &e.SizeBytes,
		&e.Usage.Input, &e.Usage.Output, &e.Usage.CacheCreation, &e.Usage.CacheRead,
		&e.Info.SessionID, &e.Info.AgentID, &e.Info.Slug, &e.Info.Branch, &e.Info.Task,
	)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	if e.MtimeNs != mtimeNs || e.SizeBytes != sizeBytes {
		return Entry{}, false, nil
	}
	return e, true, nil
}

// Save upserts a parse result for one transcript file.
func (c *Cache) Save(e Entry) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := c.db.Exec(`INSERT OR REPLACE INTO transcripts
		(file_path, mtime_ns, size_bytes, input_tokens, output_tokens,
		 cache_creation, cache_read, session_id, agent_id, slug, git_branch,
		 task, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Path, e.MtimeNs, e.SizeBytes,
		e.Usage.Input, e.Usage.Output, e.Usage.CacheCreation, e.Usage.CacheRead,
		e.Info.SessionID, e.Info.AgentID, e.Info.Slug, e.Info.Branch, e.Info.Task,
		now,
	)
	return err
}

// Count returns the number of cached transcripts.
func (c *Cache) Count() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM transcripts").Scan(&count)
	return count, err
}

// Clear removes every cached entry.
func (c *Cache) Clear() error {
	_, err := c.db.Exec("DELETE FROM transcripts")
	return err
}
