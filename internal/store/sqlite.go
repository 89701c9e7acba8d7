package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type sqliteCache struct {
	db  *sql.DB
	max int
}

// openSQLite connects using the modernc.org/sqlite driver and ensures the
// schema exists.
func openSQLite(ctx context.Context, dsn string, max int) (*sqliteCache, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	return &sqliteCache{db: dbh, max: max}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS renders (
  key TEXT PRIMARY KEY,
  html TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL,
  accessed_at TIMESTAMP NOT NULL,
  hits INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_renders_accessed ON renders(accessed_at DESC);
`)
	return err
}

func (s *sqliteCache) Get(ctx context.Context, key string) (Render, error) {
	var r Render
	row := s.db.QueryRowContext(ctx, `SELECT key, html, created_at, hits FROM renders WHERE key = ?`, key)
	if err := row.Scan(&r.Key, &r.HTML, &r.CreatedAt, &r.Hits); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Render{}, ErrNotFound
		}
		return Render{}, err
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE renders SET hits = hits + 1, accessed_at = ? WHERE key = ?`, time.Now().UTC(), key); err != nil {
		return Render{}, err
	}
	r.Hits++
	return r, nil
}

// Put inserts or replaces r and prunes the least recently used rows beyond
// the limit. It joins a transaction carried by ctx when there is one.
func (s *sqliteCache) Put(ctx context.Context, r Render) error {
	return inTx(ctx, s.db, func(tx *sql.Tx) error { return s.putTx(ctx, tx, r) })
}

func (s *sqliteCache) putTx(ctx context.Context, tx *sql.Tx, r Render) error {
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO renders(key, html, created_at, accessed_at, hits) VALUES(?,?,?,?,0)
ON CONFLICT(key) DO UPDATE SET html = excluded.html, accessed_at = excluded.accessed_at`,
		r.Key, r.HTML, r.CreatedAt.UTC(), now); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `
DELETE FROM renders WHERE key NOT IN (
  SELECT key FROM renders ORDER BY accessed_at DESC LIMIT ?
)`, s.max)
	return err
}

func (s *sqliteCache) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(hits), 0) FROM renders`)
	if err := row.Scan(&st.Entries, &st.Hits); err != nil {
		return Stats{}, err
	}
	return st, nil
}

func (s *sqliteCache) Close() error { return s.db.Close() }
