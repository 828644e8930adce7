package cache

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mithrel/quill/pkg/api"
)

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Get(ctx context.Context, key string) (string, error) {
	var html string
	row := s.db.QueryRowContext(ctx, `UPDATE renders SET hits = hits + 1 WHERE hash=? RETURNING html`, key)
	if err := row.Scan(&html); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return html, nil
}

func (s *sqliteStore) Put(ctx context.Context, key, html string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO renders(hash, html, created_at, hits) VALUES(?,?,?,0)
ON CONFLICT(hash) DO UPDATE SET html=excluded.html`, key, html, time.Now().UTC().UnixNano())
	return err
}

func (s *sqliteStore) Stats(ctx context.Context) (api.CacheStats, error) {
	var st api.CacheStats
	var oldest sql.NullInt64
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(hits),0), COALESCE(SUM(LENGTH(CAST(html AS BLOB))),0), MIN(created_at) FROM renders`)
	if err := row.Scan(&st.Entries, &st.Hits, &st.Bytes, &oldest); err != nil {
		return api.CacheStats{}, err
	}
	if oldest.Valid {
		st.Oldest = time.Unix(0, oldest.Int64).UTC()
	}
	return st, nil
}

func (s *sqliteStore) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM renders`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// openSQLite connects to a SQLite database using modernc.org/sqlite driver and ensures schema exists.
func openSQLite(ctx context.Context, dsn string) (Store, io.Closer, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, err
	}
	// Every Get bumps a hit counter, so reads are writes too. The driver
	// applies _pragma on each new connection; one open connection keeps
	// in-process writers from racing, and busy_timeout covers other processes
	// sharing the file.
	dbh, err := sql.Open("sqlite", path+"?"+sqlitePragmas)
	if err != nil {
		return nil, nil, err
	}
	dbh.SetMaxOpenConns(1)
	if err := dbh.PingContext(ctx); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	return &sqliteStore{db: dbh}, dbh, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS renders (
  hash TEXT PRIMARY KEY,
  html TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  hits INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_renders_created ON renders(created_at);
`)
	return err
}
