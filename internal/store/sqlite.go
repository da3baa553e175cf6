package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS response_cache (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	query      TEXT NOT NULL,
	payload    BLOB NOT NULL,
	fetched_at DATETIME NOT NULL DEFAULT (datetime('now')),
	expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS searches (
	id            TEXT PRIMARY KEY,
	query         TEXT NOT NULL,
	sources       TEXT NOT NULL,
	total_results INTEGER NOT NULL DEFAULT 0,
	duration_ms   INTEGER NOT NULL DEFAULT 0,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_response_cache_source_query ON response_cache(source, query);
CREATE INDEX IF NOT EXISTS idx_response_cache_expires_at ON response_cache(expires_at);
CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetCachedResponse returns the live cache entry for (source, query), or
// nil when there is none or it has expired.
func (s *SQLiteStore) GetCachedResponse(ctx context.Context, source, query string) (*CachedResponse, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, query, payload, fetched_at, expires_at FROM response_cache
		 WHERE source = ? AND query = ? AND expires_at > datetime('now')`,
		source, query,
	)

	var cr CachedResponse
	err := row.Scan(&cr.ID, &cr.Source, &cr.Query, &cr.Payload, &cr.FetchedAt, &cr.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get cached response")
	}
	return &cr, nil
}

// PutCachedResponse stores a source response, replacing any previous
// entry for the same (source, query).
func (s *SQLiteStore) PutCachedResponse(ctx context.Context, source, query string, payload []byte, ttl time.Duration) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO response_cache (id, source, query, payload, fetched_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(source, query) DO UPDATE SET
		   payload = excluded.payload,
		   fetched_at = excluded.fetched_at,
		   expires_at = excluded.expires_at`,
		uuid.New().String(), source, query, payload, now, now.Add(ttl),
	)
	return eris.Wrap(err, "sqlite: put cached response")
}

// PruneExpired deletes expired cache entries and reports how many went.
func (s *SQLiteStore) PruneExpired(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM response_cache WHERE expires_at <= datetime('now')`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prune expired")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}

func (s *SQLiteStore) RecordSearch(ctx context.Context, query, sources string, totalResults int, duration time.Duration) (*SearchRecord, error) {
	rec := &SearchRecord{
		ID:           uuid.New().String(),
		Query:        query,
		Sources:      sources,
		TotalResults: totalResults,
		DurationMS:   duration.Milliseconds(),
		CreatedAt:    time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO searches (id, query, sources, total_results, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Query, rec.Sources, rec.TotalResults, rec.DurationMS, rec.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: record search")
	}
	return rec, nil
}

func (s *SQLiteStore) ListSearches(ctx context.Context, limit int) ([]SearchRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, sources, total_results, duration_ms, created_at FROM searches
		 ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list searches")
	}
	defer rows.Close()

	var records []SearchRecord
	for rows.Next() {
		var r SearchRecord
		if err := rows.Scan(&r.ID, &r.Query, &r.Sources, &r.TotalResults, &r.DurationMS, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan search")
		}
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list searches iterate")
}
