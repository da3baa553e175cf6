package store

import (
	"context"
	"time"
)

// CachedResponse is a stored raw source response.
type CachedResponse struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Query     string    `json:"query"`
	Payload   []byte    `json:"payload"`
	FetchedAt time.Time `json:"fetched_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SearchRecord is one entry in the search history.
type SearchRecord struct {
	ID           string    `json:"id"`
	Query        string    `json:"query"`
	Sources      string    `json:"sources"`
	TotalResults int       `json:"total_results"`
	DurationMS   int64     `json:"duration_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store persists cached source responses and the search history.
type Store interface {
	// Response cache
	GetCachedResponse(ctx context.Context, source, query string) (*CachedResponse, error)
	PutCachedResponse(ctx context.Context, source, query string, payload []byte, ttl time.Duration) error
	PruneExpired(ctx context.Context) (int, error)

	// Search history
	RecordSearch(ctx context.Context, query, sources string, totalResults int, duration time.Duration) (*SearchRecord, error)
	ListSearches(ctx context.Context, limit int) ([]SearchRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
