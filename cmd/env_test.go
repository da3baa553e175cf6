package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uk-osint/nexus/internal/store"
)

func TestCachedSearch_SecondCallHitsCache(t *testing.T) {
	env := testEnv(t)
	resetSearchFlags(t)
	cfg.Cache.TTLHours = 1

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	env.Store = st
	defer env.Close()

	opts, err := searchOptions()
	require.NoError(t, err)

	res1, err := env.cachedSearch(context.Background(), "acme", opts)
	require.NoError(t, err)
	res2, err := env.cachedSearch(context.Background(), "acme", opts)
	require.NoError(t, err)

	assert.Equal(t, res1.Query, res2.Query)

	// Only the first call reached the engine, so history has one entry.
	records, err := st.ListSearches(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "acme", records[0].Query)
}

func TestCachedSearch_NoStoreStillSearches(t *testing.T) {
	env := testEnv(t)
	resetSearchFlags(t)

	opts, err := searchOptions()
	require.NoError(t, err)

	res, err := env.cachedSearch(context.Background(), "acme", opts)
	require.NoError(t, err)
	assert.Equal(t, "acme", res.Query)
}
