package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uk-osint/nexus/internal/config"
	"github.com/uk-osint/nexus/internal/search"
)

func resetSearchFlags(t *testing.T) {
	t.Helper()
	cfg = &config.Config{}
	cfg.Search.Sources = "all"
	cfg.Search.MaxResultsPerSource = 20
	cfg.Search.IncludeOfficers = true
	cfg.Search.TimeoutSecs = 30
	cfg.Export.Format = "json"

	searchSources = ""
	searchMaxResults = 0
	searchTimeout = 0
	searchNoOfficers = false
}

func TestSearchOptions_Defaults(t *testing.T) {
	resetSearchFlags(t)

	opts, err := searchOptions()
	require.NoError(t, err)

	assert.Equal(t, search.All, opts.Sources)
	assert.Equal(t, 20, opts.MaxResultsPerSource)
	assert.True(t, opts.IncludeOfficers)
	assert.Equal(t, cfg.Search.Timeout(), opts.Timeout)
}

func TestSearchOptions_FlagsOverrideConfig(t *testing.T) {
	resetSearchFlags(t)
	searchSources = "vehicles"
	searchMaxResults = 5
	searchNoOfficers = true

	opts, err := searchOptions()
	require.NoError(t, err)

	assert.Equal(t, search.Vehicles, opts.Sources)
	assert.Equal(t, 5, opts.MaxResultsPerSource)
	assert.False(t, opts.IncludeOfficers)
}

func TestSearchOptions_UnknownSource(t *testing.T) {
	resetSearchFlags(t)
	searchSources = "interpol"

	_, err := searchOptions()
	assert.Error(t, err)
}

func TestOutputFormat_FallsBackToConfig(t *testing.T) {
	resetSearchFlags(t)
	cfg.Export.Format = "markdown"

	assert.Equal(t, "markdown", outputFormat(""))
	assert.Equal(t, "csv", outputFormat("csv"))
}

func TestOutputWriter_Stdout(t *testing.T) {
	w, closeFn, err := outputWriter("")
	require.NoError(t, err)
	defer closeFn()
	assert.Equal(t, os.Stdout, w)
}

func TestOutputWriter_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	w, closeFn, err := outputWriter(path)
	require.NoError(t, err)

	_, err = w.Write([]byte("{}"))
	require.NoError(t, err)
	closeFn()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestSourcesCommand_ListsSourcesAndPresets(t *testing.T) {
	var buf bytes.Buffer
	sourcesCmd.SetOut(&buf)
	defer sourcesCmd.SetOut(nil)

	require.NoError(t, sourcesCmd.RunE(sourcesCmd, nil))

	out := buf.String()
	assert.Contains(t, out, "companies_house")
	assert.Contains(t, out, "land_registry")
	assert.Contains(t, out, "person_due_diligence")
	assert.Contains(t, out, "all_extended")
}
