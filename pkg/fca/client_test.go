package fca

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchFirms_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Search", r.URL.Path)
		require.Equal(t, "barclays", r.URL.Query().Get("q"))
		require.Equal(t, "firm", r.URL.Query().Get("type"))
		require.Equal(t, "user@example.com", r.Header.Get("X-Auth-Email"))
		require.Equal(t, "test-key", r.Header.Get("X-Auth-Key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Data": [
			{"Reference Number": "122702", "Name": "Barclays Bank PLC", "Status": "Authorised", "Type of business or Individual": "Firm"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", "user@example.com", WithBaseURL(srv.URL))
	firms, err := c.SearchFirms(context.Background(), "barclays", 10)
	require.NoError(t, err)
	require.Len(t, firms, 1)

	assert.Equal(t, "122702", firms[0].FRN)
	assert.Equal(t, "Barclays Bank PLC", firms[0].Name)
	assert.Equal(t, "Authorised", firms[0].Status)
}

func TestSearchIndividuals_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "individual", r.URL.Query().Get("type"))

		w.Write([]byte(`{"Data": [
			{"Reference Number": "JXS01234", "Name": "Jane Smith", "Status": "Approved by regulator"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", "user@example.com", WithBaseURL(srv.URL))
	individuals, err := c.SearchIndividuals(context.Background(), "jane smith", 10)
	require.NoError(t, err)
	require.Len(t, individuals, 1)

	assert.Equal(t, "JXS01234", individuals[0].IRN)
	assert.Equal(t, "Jane Smith", individuals[0].Name)
}

func TestSearchFirms_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"Data": []}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", "user@example.com", WithBaseURL(srv.URL))
	firms, err := c.SearchFirms(context.Background(), "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, firms)
}
