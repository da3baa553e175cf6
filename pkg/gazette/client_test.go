package gazette

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchNotices_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/all-notices/notice/data.json", r.URL.Path)
		require.Equal(t, "acme ltd", r.URL.Query().Get("text"))
		require.Equal(t, "20", r.URL.Query().Get("results-page-size"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"entry": [
			{
				"id": "https://www.thegazette.co.uk/notice/4012345",
				"title": "ACME LTD",
				"noticeCode": "2450",
				"publicationDate": "2023-05-15",
				"edition": "London",
				"content": "Notice of appointment of liquidator"
			}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	notices, err := c.SearchNotices(context.Background(), "acme ltd", 20)
	require.NoError(t, err)
	require.Len(t, notices, 1)

	assert.Equal(t, "ACME LTD", notices[0].Title)
	assert.Equal(t, "2450", notices[0].NoticeCode)
	assert.Equal(t, "2023-05-15", notices[0].PublishedDate)
	assert.Equal(t, "London", notices[0].Edition)
}

func TestSearchNotices_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.SearchNotices(context.Background(), "acme ltd", 20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}
