package gazette

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://www.thegazette.co.uk"

// Client searches official notices in The Gazette.
type Client interface {
	SearchNotices(ctx context.Context, query string, limit int) ([]Notice, error)
}

// Notice is an official public notice.
type Notice struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	NoticeCode    string `json:"noticeCode"`
	PublishedDate string `json:"publicationDate"`
	Edition       string `json:"edition"`
	Content       string `json:"content"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Gazette client. The notice feed is public.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) SearchNotices(ctx context.Context, query string, limit int) ([]Notice, error) {
	params := url.Values{
		"text":              {query},
		"results-page-size": {strconv.Itoa(limit)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/all-notices/notice/data.json?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "gazette: build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "gazette: search notices")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("gazette: search notices: status %d", resp.StatusCode)
	}

	var body struct {
		Entry []Notice `json:"entry"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, eris.Wrap(err, "gazette: decode response")
	}
	return body.Entry, nil
}
