package contractsfinder

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.contractsfinder.service.gov.uk/api/rest/2"

// Client searches UK public procurement notices on Contracts Finder.
// No API key is required.
type Client interface {
	SearchNotices(ctx context.Context, query string, size int) ([]Notice, error)
}

// Notice is a procurement notice.
type Notice struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	PublishedDate   string   `json:"publishedDate"`
	DeadlineDate    string   `json:"deadlineDate"`
	ValueLow        float64  `json:"valueLow"`
	ValueHigh       float64  `json:"valueHigh"`
	AwardedDate     string   `json:"awardedDate"`
	AwardedValue    float64  `json:"awardedValue"`
	Status          string   `json:"status"`
	NoticeType      string   `json:"noticeType"`
	Region          string   `json:"region"`
	CPVCodes        []string `json:"cpvCodes"`
	Organisation    string   `json:"organisationName"`
	AwardedSupplier string   `json:"awardedSupplier"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithRateLimiter throttles outbound requests.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *httpClient) { c.limiter = l }
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Contracts Finder client.
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

func (c *httpClient) SearchNotices(ctx context.Context, query string, size int) ([]Notice, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "contractsfinder: rate limit wait")
		}
	}

	reqBody := map[string]any{
		"searchCriteria": map[string]any{
			"keyword": query,
			"types":   []string{"Contract", "Pipeline"},
		},
		"size": size,
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, eris.Wrap(err, "contractsfinder: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/search/notices/json", bytes.NewReader(b))
	if err != nil {
		return nil, eris.Wrap(err, "contractsfinder: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "contractsfinder: search notices")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("contractsfinder: search notices: status %d", resp.StatusCode)
	}

	var body struct {
		NoticeList []struct {
			Item Notice `json:"item"`
		} `json:"noticeList"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, eris.Wrap(err, "contractsfinder: decode response")
	}

	notices := make([]Notice, 0, len(body.NoticeList))
	for _, n := range body.NoticeList {
		notices = append(notices, n.Item)
	}
	return notices, nil
}
