package fca

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://register.fca.org.uk/services/V0.1"

// Client searches the FCA Financial Services Register.
type Client interface {
	SearchFirms(ctx context.Context, query string, limit int) ([]Firm, error)
	SearchIndividuals(ctx context.Context, query string, limit int) ([]Individual, error)
}

// Firm is an authorised firm on the register.
type Firm struct {
	FRN    string `json:"Reference Number"`
	Name   string `json:"Name"`
	Status string `json:"Status"`
	Type   string `json:"Type of business or Individual"`
}

// Individual is an approved person on the register.
type Individual struct {
	IRN    string `json:"Reference Number"`
	Name   string `json:"Name"`
	Status string `json:"Status"`
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

type httpClient struct {
	apiKey  string
	email   string
	baseURL string
	http    *http.Client
}

// NewClient creates an FCA Register client. The register authenticates
// with an account email plus API key header pair.
func NewClient(apiKey, email string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		email:   email,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) search(ctx context.Context, query, searchType string, out any) error {
	params := url.Values{"q": {query}, "type": {searchType}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/Search?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "fca: build request")
	}
	req.Header.Set("X-Auth-Email", c.email)
	req.Header.Set("X-Auth-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "fca: search")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("fca: search: status %d", resp.StatusCode)
	}

	var body struct {
		Data json.RawMessage `json:"Data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return eris.Wrap(err, "fca: decode response")
	}
	if len(body.Data) == 0 {
		return nil
	}
	return eris.Wrap(json.Unmarshal(body.Data, out), "fca: decode data")
}

func (c *httpClient) SearchFirms(ctx context.Context, query string, limit int) ([]Firm, error) {
	var firms []Firm
	if err := c.search(ctx, query, "firm", &firms); err != nil {
		return nil, err
	}
	if limit > 0 && len(firms) > limit {
		firms = firms[:limit]
	}
	return firms, nil
}

func (c *httpClient) SearchIndividuals(ctx context.Context, query string, limit int) ([]Individual, error) {
	var individuals []Individual
	if err := c.search(ctx, query, "individual", &individuals); err != nil {
		return nil, err
	}
	if limit > 0 && len(individuals) > limit {
		individuals = individuals[:limit]
	}
	return individuals, nil
}
