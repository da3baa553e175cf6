package charity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.charitycommission.gov.uk/register/api"

// Client searches the Charity Commission register.
type Client interface {
	SearchCharities(ctx context.Context, query string, limit int) ([]Charity, error)
}

// Charity is a registered charity.
type Charity struct {
	RegisteredNumber int    `json:"reg_charity_number"`
	Name             string `json:"charity_name"`
	Status           string `json:"reg_status"`
	DateRegistered   string `json:"date_of_registration"`
	DateRemoved      string `json:"date_of_removal"`
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
	baseURL string
	http    *http.Client
}

// NewClient creates a Charity Commission client. The key is sent in
// the Ocp-Apim-Subscription-Key header.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) SearchCharities(ctx context.Context, query string, limit int) ([]Charity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/searchCharityName/"+url.PathEscape(query), nil)
	if err != nil {
		return nil, eris.Wrap(err, "charity: build request")
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "charity: search")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("charity: search: status %d", resp.StatusCode)
	}

	var charities []Charity
	if err := json.NewDecoder(resp.Body).Decode(&charities); err != nil {
		return nil, eris.Wrap(err, "charity: decode response")
	}
	if limit > 0 && len(charities) > limit {
		charities = charities[:limit]
	}
	return charities, nil
}
