package foodstandards

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.ratings.food.gov.uk"

// Client searches Food Standards Agency hygiene ratings.
type Client interface {
	SearchEstablishments(ctx context.Context, name string, pageSize int) ([]Establishment, error)
}

// Establishment is a food business with its hygiene rating.
type Establishment struct {
	FHRSID             int    `json:"FHRSID"`
	BusinessName       string `json:"BusinessName"`
	BusinessType       string `json:"BusinessType"`
	AddressLine1       string `json:"AddressLine1"`
	AddressLine2       string `json:"AddressLine2"`
	AddressLine3       string `json:"AddressLine3"`
	AddressLine4       string `json:"AddressLine4"`
	PostCode           string `json:"PostCode"`
	RatingValue        string `json:"RatingValue"`
	RatingDate         string `json:"RatingDate"`
	SchemeType         string `json:"SchemeType"`
	LocalAuthorityName string `json:"LocalAuthorityName"`
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

// NewClient creates an FSA ratings client. The API is open but requires
// a version header on every request.
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

func (c *httpClient) SearchEstablishments(ctx context.Context, name string, pageSize int) ([]Establishment, error) {
	params := url.Values{
		"name":     {name},
		"pageSize": {strconv.Itoa(pageSize)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/Establishments?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "foodstandards: build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-version", "2")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "foodstandards: search establishments")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("foodstandards: search establishments: status %d", resp.StatusCode)
	}

	var body struct {
		Establishments []Establishment `json:"establishments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, eris.Wrap(err, "foodstandards: decode response")
	}
	return body.Establishments, nil
}
