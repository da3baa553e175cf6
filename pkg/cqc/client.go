package cqc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.cqc.org.uk/public/v1"

// Client searches Care Quality Commission registered care locations.
type Client interface {
	SearchLocations(ctx context.Context, name string, perPage int) ([]Location, error)
	GetLocation(ctx context.Context, locationID string) (*Location, error)
}

// Location is a CQC registered care location.
type Location struct {
	LocationID         string `json:"locationId"`
	Name               string `json:"locationName"`
	ProviderID         string `json:"providerId"`
	Type               string `json:"type"`
	PostalAddressLine1 string `json:"postalAddressLine1"`
	PostalAddressLine2 string `json:"postalAddressLine2"`
	PostalAddressTown  string `json:"postalAddressTownCity"`
	PostalCode         string `json:"postalCode"`
	Region             string `json:"region"`
	RegistrationStatus string `json:"registrationStatus"`
	RegistrationDate   string `json:"registrationDate"`
	NumberOfBeds       int    `json:"numberOfBeds"`
	CurrentRatings     struct {
		Overall struct {
			Rating     string `json:"rating"`
			ReportDate string `json:"reportDate"`
		} `json:"overall"`
	} `json:"currentRatings"`
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

// NewClient creates a CQC client. The public API needs no key.
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

func (c *httpClient) SearchLocations(ctx context.Context, name string, perPage int) ([]Location, error) {
	params := url.Values{
		"name":    {name},
		"perPage": {strconv.Itoa(perPage)},
	}

	var body struct {
		Locations []Location `json:"locations"`
	}
	if err := c.get(ctx, "/locations?"+params.Encode(), &body); err != nil {
		return nil, err
	}
	return body.Locations, nil
}

func (c *httpClient) GetLocation(ctx context.Context, locationID string) (*Location, error) {
	var loc Location
	if err := c.get(ctx, "/locations/"+url.PathEscape(locationID), &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

func (c *httpClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return eris.Wrap(err, "cqc: build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrapf(err, "cqc: GET %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("cqc: GET %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return eris.Wrap(err, "cqc: decode response")
	}
	return nil
}
