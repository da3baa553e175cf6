package police

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultBaseURL     = "https://data.police.uk/api"
	defaultPostcodeURL = "https://api.postcodes.io"
)

// Client fetches street-level crime data for England, Wales and
// Northern Ireland. Locations are anonymised to the nearest map point.
type Client interface {
	CrimesAtLocation(ctx context.Context, lat, lng float64, month string) ([]Crime, error)
	CrimesByPostcode(ctx context.Context, postcode, month string) ([]Crime, error)
}

// Crime is a recorded street-level crime.
type Crime struct {
	ID           string `json:"id"`
	PersistentID string `json:"persistent_id"`
	Category     string `json:"category"`
	Month        string `json:"month"`
	Context      string `json:"context"`
	Location     struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
		Street    struct {
			Name string `json:"name"`
		} `json:"street"`
	} `json:"location"`
	OutcomeStatus *struct {
		Category string `json:"category"`
		Date     string `json:"date"`
	} `json:"outcome_status"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithPostcodeURL overrides the postcode geocoding base URL.
func WithPostcodeURL(u string) Option {
	return func(c *httpClient) { c.postcodeURL = u }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

type httpClient struct {
	baseURL     string
	postcodeURL string
	http        *http.Client
}

// NewClient creates a police data client. No authentication is needed.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:     defaultBaseURL,
		postcodeURL: defaultPostcodeURL,
		http:        &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) CrimesAtLocation(ctx context.Context, lat, lng float64, month string) ([]Crime, error) {
	params := url.Values{
		"lat": {fmt.Sprintf("%f", lat)},
		"lng": {fmt.Sprintf("%f", lng)},
	}
	if month != "" {
		params.Set("date", month)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/crimes-street/all-crime?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "police: build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "police: fetch crimes")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("police: fetch crimes: status %d", resp.StatusCode)
	}

	var crimes []Crime
	if err := json.NewDecoder(resp.Body).Decode(&crimes); err != nil {
		return nil, eris.Wrap(err, "police: decode response")
	}
	return crimes, nil
}

// CrimesByPostcode geocodes the postcode via postcodes.io, then fetches
// crimes at the resulting coordinates.
func (c *httpClient) CrimesByPostcode(ctx context.Context, postcode, month string) ([]Crime, error) {
	lat, lng, err := c.geocode(ctx, postcode)
	if err != nil {
		return nil, err
	}
	return c.CrimesAtLocation(ctx, lat, lng, month)
}

func (c *httpClient) geocode(ctx context.Context, postcode string) (lat, lng float64, err error) {
	compact := strings.ToUpper(strings.ReplaceAll(postcode, " ", ""))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.postcodeURL+"/postcodes/"+url.PathEscape(compact), nil)
	if err != nil {
		return 0, 0, eris.Wrap(err, "police: build geocode request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, 0, eris.Wrap(err, "police: geocode postcode")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, eris.Errorf("police: geocode postcode %q: status %d", postcode, resp.StatusCode)
	}

	var body struct {
		Result struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, 0, eris.Wrap(err, "police: decode geocode response")
	}
	return body.Result.Latitude, body.Result.Longitude, nil
}
