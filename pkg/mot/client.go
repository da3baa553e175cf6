package mot

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://history.mot.api.gov.uk/v1/trade/vehicles"

// Client queries the DVSA MOT history API.
type Client interface {
	History(ctx context.Context, registration string) (*Vehicle, error)
}

// Vehicle is a vehicle with its MOT test history.
type Vehicle struct {
	Registration    string `json:"registration"`
	Make            string `json:"make"`
	Model           string `json:"model"`
	FirstUsedDate   string `json:"firstUsedDate"`
	FuelType        string `json:"fuelType"`
	PrimaryColour   string `json:"primaryColour"`
	ManufactureYear string `json:"manufactureYear"`
	MOTTests        []Test `json:"motTests"`
}

// Test is a single MOT test record.
type Test struct {
	CompletedDate string `json:"completedDate"`
	TestResult    string `json:"testResult"`
	ExpiryDate    string `json:"expiryDate"`
	OdometerValue string `json:"odometerValue"`
	OdometerUnit  string `json:"odometerUnit"`
	MOTTestNumber string `json:"motTestNumber"`
}

// ErrNotFound is returned for registrations with no MOT history.
var ErrNotFound = eris.New("mot: vehicle not found")

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
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a MOT history client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) History(ctx context.Context, registration string) (*Vehicle, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "mot: rate limit wait")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/registration/"+registration, nil)
	if err != nil {
		return nil, eris.Wrap(err, "mot: build request")
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "mot: history lookup")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, eris.Errorf("mot: history lookup: status %d", resp.StatusCode)
	}

	var v Vehicle
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, eris.Wrap(err, "mot: decode response")
	}
	return &v, nil
}
