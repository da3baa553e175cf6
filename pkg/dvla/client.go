package dvla

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://driver-vehicle-licensing.api.gov.uk/vehicle-enquiry/v1"

// Client queries the DVLA Vehicle Enquiry Service.
type Client interface {
	Lookup(ctx context.Context, registration string) (*Vehicle, error)
}

// Vehicle is the enquiry response for one registration.
type Vehicle struct {
	RegistrationNumber string `json:"registrationNumber"`
	Make               string `json:"make"`
	Colour             string `json:"colour"`
	FuelType           string `json:"fuelType"`
	EngineCapacity     int    `json:"engineCapacity"`
	YearOfManufacture  int    `json:"yearOfManufacture"`
	TaxStatus          string `json:"taxStatus"`
	TaxDueDate         string `json:"taxDueDate"`
	MOTStatus          string `json:"motStatus"`
	MOTExpiryDate      string `json:"motExpiryDate"`
	CO2Emissions       int    `json:"co2Emissions"`
	Wheelplan          string `json:"wheelplan"`
}

// ErrNotFound is returned when the registration is unknown to DVLA.
var ErrNotFound = eris.New("dvla: vehicle not found")

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

// NewClient creates a DVLA Vehicle Enquiry client.
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

func (c *httpClient) Lookup(ctx context.Context, registration string) (*Vehicle, error) {
	b, err := json.Marshal(map[string]string{"registrationNumber": registration})
	if err != nil {
		return nil, eris.Wrap(err, "dvla: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/vehicles", bytes.NewReader(b))
	if err != nil {
		return nil, eris.Wrap(err, "dvla: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "dvla: vehicle enquiry")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, eris.Errorf("dvla: vehicle enquiry: status %d", resp.StatusCode)
	}

	var v Vehicle
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, eris.Wrap(err, "dvla: decode response")
	}
	return &v, nil
}
