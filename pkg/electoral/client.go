package electoral

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://search.electoralcommission.org.uk"

// Client searches Electoral Commission political finance data. The
// endpoints back the public search portal and carry no authentication.
type Client interface {
	SearchDonations(ctx context.Context, query string, rows int) ([]Donation, error)
}

// Donation is a reportable political donation.
type Donation struct {
	ECRef           string  `json:"ECRef"`
	RecipientName   string  `json:"RegulatedEntityName"`
	RecipientType   string  `json:"RegulatedEntityType"`
	DonorName       string  `json:"DonorName"`
	DonorStatus     string  `json:"DonorStatus"`
	CompanyNumber   string  `json:"CompanyRegistrationNumber"`
	Value           float64 `json:"Value"`
	DonationType    string  `json:"DonationType"`
	Nature          string  `json:"NatureOfDonation"`
	ReceivedDate    string  `json:"ReceivedDate"`
	AcceptedDate    string  `json:"AcceptedDate"`
	ReportingPeriod string  `json:"ReportingPeriodName"`
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

// NewClient creates an Electoral Commission client.
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

func (c *httpClient) SearchDonations(ctx context.Context, query string, rows int) ([]Donation, error) {
	params := url.Values{
		"query": {query},
		"start": {"0"},
		"rows":  {strconv.Itoa(rows)},
		"sort":  {"AcceptedDate"},
		"order": {"desc"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/search/Donations?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "electoral: build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "electoral: search donations")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("electoral: search donations: status %d", resp.StatusCode)
	}

	var body struct {
		Result []Donation `json:"Result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, eris.Wrap(err, "electoral: decode response")
	}
	return body.Result, nil
}
