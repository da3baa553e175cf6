package companieshouse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.company-information.service.gov.uk"

// Client searches the Companies House public data API.
type Client interface {
	SearchCompanies(ctx context.Context, query string, limit int) ([]Company, error)
	SearchOfficers(ctx context.Context, query string, limit int) ([]Officer, error)
	SearchDisqualifiedOfficers(ctx context.Context, query string, limit int) ([]DisqualifiedOfficer, error)
	GetCompany(ctx context.Context, companyNumber string) (*Company, error)
	GetCompanyOfficers(ctx context.Context, companyNumber string, limit int) ([]Officer, error)
	GetCompanyPSCs(ctx context.Context, companyNumber string, limit int) ([]PSC, error)
}

// Address is the registered or service address shape used across
// Companies House resources.
type Address struct {
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2"`
	Locality     string `json:"locality"`
	Region       string `json:"region"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

// Company is a company search result or profile.
type Company struct {
	CompanyNumber   string   `json:"company_number"`
	Title           string   `json:"title"`
	CompanyName     string   `json:"company_name"`
	CompanyStatus   string   `json:"company_status"`
	CompanyType     string   `json:"company_type"`
	DateOfCreation  string   `json:"date_of_creation"`
	DateOfCessation string   `json:"date_of_cessation"`
	Address         *Address `json:"registered_office_address"`
	SICCodes        []string `json:"sic_codes"`
}

// Name returns the display name, which search results carry in "title"
// and company profiles in "company_name".
func (c Company) Name() string {
	if c.CompanyName != "" {
		return c.CompanyName
	}
	return c.Title
}

// Officer is an officer search result or appointment entry.
type Officer struct {
	Title         string   `json:"title"`
	Name          string   `json:"name"`
	OfficerRole   string   `json:"officer_role"`
	AppointedOn   string   `json:"appointed_on"`
	ResignedOn    string   `json:"resigned_on"`
	Nationality   string   `json:"nationality"`
	Occupation    string   `json:"occupation"`
	Address       *Address `json:"address"`
	AppointedTo   *struct {
		CompanyNumber string `json:"company_number"`
		CompanyName   string `json:"company_name"`
	} `json:"appointed_to"`
	Links struct {
		Self string `json:"self"`
	} `json:"links"`
}

// DisplayName returns the officer's name from whichever field the
// endpoint populated.
func (o Officer) DisplayName() string {
	if o.Name != "" {
		return o.Name
	}
	return o.Title
}

// DisqualifiedOfficer is a disqualified-officers search result.
type DisqualifiedOfficer struct {
	Title           string   `json:"title"`
	DateOfBirth     string   `json:"date_of_birth"`
	Address         *Address `json:"address"`
	Description     string   `json:"description"`
	AppointmentKind string   `json:"kind"`
}

// PSC is a person with significant control over a company. Corporate
// PSCs carry a kind of "corporate-entity" instead of "individual".
type PSC struct {
	Name               string   `json:"name"`
	Kind               string   `json:"kind"`
	Nationality        string   `json:"nationality"`
	CountryOfResidence string   `json:"country_of_residence"`
	NotifiedOn         string   `json:"notified_on"`
	CeasedOn           string   `json:"ceased_on"`
	NaturesOfControl   []string `json:"natures_of_control"`
	Address            *Address `json:"address"`
	DateOfBirth        *struct {
		Month int `json:"month"`
		Year  int `json:"year"`
	} `json:"date_of_birth"`
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

// WithRateLimiter throttles outbound requests. Companies House allows
// 600 requests per 5 minutes per key.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *httpClient) { c.limiter = l }
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Companies House client. The API key is sent as
// the basic-auth username with an empty password.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "companieshouse: rate limit wait")
		}
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return eris.Wrap(err, "companieshouse: build request")
	}
	req.SetBasicAuth(c.apiKey, "")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrapf(err, "companieshouse: GET %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("companieshouse: GET %s: status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return eris.Wrapf(err, "companieshouse: decode %s", path)
	}
	return nil
}

// ErrNotFound is returned when a resource does not exist.
var ErrNotFound = eris.New("companieshouse: not found")

func (c *httpClient) SearchCompanies(ctx context.Context, query string, limit int) ([]Company, error) {
	var body struct {
		Items []Company `json:"items"`
	}
	params := url.Values{"q": {query}, "items_per_page": {strconv.Itoa(limit)}}
	if err := c.get(ctx, "/search/companies", params, &body); err != nil {
		return nil, err
	}
	return body.Items, nil
}

func (c *httpClient) SearchOfficers(ctx context.Context, query string, limit int) ([]Officer, error) {
	var body struct {
		Items []Officer `json:"items"`
	}
	params := url.Values{"q": {query}, "items_per_page": {strconv.Itoa(limit)}}
	if err := c.get(ctx, "/search/officers", params, &body); err != nil {
		return nil, err
	}
	return body.Items, nil
}

func (c *httpClient) SearchDisqualifiedOfficers(ctx context.Context, query string, limit int) ([]DisqualifiedOfficer, error) {
	var body struct {
		Items []DisqualifiedOfficer `json:"items"`
	}
	params := url.Values{"q": {query}, "items_per_page": {strconv.Itoa(limit)}}
	if err := c.get(ctx, "/search/disqualified-officers", params, &body); err != nil {
		return nil, err
	}
	return body.Items, nil
}

func (c *httpClient) GetCompany(ctx context.Context, companyNumber string) (*Company, error) {
	var company Company
	if err := c.get(ctx, fmt.Sprintf("/company/%s", companyNumber), nil, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (c *httpClient) GetCompanyOfficers(ctx context.Context, companyNumber string, limit int) ([]Officer, error) {
	var body struct {
		Items []Officer `json:"items"`
	}
	params := url.Values{"items_per_page": {strconv.Itoa(limit)}}
	if err := c.get(ctx, fmt.Sprintf("/company/%s/officers", companyNumber), params, &body); err != nil {
		return nil, err
	}
	return body.Items, nil
}

func (c *httpClient) GetCompanyPSCs(ctx context.Context, companyNumber string, limit int) ([]PSC, error) {
	var body struct {
		Items []PSC `json:"items"`
	}
	params := url.Values{"items_per_page": {strconv.Itoa(limit)}}
	if err := c.get(ctx, fmt.Sprintf("/company/%s/persons-with-significant-control", companyNumber), params, &body); err != nil {
		return nil, err
	}
	return body.Items, nil
}
