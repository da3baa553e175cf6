package insolvency

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://www.insolvencydirect.bis.gov.uk"

// Client searches the Individual Insolvency Register. Company
// insolvencies are covered through Companies House instead.
type Client interface {
	SearchByName(ctx context.Context, surname, forenames string) ([]Record, error)
}

// Record is an individual insolvency: a bankruptcy, IVA, DRO, or a
// bankruptcy restriction order or undertaking.
type Record struct {
	Surname      string   `json:"surname"`
	Forenames    string   `json:"forenames"`
	Title        string   `json:"title"`
	DateOfBirth  string   `json:"dateOfBirth"`
	AddressLine1 string   `json:"addressLine1"`
	AddressLine2 string   `json:"addressLine2"`
	Town         string   `json:"town"`
	Postcode     string   `json:"postcode"`
	Aliases      []string `json:"aliases"`
	TradingNames []string `json:"tradingNames"`
	CaseType     string   `json:"caseType"`
	CaseNumber   string   `json:"caseNumber"`
	Court        string   `json:"court"`
	StartDate    string   `json:"startDate"`
	Status       string   `json:"status"`
	Practitioner string   `json:"insolvencyPractitioner"`
}

// FullName joins forenames and surname.
func (r Record) FullName() string {
	if r.Forenames == "" {
		return r.Surname
	}
	return r.Forenames + " " + r.Surname
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

// NewClient creates an insolvency register client. The register is public.
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

func (c *httpClient) SearchByName(ctx context.Context, surname, forenames string) ([]Record, error) {
	params := url.Values{"surname": {surname}}
	if forenames != "" {
		params.Set("forenames", forenames)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/eiir/IIRSearchNameResult.asp?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "insolvency: build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "insolvency: search register")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("insolvency: search register: status %d", resp.StatusCode)
	}

	var body struct {
		Records []Record `json:"records"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, eris.Wrap(err, "insolvency: decode response")
	}
	return body.Records, nil
}
