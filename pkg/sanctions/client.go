package sanctions

import (
	"context"
	"encoding/xml"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// The OFSI consolidated list is a single downloadable XML document. It is
// updated a few times a week, so a fetched copy is held for an hour.
const (
	defaultBaseURL = "https://assets.publishing.service.gov.uk"
	listPath       = "/media/consolidated-list-xml"
	cacheDuration  = time.Hour
)

// Client searches the UK consolidated financial sanctions list.
type Client interface {
	Search(ctx context.Context, query string) ([]Entity, error)
}

// Entity is a sanctioned individual or organisation.
type Entity struct {
	GroupID     string
	Name        string
	EntityType  string // "Individual", "Entity" or "Ship"
	Aliases     []string
	DateOfBirth string
	Nationality string
	Regime      string
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

	mu        sync.Mutex
	cached    []Entity
	fetchedAt time.Time
}

// NewClient creates a sanctions list client. No authentication is needed.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, query string) ([]Entity, error) {
	entities, err := c.list(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToUpper(query)
	var matches []Entity
	for _, e := range entities {
		if strings.Contains(strings.ToUpper(e.Name), q) {
			matches = append(matches, e)
			continue
		}
		for _, alias := range e.Aliases {
			if strings.Contains(strings.ToUpper(alias), q) {
				matches = append(matches, e)
				break
			}
		}
	}
	return matches, nil
}

func (c *httpClient) list(ctx context.Context) ([]Entity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && time.Since(c.fetchedAt) < cacheDuration {
		return c.cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+listPath, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sanctions: build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "sanctions: download consolidated list")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("sanctions: download consolidated list: status %d", resp.StatusCode)
	}

	var doc listDocument
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, eris.Wrap(err, "sanctions: parse consolidated list")
	}

	c.cached = doc.entities()
	c.fetchedAt = time.Now()
	return c.cached, nil
}

type listDocument struct {
	XMLName      xml.Name      `xml:"Designations"`
	Designations []designation `xml:"Designation"`
}

type designation struct {
	GroupID     string   `xml:"GroupId"`
	Regime      string   `xml:"RegimeName"`
	EntityType  string   `xml:"IndividualEntityShip"`
	Names       []xmlName `xml:"Names>Name"`
	DOBs        []string `xml:"IndividualDetails>Individual>DOBs>DOB"`
	Nationality []string `xml:"IndividualDetails>Individual>Nationalities>Nationality"`
}

type xmlName struct {
	NameType string   `xml:"NameType"`
	Parts    []string `xml:"NameParts>NamePart>NamePartValue"`
}

func (d designation) entity() Entity {
	e := Entity{
		GroupID:    d.GroupID,
		EntityType: d.EntityType,
		Regime:     d.Regime,
	}
	for _, n := range d.Names {
		full := strings.Join(n.Parts, " ")
		if full == "" {
			continue
		}
		if n.NameType == "Primary Name" || e.Name == "" {
			if e.Name != "" {
				e.Aliases = append(e.Aliases, e.Name)
			}
			e.Name = full
		} else {
			e.Aliases = append(e.Aliases, full)
		}
	}
	if len(d.DOBs) > 0 {
		e.DateOfBirth = d.DOBs[0]
	}
	if len(d.Nationality) > 0 {
		e.Nationality = d.Nationality[0]
	}
	return e
}

func (d listDocument) entities() []Entity {
	out := make([]Entity, 0, len(d.Designations))
	for _, des := range d.Designations {
		if e := des.entity(); e.Name != "" {
			out = append(out, e)
		}
	}
	return out
}
