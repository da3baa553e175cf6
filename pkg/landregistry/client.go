package landregistry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://landregistry.data.gov.uk"

var propertyTypeNames = map[string]string{
	"D": "Detached",
	"S": "Semi-detached",
	"T": "Terraced",
	"F": "Flat/Maisonette",
	"O": "Other",
}

// Client queries HM Land Registry price paid open data through its
// SPARQL endpoint.
type Client interface {
	TransactionsByPostcode(ctx context.Context, postcode string, limit int) ([]Transaction, error)
}

// Transaction is a recorded property sale.
type Transaction struct {
	TransactionID string
	Price         int
	Date          string
	PropertyType  string
	NewBuild      bool
	PAON          string // house name or number
	SAON          string // flat number within the building
	Street        string
	Town          string
	County        string
	Postcode      string
}

// FullAddress joins the present address components.
func (t Transaction) FullAddress() string {
	parts := []string{t.SAON, t.PAON, t.Street, t.Town, t.County, t.Postcode}
	var present []string
	for _, p := range parts {
		if p != "" {
			present = append(present, p)
		}
	}
	return strings.Join(present, ", ")
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

// NewClient creates a Land Registry client. The data is open.
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

func (c *httpClient) TransactionsByPostcode(ctx context.Context, postcode string, limit int) ([]Transaction, error) {
	query := fmt.Sprintf(`
PREFIX lrppi: <http://landregistry.data.gov.uk/def/ppi/>
PREFIX lrcommon: <http://landregistry.data.gov.uk/def/common/>

SELECT ?transactionId ?pricePaid ?transactionDate ?propertyType ?newBuild
       ?paon ?saon ?street ?town ?county ?postcode
WHERE {
    ?transaction lrppi:pricePaid ?pricePaid ;
                 lrppi:transactionDate ?transactionDate ;
                 lrppi:propertyAddress ?address .

    ?address lrcommon:postcode %s .
    BIND(%s AS ?postcode)
    OPTIONAL { ?transaction lrppi:transactionId ?transactionId }
    OPTIONAL { ?transaction lrppi:propertyType ?propertyType }
    OPTIONAL { ?transaction lrppi:newBuild ?newBuild }
    OPTIONAL { ?address lrcommon:paon ?paon }
    OPTIONAL { ?address lrcommon:saon ?saon }
    OPTIONAL { ?address lrcommon:street ?street }
    OPTIONAL { ?address lrcommon:town ?town }
    OPTIONAL { ?address lrcommon:county ?county }
}
ORDER BY DESC(?transactionDate)
LIMIT %d`, sparqlString(postcode), sparqlString(postcode), limit)

	params := url.Values{
		"query":  {query},
		"output": {"json"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/sparql?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "landregistry: build request")
	}
	req.Header.Set("Accept", "application/sparql-results+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "landregistry: query price paid data")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("landregistry: query price paid data: status %d", resp.StatusCode)
	}

	var body struct {
		Results struct {
			Bindings []map[string]struct {
				Value string `json:"value"`
			} `json:"bindings"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, eris.Wrap(err, "landregistry: decode response")
	}

	txs := make([]Transaction, 0, len(body.Results.Bindings))
	for _, b := range body.Results.Bindings {
		val := func(key string) string { return b[key].Value }
		price, _ := strconv.Atoi(val("pricePaid"))

		// Type and tenure URIs end in the short code.
		ptype := val("propertyType")
		if i := strings.LastIndex(ptype, "/"); i >= 0 {
			ptype = ptype[i+1:]
		}
		if name, ok := propertyTypeNames[strings.ToUpper(ptype)]; ok {
			ptype = name
		}

		txs = append(txs, Transaction{
			TransactionID: val("transactionId"),
			Price:         price,
			Date:          val("transactionDate"),
			PropertyType:  ptype,
			NewBuild:      val("newBuild") == "Y" || val("newBuild") == "true",
			PAON:          val("paon"),
			SAON:          val("saon"),
			Street:        val("street"),
			Town:          val("town"),
			County:        val("county"),
			Postcode:      val("postcode"),
		})
	}
	return txs, nil
}

func sparqlString(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}
