package correlate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uk-osint/nexus/internal/model"
)

func fixtureBatch() ([]model.Company, []model.Officer, []model.LegalCase, []model.Contract, []model.Vehicle) {
	addr := &model.Address{Line1: "1 High Street", Locality: "London", PostalCode: "SW1A 1AA"}
	companies := []model.Company{{
		Source:           "companies_house",
		CompanyNumber:    "01234567",
		CompanyName:      "Acme Ltd",
		RegisteredOffice: addr,
	}}
	officers := []model.Officer{{
		Source:        "companies_house",
		Name:          "JOHN SMITH",
		Role:          "director",
		CompanyNumber: "01234567",
		Address:       &model.Address{Line1: "2 Low Street", Locality: "Leeds"},
	}}
	cases := []model.LegalCase{{
		Source:   "bailii",
		CaseName: "Acme Ltd v HMRC",
		Parties:  []string{"ACME LIMITED", "HMRC"},
	}}
	contracts := []model.Contract{{
		Source:       "contracts_finder",
		Title:        "Office supplies framework",
		SupplierName: "ACME LIMITED",
		BuyerName:    "Home Office",
	}}
	vehicles := []model.Vehicle{{
		Source:             "dvla",
		RegistrationNumber: "AB12CDE",
	}}
	return companies, officers, cases, contracts, vehicles
}

func TestBuildProfile_EntityTypeClassification(t *testing.T) {
	c := New()

	onlyOfficers := c.BuildProfile("john smith", nil,
		[]model.Officer{{Source: "companies_house", Name: "JOHN SMITH", Role: "director"}},
		nil, nil, nil)
	assert.Equal(t, model.EntityTypePerson, onlyOfficers.EntityType)

	withCompanies := c.BuildProfile("acme",
		[]model.Company{{Source: "companies_house", CompanyName: "Acme Ltd"}},
		nil, nil, nil, nil)
	assert.Equal(t, model.EntityTypeCompany, withCompanies.EntityType)

	empty := c.BuildProfile("nothing", nil, nil, nil, nil, nil)
	assert.Equal(t, model.EntityTypePerson, empty.EntityType)
}

func TestBuildProfile_SourcesDeduplicated(t *testing.T) {
	c := New()
	companies, officers, cases, contracts, vehicles := fixtureBatch()
	p := c.BuildProfile("acme", companies, officers, cases, contracts, vehicles)

	assert.ElementsMatch(t,
		[]string{"companies_house", "bailii", "contracts_finder", "dvla"},
		p.Sources)
}

func TestBuildProfile_AddressOrder(t *testing.T) {
	c := New()
	companies, officers, cases, contracts, vehicles := fixtureBatch()
	p := c.BuildProfile("acme", companies, officers, cases, contracts, vehicles)

	require.Len(t, p.Addresses, 2)
	assert.Equal(t, "1 High Street", p.Addresses[0].Line1) // company first
	assert.Equal(t, "2 Low Street", p.Addresses[1].Line1)  // then officer
}

func TestBuildProfile_TotalRecords(t *testing.T) {
	c := New()
	companies, officers, cases, contracts, vehicles := fixtureBatch()
	p := c.BuildProfile("acme", companies, officers, cases, contracts, vehicles)

	assert.Equal(t, 5, p.TotalRecords())
	assert.Equal(t,
		len(p.Companies)+len(p.Officers)+len(p.LegalCases)+len(p.Contracts)+len(p.Vehicles),
		p.TotalRecords())
}

func TestBuildProfile_LinksPreserveRuleGroupOrder(t *testing.T) {
	c := New()
	companies, officers, cases, contracts, vehicles := fixtureBatch()
	p := c.BuildProfile("acme", companies, officers, cases, contracts, vehicles)

	// person-company, then company-contract, then company-legal: the
	// fixture yields one link per group, in rule invocation order,
	// regardless of confidence.
	require.Len(t, p.Links, 3)
	assert.Equal(t, LinkDirectorOf, p.Links[0].LinkType)
	assert.Equal(t, LinkContractSupplier, p.Links[1].LinkType)
	assert.Equal(t, LinkPartyInCase, p.Links[2].LinkType)
}

func TestBuildProfile_AllLinksMeetThreshold(t *testing.T) {
	c := New(WithMinConfidence(0.8))
	companies, officers, cases, contracts, vehicles := fixtureBatch()
	p := c.BuildProfile("acme", companies, officers, cases, contracts, vehicles)

	for _, l := range p.Links {
		assert.GreaterOrEqual(t, l.Confidence, 0.8)
	}
}

func TestCorrelateResults_SortedByConfidenceDescending(t *testing.T) {
	c := New()
	companies, officers, cases, contracts, vehicles := fixtureBatch()

	var results []model.SearchResult
	for _, r := range companies {
		results = append(results, model.NewSearchResult(r, "acme"))
	}
	for _, r := range officers {
		results = append(results, model.NewSearchResult(r, "acme"))
	}
	for _, r := range cases {
		results = append(results, model.NewSearchResult(r, "acme"))
	}
	for _, r := range contracts {
		results = append(results, model.NewSearchResult(r, "acme"))
	}
	for _, r := range vehicles {
		results = append(results, model.NewSearchResult(r, "acme"))
	}

	links := c.CorrelateResults(results)
	require.NotEmpty(t, links)
	for i := 1; i < len(links); i++ {
		assert.GreaterOrEqual(t, links[i-1].Confidence, links[i].Confidence)
	}
}

func TestCorrelateResults_VehiclesNeverLinked(t *testing.T) {
	// Vehicles are carried in profiles and results but no rule links
	// them to anything: vehicle data has no reliable cross-reference
	// key. This pins the gap so an accidental vehicle rule shows up as
	// a test failure.
	c := New()
	results := []model.SearchResult{
		model.NewSearchResult(model.Vehicle{Source: "dvla", RegistrationNumber: "AB12CDE"}, "AB12CDE"),
		model.NewSearchResult(model.Company{Source: "companies_house", CompanyName: "AB12CDE Ltd"}, "AB12CDE"),
	}
	assert.Empty(t, c.CorrelateResults(results))
}

func TestCorrelateResults_Empty(t *testing.T) {
	c := New()
	assert.Empty(t, c.CorrelateResults(nil))
}

func TestBuildProfile_DoesNotMutateInputs(t *testing.T) {
	c := New()
	companies, officers, cases, contracts, vehicles := fixtureBatch()
	origName := companies[0].CompanyName

	_ = c.BuildProfile("acme", companies, officers, cases, contracts, vehicles)
	_ = c.CorrelateResults([]model.SearchResult{model.NewSearchResult(companies[0], "acme")})

	assert.Equal(t, origName, companies[0].CompanyName)
}
