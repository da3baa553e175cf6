package correlate

import (
	"sort"
	"time"

	"github.com/uk-osint/nexus/internal/model"
)

// DefaultMinConfidence is the link emission threshold when none is
// configured.
const DefaultMinConfidence = 0.7

// Correlator links records across data sources using name, address and
// identifier heuristics. It is pure and deterministic: no I/O, no
// locks, no mutation of its inputs.
type Correlator struct {
	minConfidence float64
	weights       Weights
}

// Option configures a Correlator.
type Option func(*Correlator)

// WithMinConfidence overrides the link emission threshold.
func WithMinConfidence(min float64) Option {
	return func(c *Correlator) {
		c.minConfidence = min
	}
}

// WithWeights overrides the rule tuning constants.
func WithWeights(w Weights) Option {
	return func(c *Correlator) {
		c.weights = w
	}
}

// New creates a Correlator with the default threshold and weights.
func New(opts ...Option) *Correlator {
	c := &Correlator{
		minConfidence: DefaultMinConfidence,
		weights:       DefaultWeights(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// MinConfidence returns the configured link emission threshold.
func (c *Correlator) MinConfidence() float64 { return c.minConfidence }

// BuildProfile aggregates one query's record lists into a profile. The
// profile classifies the entity (person if only person-type records are
// present, company otherwise), unions source tags, flattens addresses
// (company addresses first, then officer addresses, input order, no
// dedup) and runs all four pairwise rules in a fixed order. Links are
// returned in rule-group order, unsorted; presentation ordering is the
// caller's concern.
func (c *Correlator) BuildProfile(
	name string,
	companies []model.Company,
	officers []model.Officer,
	legalCases []model.LegalCase,
	contracts []model.Contract,
	vehicles []model.Vehicle,
) *EntityProfile {
	entityType := model.EntityTypePerson
	if len(companies) > 0 {
		entityType = model.EntityTypeCompany
	}

	sources := make([]string, 0, 4)
	seen := make(map[string]struct{})
	addSource := func(s string) {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			sources = append(sources, s)
		}
	}
	for _, r := range companies {
		addSource(r.Source)
	}
	for _, r := range officers {
		addSource(r.Source)
	}
	for _, r := range legalCases {
		addSource(r.Source)
	}
	for _, r := range contracts {
		addSource(r.Source)
	}
	for _, r := range vehicles {
		addSource(r.Source)
	}

	var addresses []model.Address
	for _, co := range companies {
		if co.RegisteredOffice != nil {
			addresses = append(addresses, *co.RegisteredOffice)
		}
	}
	for _, o := range officers {
		if o.Address != nil {
			addresses = append(addresses, *o.Address)
		}
	}

	var links []EntityLink
	links = append(links, c.PersonCompanyLinks(officers, companies)...)
	links = append(links, c.CompanyContractLinks(companies, contracts)...)
	links = append(links, c.PersonLegalLinks(officers, legalCases)...)
	links = append(links, c.CompanyLegalLinks(companies, legalCases)...)

	return &EntityProfile{
		PrimaryName: name,
		EntityType:  entityType,
		Sources:     sources,
		Companies:   companies,
		Officers:    officers,
		LegalCases:  legalCases,
		Contracts:   contracts,
		Vehicles:    vehicles,
		Addresses:   addresses,
		Links:       links,
		CreatedAt:   time.Now().UTC(),
	}
}

// CorrelateResults partitions a flat mixed-type result list by record
// variant, runs the four pairwise rules and returns the combined links
// sorted by confidence, highest first. Unlike BuildProfile this entry
// point owns presentation ordering. Vehicle records are accepted but
// never linked: no reliable cross-reference key exists for them.
func (c *Correlator) CorrelateResults(results []model.SearchResult) []EntityLink {
	var (
		companies  []model.Company
		officers   []model.Officer
		legalCases []model.LegalCase
		contracts  []model.Contract
	)
	for _, r := range results {
		switch rec := r.Record.(type) {
		case model.Company:
			companies = append(companies, rec)
		case model.Officer:
			officers = append(officers, rec)
		case model.LegalCase:
			legalCases = append(legalCases, rec)
		case model.Contract:
			contracts = append(contracts, rec)
		}
	}

	var links []EntityLink
	links = append(links, c.PersonCompanyLinks(officers, companies)...)
	links = append(links, c.CompanyContractLinks(companies, contracts)...)
	links = append(links, c.PersonLegalLinks(officers, legalCases)...)
	links = append(links, c.CompanyLegalLinks(companies, legalCases)...)

	sort.SliceStable(links, func(i, j int) bool {
		return links[i].Confidence > links[j].Confidence
	})

	return links
}
