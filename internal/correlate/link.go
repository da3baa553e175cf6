package correlate

import (
	"time"

	"github.com/uk-osint/nexus/internal/model"
)

// Link type labels. A person-company link may instead carry the
// officer's literal role string when the role is not "director".
const (
	LinkDirectorOf       = "director_of"
	LinkContractSupplier = "contract_supplier"
	LinkContractBuyer    = "contract_buyer"
	LinkPartyInCase      = "party_in_case"
)

// EntityLink asserts that two records from different sources likely
// describe the same real-world entity. Links are immutable once built;
// one is only materialized when its confidence clears the correlator's
// minimum threshold.
type EntityLink struct {
	Source     model.SearchResult `json:"source_entity"`
	Target     model.SearchResult `json:"target_entity"`
	LinkType   string             `json:"link_type"`
	Confidence float64            `json:"confidence"`
	Evidence   []string           `json:"evidence"`
}

// EntityProfile aggregates everything found for one query: the raw
// record lists per type, the union of contributing sources, a flattened
// address list and all links that cleared the threshold. Read-only
// after construction.
type EntityProfile struct {
	PrimaryName string             `json:"primary_name"`
	EntityType  model.EntityType   `json:"entity_type"`
	Sources     []string           `json:"sources"`
	Companies   []model.Company    `json:"companies"`
	Officers    []model.Officer    `json:"officers"`
	LegalCases  []model.LegalCase  `json:"legal_cases"`
	Contracts   []model.Contract   `json:"contracts"`
	Vehicles    []model.Vehicle    `json:"vehicles"`
	Addresses   []model.Address    `json:"addresses"`
	Links       []EntityLink       `json:"links"`
	CreatedAt   time.Time          `json:"created_at"`
}

// TotalRecords is the sum of the per-type list lengths.
func (p *EntityProfile) TotalRecords() int {
	return len(p.Companies) + len(p.Officers) + len(p.LegalCases) +
		len(p.Contracts) + len(p.Vehicles)
}
