package correlate

// Weights holds the tuning constants of the pairwise rules. The
// defaults are deliberate heuristics, not calibrated probabilities;
// they are configuration so behavior changes stay visible in one place.
type Weights struct {
	// CompanyNameThreshold gates the officer↔company name comparison.
	CompanyNameThreshold float64 `yaml:"company_name_threshold" mapstructure:"company_name_threshold"`

	// ContractNameThreshold gates supplier and buyer name comparisons.
	ContractNameThreshold float64 `yaml:"contract_name_threshold" mapstructure:"contract_name_threshold"`

	// BuyerDiscount scales a buyer-name match down relative to a
	// supplier-name match: the queried entity is statistically more
	// likely to be a supplier than a public-sector buyer.
	BuyerDiscount float64 `yaml:"buyer_discount" mapstructure:"buyer_discount"`

	// PersonPartyThreshold gates person↔case party-name comparisons.
	PersonPartyThreshold float64 `yaml:"person_party_threshold" mapstructure:"person_party_threshold"`

	// CompanyPartyThreshold gates company↔case party-name comparisons.
	// Looser than the person threshold since normalization strips more
	// of a corporate name.
	CompanyPartyThreshold float64 `yaml:"company_party_threshold" mapstructure:"company_party_threshold"`

	// CaseTitleGate is the similarity a name must reach against a case
	// title before the title heuristics run at all. It is a gate, not a
	// confidence value.
	CaseTitleGate float64 `yaml:"case_title_gate" mapstructure:"case_title_gate"`

	// PersonTitleConfidence is the flat confidence assigned when a
	// person's surname appears verbatim in a case title.
	PersonTitleConfidence float64 `yaml:"person_title_confidence" mapstructure:"person_title_confidence"`

	// CompanyTitleDiscount scales the raw title similarity for the
	// company↔case rule.
	CompanyTitleDiscount float64 `yaml:"company_title_discount" mapstructure:"company_title_discount"`
}

// DefaultWeights returns the standard rule tuning.
func DefaultWeights() Weights {
	return Weights{
		CompanyNameThreshold:  0.8,
		ContractNameThreshold: 0.7,
		BuyerDiscount:         0.9,
		PersonPartyThreshold:  0.8,
		CompanyPartyThreshold: 0.7,
		CaseTitleGate:         0.5,
		PersonTitleConfidence: 0.75,
		CompanyTitleDiscount:  0.9,
	}
}
