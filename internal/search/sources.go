package search

import (
	"strings"

	"github.com/rotisserie/eris"
)

// SourceSet selects which data sources a search fans out to. It is a
// bitset so presets compose with | and &^.
type SourceSet uint32

const (
	CompaniesHouse SourceSet = 1 << iota
	MOTHistory
	BAILII
	ContractsFinder
	CharityCommission
	FCARegister
	DVLAVehicle
	ElectoralCommission
	PoliceData
	InsolvencyService
	DisqualifiedDirectors
	PSCRegister
	LandRegistry
	UKSanctions
	FoodStandards
	Gazette
	CQC
)

// Named presets for common investigation shapes.
const (
	Business           = CompaniesHouse | ContractsFinder | CharityCommission | FCARegister
	BusinessExtended   = Business | DisqualifiedDirectors | PSCRegister | Gazette
	Financial          = FCARegister | CompaniesHouse | UKSanctions
	Legal              = BAILII | Gazette | InsolvencyService
	Vehicles           = MOTHistory | DVLAVehicle
	Political          = ElectoralCommission
	Property           = LandRegistry
	Healthcare         = CQC | FoodStandards
	Regulatory         = UKSanctions | InsolvencyService | DisqualifiedDirectors
	PersonDueDiligence = CompaniesHouse | InsolvencyService | DisqualifiedDirectors |
		UKSanctions | Gazette | BAILII

	// AllOriginal is the first generation of sources, kept as a preset
	// for investigations that want to skip the newer registers.
	AllOriginal = CompaniesHouse | MOTHistory | BAILII | ContractsFinder |
		CharityCommission | FCARegister | DVLAVehicle | ElectoralCommission
	AllWithPolice = AllOriginal | PoliceData

	// All covers every source that accepts a free-text name query.
	// Police data and the company-number-keyed registers need a more
	// specific query, so they sit in AllExtended only.
	All = AllOriginal | InsolvencyService | LandRegistry | UKSanctions |
		FoodStandards | Gazette | CQC

	AllExtended = All | PoliceData | DisqualifiedDirectors | PSCRegister
)

var sourceNames = map[SourceSet]string{
	CompaniesHouse:        "companies_house",
	MOTHistory:            "mot_history",
	BAILII:                "bailii",
	ContractsFinder:       "contracts_finder",
	CharityCommission:     "charity_commission",
	FCARegister:           "fca_register",
	DVLAVehicle:           "dvla_vehicle",
	ElectoralCommission:   "electoral_commission",
	PoliceData:            "police_data",
	InsolvencyService:     "insolvency_service",
	DisqualifiedDirectors: "disqualified_directors",
	PSCRegister:           "psc_register",
	LandRegistry:          "land_registry",
	UKSanctions:           "uk_sanctions",
	FoodStandards:         "food_standards",
	Gazette:               "gazette",
	CQC:                   "cqc",
}

var presetNames = map[string]SourceSet{
	"all":                  All,
	"all_original":         AllOriginal,
	"all_with_police":      AllWithPolice,
	"all_extended":         AllExtended,
	"business":             Business,
	"business_extended":    BusinessExtended,
	"financial":            Financial,
	"legal":                Legal,
	"vehicles":             Vehicles,
	"political":            Political,
	"property":             Property,
	"healthcare":           Healthcare,
	"regulatory":           Regulatory,
	"person_due_diligence": PersonDueDiligence,
}

// Presets returns a copy of the preset table for listing.
func Presets() map[string]SourceSet {
	out := make(map[string]SourceSet, len(presetNames))
	for name, set := range presetNames {
		out[name] = set
	}
	return out
}

// Has reports whether every source in q is enabled.
func (s SourceSet) Has(q SourceSet) bool { return s&q == q }

// Names lists the enabled sources in flag declaration order.
func (s SourceSet) Names() []string {
	var names []string
	for bit := CompaniesHouse; bit <= CQC; bit <<= 1 {
		if s.Has(bit) {
			names = append(names, sourceNames[bit])
		}
	}
	return names
}

// String renders the set as a comma-joined source list.
func (s SourceSet) String() string {
	return strings.Join(s.Names(), ",")
}

// ParseSources resolves a comma-separated list of source names and
// preset names into a SourceSet.
func ParseSources(spec string) (SourceSet, error) {
	var set SourceSet
	for _, part := range strings.Split(spec, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if preset, ok := presetNames[name]; ok {
			set |= preset
			continue
		}
		found := false
		for bit, n := range sourceNames {
			if n == name {
				set |= bit
				found = true
				break
			}
		}
		if !found {
			return 0, eris.Errorf("search: unknown source %q", name)
		}
	}
	if set == 0 {
		return 0, eris.New("search: no sources selected")
	}
	return set, nil
}
