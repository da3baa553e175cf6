// Package search fans a single query out across every enabled UK public
// data source and collects the results into one response. Source
// failures never fail the search as a whole; they are reported
// per-source so partial results stay usable.
package search

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/uk-osint/nexus/internal/model"
	"github.com/uk-osint/nexus/internal/resilience"
	"github.com/uk-osint/nexus/pkg/bailii"
	"github.com/uk-osint/nexus/pkg/charity"
	"github.com/uk-osint/nexus/pkg/companieshouse"
	"github.com/uk-osint/nexus/pkg/contractsfinder"
	"github.com/uk-osint/nexus/pkg/cqc"
	"github.com/uk-osint/nexus/pkg/dvla"
	"github.com/uk-osint/nexus/pkg/electoral"
	"github.com/uk-osint/nexus/pkg/fca"
	"github.com/uk-osint/nexus/pkg/foodstandards"
	"github.com/uk-osint/nexus/pkg/gazette"
	"github.com/uk-osint/nexus/pkg/insolvency"
	"github.com/uk-osint/nexus/pkg/landregistry"
	"github.com/uk-osint/nexus/pkg/mot"
	"github.com/uk-osint/nexus/pkg/police"
	"github.com/uk-osint/nexus/pkg/sanctions"
)

const (
	// DefaultMaxResultsPerSource caps results requested from each source.
	DefaultMaxResultsPerSource = 20

	// DefaultTimeout bounds the whole fan-out.
	DefaultTimeout = 30 * time.Second
)

// Clients carries one client per data source. A nil client disables its
// source even when the source set selects it.
type Clients struct {
	CompaniesHouse  companieshouse.Client
	MOT             mot.Client
	DVLA            dvla.Client
	BAILII          bailii.Client
	ContractsFinder contractsfinder.Client
	Charity         charity.Client
	FCA             fca.Client
	Electoral       electoral.Client
	Police          police.Client
	Insolvency      insolvency.Client
	LandRegistry    landregistry.Client
	Sanctions       sanctions.Client
	FoodStandards   foodstandards.Client
	Gazette         gazette.Client
	CQC             cqc.Client
}

// Options controls one unified search.
type Options struct {
	Sources             SourceSet
	MaxResultsPerSource int
	IncludeOfficers     bool
	Timeout             time.Duration
}

// DefaultOptions searches every free-text source with officer lookups on.
func DefaultOptions() Options {
	return Options{
		Sources:             All,
		MaxResultsPerSource: DefaultMaxResultsPerSource,
		IncludeOfficers:     true,
		Timeout:             DefaultTimeout,
	}
}

// Result aggregates everything a unified search found. The five core
// entity lists feed the correlation engine; the remaining lists carry
// source-specific records as-is.
type Result struct {
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`

	Companies  []model.Company   `json:"companies,omitempty"`
	Officers   []model.Officer   `json:"officers,omitempty"`
	Vehicles   []model.Vehicle   `json:"vehicles,omitempty"`
	LegalCases []model.LegalCase `json:"legal_cases,omitempty"`
	Contracts  []model.Contract  `json:"contracts,omitempty"`

	Charities             []charity.Charity                    `json:"charities,omitempty"`
	FCAFirms              []fca.Firm                           `json:"fca_firms,omitempty"`
	FCAIndividuals        []fca.Individual                     `json:"fca_individuals,omitempty"`
	Donations             []electoral.Donation                 `json:"donations,omitempty"`
	Crimes                []police.Crime                       `json:"crimes,omitempty"`
	InsolvencyRecords     []insolvency.Record                  `json:"insolvency_records,omitempty"`
	DisqualifiedDirectors []companieshouse.DisqualifiedOfficer `json:"disqualified_directors,omitempty"`
	PropertyTransactions  []landregistry.Transaction           `json:"property_transactions,omitempty"`
	SanctionedEntities    []sanctions.Entity                   `json:"sanctioned_entities,omitempty"`
	FoodEstablishments    []foodstandards.Establishment        `json:"food_establishments,omitempty"`
	GazetteNotices        []gazette.Notice                     `json:"gazette_notices,omitempty"`
	CQCLocations          []cqc.Location                       `json:"cqc_locations,omitempty"`

	// Errors maps a source name to what went wrong there.
	Errors map[string]string `json:"errors,omitempty"`
}

// TotalResults counts results across every list.
func (r *Result) TotalResults() int {
	return len(r.Companies) + len(r.Officers) + len(r.Vehicles) +
		len(r.LegalCases) + len(r.Contracts) + len(r.Charities) +
		len(r.FCAFirms) + len(r.FCAIndividuals) + len(r.Donations) +
		len(r.Crimes) + len(r.InsolvencyRecords) + len(r.DisqualifiedDirectors) +
		len(r.PropertyTransactions) + len(r.SanctionedEntities) +
		len(r.FoodEstablishments) + len(r.GazetteNotices) + len(r.CQCLocations)
}

// HasResults reports whether anything at all was found.
func (r *Result) HasResults() bool { return r.TotalResults() > 0 }

// Records converts the five core entity lists into search results for
// correlation. Source-specific lists are not correlated.
func (r *Result) Records() []model.SearchResult {
	out := make([]model.SearchResult, 0,
		len(r.Companies)+len(r.Officers)+len(r.Vehicles)+len(r.LegalCases)+len(r.Contracts))
	for _, c := range r.Companies {
		out = append(out, model.NewSearchResult(c, r.Query))
	}
	for _, o := range r.Officers {
		out = append(out, model.NewSearchResult(o, r.Query))
	}
	for _, v := range r.Vehicles {
		out = append(out, model.NewSearchResult(v, r.Query))
	}
	for _, lc := range r.LegalCases {
		out = append(out, model.NewSearchResult(lc, r.Query))
	}
	for _, ct := range r.Contracts {
		out = append(out, model.NewSearchResult(ct, r.Query))
	}
	return out
}

// Engine runs unified searches against a fixed set of clients. Each
// source call goes through a per-source circuit breaker and a retry
// with backoff, so a flapping source degrades to a per-source error
// instead of burning the whole fan-out budget.
type Engine struct {
	clients  Clients
	retry    resilience.RetryConfig
	breakers *resilience.SourceBreakers
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRetry overrides the per-source retry policy.
func WithRetry(cfg resilience.RetryConfig) EngineOption {
	return func(e *Engine) { e.retry = cfg }
}

// WithBreakers overrides the per-source circuit breaker registry.
func WithBreakers(sb *resilience.SourceBreakers) EngineOption {
	return func(e *Engine) { e.breakers = sb }
}

// NewEngine creates a search engine over the given clients.
func NewEngine(clients Clients, opts ...EngineOption) *Engine {
	e := &Engine{
		clients:  clients,
		breakers: resilience.NewSourceBreakers(resilience.DefaultCircuitBreakerConfig()),
	}
	// Interactive searches have a hard deadline, so retries are few
	// and fast.
	e.retry = resilience.RetryConfig{
		MaxAttempts:    2,
		InitialBackoff: 250 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.25,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Search queries every enabled source concurrently and merges the
// results. A per-source failure is recorded in Result.Errors and leaves
// that source's lists empty; sibling sources run to completion.
func (e *Engine) Search(ctx context.Context, query string, opts Options) (*Result, error) {
	if opts.MaxResultsPerSource <= 0 {
		opts.MaxResultsPerSource = DefaultMaxResultsPerSource
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	searchesTotal.Inc()

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	result := &Result{
		Query:     query,
		Timestamp: time.Now().UTC(),
		Errors:    make(map[string]string),
	}

	var mu sync.Mutex
	var g errgroup.Group

	// run executes one per-source query. Errors land in the result
	// instead of cancelling siblings, so the group error is always nil.
	run := func(source string, fn func(ctx context.Context) error) {
		g.Go(func() error {
			start := time.Now()
			err := e.breakers.Get(source).Execute(ctx, func(ctx context.Context) error {
				return resilience.Do(ctx, e.retry, fn)
			})
			sourceQueryDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
			if err != nil {
				sourceQueriesTotal.WithLabelValues(source, "error").Inc()
				zap.L().Warn("source query failed",
					zap.String("source", source),
					zap.Error(err))
				mu.Lock()
				result.Errors[source] = err.Error()
				mu.Unlock()
				return nil
			}
			sourceQueriesTotal.WithLabelValues(source, "ok").Inc()
			return nil
		})
	}

	if opts.Sources.Has(CompaniesHouse) && e.clients.CompaniesHouse != nil {
		run("companies_house", func(ctx context.Context) error {
			companies, err := e.clients.CompaniesHouse.SearchCompanies(ctx, query, opts.MaxResultsPerSource)
			if err != nil {
				return err
			}
			mu.Lock()
			for _, c := range companies {
				result.Companies = append(result.Companies, companyFromCH(c))
			}
			mu.Unlock()
			return nil
		})
		if opts.IncludeOfficers {
			run("companies_house_officers", func(ctx context.Context) error {
				officers, err := e.clients.CompaniesHouse.SearchOfficers(ctx, query, opts.MaxResultsPerSource)
				if err != nil {
					return err
				}
				mu.Lock()
				for _, o := range officers {
					result.Officers = append(result.Officers, officerFromCH(o))
				}
				mu.Unlock()
				return nil
			})
		}
	}

	if opts.Sources.Has(MOTHistory) && e.clients.MOT != nil {
		if reg, ok := registrationQuery(query); ok {
			run("mot_history", func(ctx context.Context) error {
				vehicle, err := e.clients.MOT.History(ctx, reg)
				if errors.Is(err, mot.ErrNotFound) {
					// Name queries can look like registrations; a miss
					// is not an error.
					return nil
				}
				if err != nil {
					return err
				}
				mu.Lock()
				result.Vehicles = append(result.Vehicles, vehicleFromMOT(*vehicle))
				mu.Unlock()
				return nil
			})
		}
	}

	if opts.Sources.Has(DVLAVehicle) && e.clients.DVLA != nil {
		if reg, ok := registrationQuery(query); ok {
			run("dvla_vehicle", func(ctx context.Context) error {
				vehicle, err := e.clients.DVLA.Lookup(ctx, reg)
				if errors.Is(err, dvla.ErrNotFound) {
					return nil
				}
				if err != nil {
					return err
				}
				mu.Lock()
				result.Vehicles = append(result.Vehicles, vehicleFromDVLA(*vehicle))
				mu.Unlock()
				return nil
			})
		}
	}

	if opts.Sources.Has(BAILII) && e.clients.BAILII != nil {
		run("bailii", func(ctx context.Context) error {
			cases, err := e.clients.BAILII.Search(ctx, query, opts.MaxResultsPerSource)
			if err != nil {
				return err
			}
			mu.Lock()
			for _, c := range cases {
				result.LegalCases = append(result.LegalCases, legalCaseFromBAILII(c))
			}
			mu.Unlock()
			return nil
		})
	}

	if opts.Sources.Has(ContractsFinder) && e.clients.ContractsFinder != nil {
		run("contracts_finder", func(ctx context.Context) error {
			notices, err := e.clients.ContractsFinder.SearchNotices(ctx, query, opts.MaxResultsPerSource)
			if err != nil {
				return err
			}
			mu.Lock()
			for _, n := range notices {
				result.Contracts = append(result.Contracts, contractFromNotice(n))
			}
			mu.Unlock()
			return nil
		})
	}

	if opts.Sources.Has(CharityCommission) && e.clients.Charity != nil {
		run("charity_commission", func(ctx context.Context) error {
			charities, err := e.clients.Charity.SearchCharities(ctx, query, opts.MaxResultsPerSource)
			if err != nil {
				return err
			}
			mu.Lock()
			result.Charities = append(result.Charities, charities...)
			mu.Unlock()
			return nil
		})
	}

	if opts.Sources.Has(FCARegister) && e.clients.FCA != nil {
		run("fca_register", func(ctx context.Context) error {
			firms, err := e.clients.FCA.SearchFirms(ctx, query, opts.MaxResultsPerSource)
			if err != nil {
				return err
			}
			mu.Lock()
			result.FCAFirms = append(result.FCAFirms, firms...)
			mu.Unlock()
			return nil
		})
		if opts.IncludeOfficers {
			run("fca_register_individuals", func(ctx context.Context) error {
				individuals, err := e.clients.FCA.SearchIndividuals(ctx, query, opts.MaxResultsPerSource)
				if err != nil {
					return err
				}
				mu.Lock()
				result.FCAIndividuals = append(result.FCAIndividuals, individuals...)
				mu.Unlock()
				return nil
			})
		}
	}

	if opts.Sources.Has(ElectoralCommission) && e.clients.Electoral != nil {
		run("electoral_commission", func(ctx context.Context) error {
			donations, err := e.clients.Electoral.SearchDonations(ctx, query, opts.MaxResultsPerSource)
			if err != nil {
				return err
			}
			mu.Lock()
			result.Donations = append(result.Donations, donations...)
			mu.Unlock()
			return nil
		})
	}

	if opts.Sources.Has(PoliceData) && e.clients.Police != nil {
		if looksLikePostcode(query) {
			run("police_data", func(ctx context.Context) error {
				crimes, err := e.clients.Police.CrimesByPostcode(ctx, query, "")
				if err != nil {
					return err
				}
				mu.Lock()
				result.Crimes = append(result.Crimes, crimes...)
				mu.Unlock()
				return nil
			})
		}
	}

	if opts.Sources.Has(InsolvencyService) && e.clients.Insolvency != nil {
		run("insolvency_service", func(ctx context.Context) error {
			surname, forenames := splitPersonName(query)
			records, err := e.clients.Insolvency.SearchByName(ctx, surname, forenames)
			if err != nil {
				return err
			}
			mu.Lock()
			result.InsolvencyRecords = append(result.InsolvencyRecords, records...)
			mu.Unlock()
			return nil
		})
	}

	if opts.Sources.Has(DisqualifiedDirectors) && e.clients.CompaniesHouse != nil {
		run("disqualified_directors", func(ctx context.Context) error {
			directors, err := e.clients.CompaniesHouse.SearchDisqualifiedOfficers(ctx, query, opts.MaxResultsPerSource)
			if err != nil {
				return err
			}
			mu.Lock()
			result.DisqualifiedDirectors = append(result.DisqualifiedDirectors, directors...)
			mu.Unlock()
			return nil
		})
	}

	// PSC lookups are keyed by company number, not free text, so the
	// PSCRegister flag has no fan-out here.

	if opts.Sources.Has(LandRegistry) && e.clients.LandRegistry != nil {
		if looksLikePostcode(query) {
			run("land_registry", func(ctx context.Context) error {
				txs, err := e.clients.LandRegistry.TransactionsByPostcode(ctx, query, opts.MaxResultsPerSource)
				if err != nil {
					return err
				}
				mu.Lock()
				result.PropertyTransactions = append(result.PropertyTransactions, txs...)
				mu.Unlock()
				return nil
			})
		}
	}

	if opts.Sources.Has(UKSanctions) && e.clients.Sanctions != nil {
		run("uk_sanctions", func(ctx context.Context) error {
			entities, err := e.clients.Sanctions.Search(ctx, query)
			if err != nil {
				return err
			}
			mu.Lock()
			result.SanctionedEntities = append(result.SanctionedEntities, entities...)
			mu.Unlock()
			return nil
		})
	}

	if opts.Sources.Has(FoodStandards) && e.clients.FoodStandards != nil {
		run("food_standards", func(ctx context.Context) error {
			establishments, err := e.clients.FoodStandards.SearchEstablishments(ctx, query, opts.MaxResultsPerSource)
			if err != nil {
				return err
			}
			mu.Lock()
			result.FoodEstablishments = append(result.FoodEstablishments, establishments...)
			mu.Unlock()
			return nil
		})
	}

	if opts.Sources.Has(Gazette) && e.clients.Gazette != nil {
		run("gazette", func(ctx context.Context) error {
			notices, err := e.clients.Gazette.SearchNotices(ctx, query, opts.MaxResultsPerSource)
			if err != nil {
				return err
			}
			mu.Lock()
			result.GazetteNotices = append(result.GazetteNotices, notices...)
			mu.Unlock()
			return nil
		})
	}

	if opts.Sources.Has(CQC) && e.clients.CQC != nil {
		run("cqc", func(ctx context.Context) error {
			locations, err := e.clients.CQC.SearchLocations(ctx, query, opts.MaxResultsPerSource)
			if err != nil {
				return err
			}
			mu.Lock()
			result.CQCLocations = append(result.CQCLocations, locations...)
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return result, nil
}

// registrationQuery reports whether the query looks like a UK vehicle
// registration: 2 to 8 alphanumeric characters once spaces are removed.
func registrationQuery(query string) (string, bool) {
	clean := strings.ToUpper(strings.ReplaceAll(query, " ", ""))
	if len(clean) < 2 || len(clean) > 8 || !isAlnum(clean) {
		return "", false
	}
	return clean, true
}

// looksLikePostcode is a loose UK postcode gate: 5 to 8 alphanumeric
// characters once spaces are removed.
func looksLikePostcode(query string) bool {
	clean := strings.ReplaceAll(query, " ", "")
	return len(clean) >= 5 && len(clean) <= 8 && isAlnum(clean)
}

func isAlnum(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}

// splitPersonName splits a free-text name into (surname, forenames) for
// registers indexed by surname. A single token is used as the surname.
func splitPersonName(query string) (surname, forenames string) {
	parts := strings.Fields(query)
	if len(parts) < 2 {
		return strings.TrimSpace(query), ""
	}
	return parts[len(parts)-1], strings.Join(parts[:len(parts)-1], " ")
}

func companyFromCH(c companieshouse.Company) model.Company {
	out := model.Company{
		Source:          "companies_house",
		CompanyNumber:   c.CompanyNumber,
		CompanyName:     c.Name(),
		CompanyStatus:   c.CompanyStatus,
		CompanyType:     c.CompanyType,
		DateOfCreation:  c.DateOfCreation,
		DateOfCessation: c.DateOfCessation,
		SICCodes:        c.SICCodes,
	}
	if c.Address != nil {
		out.RegisteredOffice = addressFromCH(c.Address)
	}
	return out
}

func officerFromCH(o companieshouse.Officer) model.Officer {
	out := model.Officer{
		Source:      "companies_house",
		Name:        o.DisplayName(),
		Role:        o.OfficerRole,
		AppointedOn: o.AppointedOn,
		ResignedOn:  o.ResignedOn,
		Nationality: o.Nationality,
		Occupation:  o.Occupation,
	}
	if o.Address != nil {
		out.Address = addressFromCH(o.Address)
	}
	if o.AppointedTo != nil {
		out.CompanyNumber = o.AppointedTo.CompanyNumber
		out.CompanyName = o.AppointedTo.CompanyName
	}
	return out
}

func addressFromCH(a *companieshouse.Address) *model.Address {
	return &model.Address{
		Line1:      a.AddressLine1,
		Line2:      a.AddressLine2,
		Locality:   a.Locality,
		Region:     a.Region,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func vehicleFromMOT(v mot.Vehicle) model.Vehicle {
	year, _ := strconv.Atoi(v.ManufactureYear)
	out := model.Vehicle{
		Source:             "mot_history",
		RegistrationNumber: v.Registration,
		Make:               v.Make,
		Model:              v.Model,
		Colour:             v.PrimaryColour,
		FuelType:           v.FuelType,
		YearOfManufacture:  year,
	}
	if len(v.MOTTests) > 0 {
		out.MOTStatus = v.MOTTests[0].TestResult
		out.MOTExpiryDate = v.MOTTests[0].ExpiryDate
	}
	return out
}

func vehicleFromDVLA(v dvla.Vehicle) model.Vehicle {
	return model.Vehicle{
		Source:             "dvla_vehicle",
		RegistrationNumber: v.RegistrationNumber,
		Make:               v.Make,
		Colour:             v.Colour,
		FuelType:           v.FuelType,
		YearOfManufacture:  v.YearOfManufacture,
		TaxStatus:          v.TaxStatus,
		TaxDueDate:         v.TaxDueDate,
		MOTStatus:          v.MOTStatus,
		MOTExpiryDate:      v.MOTExpiryDate,
		CO2Emissions:       v.CO2Emissions,
	}
}

func legalCaseFromBAILII(c bailii.Case) model.LegalCase {
	return model.LegalCase{
		Source:          "bailii",
		CaseID:          c.CaseID,
		NeutralCitation: c.NeutralCitation,
		CaseName:        c.CaseName,
		Court:           c.Court,
		Parties:         c.Parties,
		FullTextURL:     c.FullTextURL,
	}
}

func contractFromNotice(n contractsfinder.Notice) model.Contract {
	return model.Contract{
		Source:        "contracts_finder",
		NoticeID:      n.ID,
		Title:         n.Title,
		Description:   n.Description,
		PublishedDate: n.PublishedDate,
		ValueLow:      n.ValueLow,
		ValueHigh:     n.ValueHigh,
		BuyerName:     n.Organisation,
		SupplierName:  n.AwardedSupplier,
		AwardedDate:   n.AwardedDate,
		Status:        n.Status,
		Region:        n.Region,
	}
}
