package model

import (
	"strings"
	"time"
)

// EntityType is the coarse classification of a record.
type EntityType string

const (
	EntityTypePerson    EntityType = "person"
	EntityTypeCompany   EntityType = "company"
	EntityTypeVehicle   EntityType = "vehicle"
	EntityTypeProperty  EntityType = "property"
	EntityTypeLegalCase EntityType = "legal_case"
	EntityTypeContract  EntityType = "contract"
)

// Record is implemented by every entity variant that can appear in a
// search result. The entity type is derived from the concrete type, so
// a type tag can never disagree with the payload it describes.
type Record interface {
	EntityType() EntityType
	RecordSource() string
	DisplayName() string
}

// Address is a UK postal address. Any component may be empty.
type Address struct {
	Line1      string `json:"address_line_1,omitempty"`
	Line2      string `json:"address_line_2,omitempty"`
	Locality   string `json:"locality,omitempty"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// String joins the present components with commas, postcode last.
func (a Address) String() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Line1, a.Line2, a.Locality, a.Region, a.PostalCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Company is a UK registered company.
type Company struct {
	Source           string   `json:"source"`
	CompanyNumber    string   `json:"company_number"`
	CompanyName      string   `json:"company_name"`
	CompanyStatus    string   `json:"company_status,omitempty"`
	CompanyType      string   `json:"company_type,omitempty"`
	DateOfCreation   string   `json:"date_of_creation,omitempty"`
	DateOfCessation  string   `json:"date_of_cessation,omitempty"`
	RegisteredOffice *Address `json:"registered_office_address,omitempty"`
	SICCodes         []string `json:"sic_codes,omitempty"`
	PreviousNames    []string `json:"previous_names,omitempty"`
	HasCharges       bool     `json:"has_charges,omitempty"`
	HasInsolvency    bool     `json:"has_insolvency_history,omitempty"`
}

func (c Company) EntityType() EntityType { return EntityTypeCompany }
func (c Company) RecordSource() string   { return c.Source }
func (c Company) DisplayName() string    { return c.CompanyName }

// IsActive reports whether the company is listed as active on the register.
func (c Company) IsActive() bool {
	return strings.EqualFold(c.CompanyStatus, "active")
}

// Officer is a company officer (director, secretary, etc.) and doubles
// as the person variant for correlation.
type Officer struct {
	Source        string   `json:"source"`
	OfficerID     string   `json:"officer_id,omitempty"`
	Name          string   `json:"name"`
	Role          string   `json:"role"`
	AppointedOn   string   `json:"appointed_on,omitempty"`
	ResignedOn    string   `json:"resigned_on,omitempty"`
	Nationality   string   `json:"nationality,omitempty"`
	Occupation    string   `json:"occupation,omitempty"`
	Address       *Address `json:"address,omitempty"`
	CompanyNumber string   `json:"company_number,omitempty"`
	CompanyName   string   `json:"company_name,omitempty"`
}

func (o Officer) EntityType() EntityType { return EntityTypePerson }
func (o Officer) RecordSource() string   { return o.Source }
func (o Officer) DisplayName() string    { return o.Name }

// IsActive reports whether the appointment is current.
func (o Officer) IsActive() bool { return o.ResignedOn == "" }

// Vehicle is a UK registered vehicle from DVLA or the MOT history service.
type Vehicle struct {
	Source             string `json:"source"`
	RegistrationNumber string `json:"registration_number"`
	Make               string `json:"make,omitempty"`
	Model              string `json:"model,omitempty"`
	Colour             string `json:"colour,omitempty"`
	FuelType           string `json:"fuel_type,omitempty"`
	YearOfManufacture  int    `json:"year_of_manufacture,omitempty"`
	TaxStatus          string `json:"tax_status,omitempty"`
	TaxDueDate         string `json:"tax_due_date,omitempty"`
	MOTStatus          string `json:"mot_status,omitempty"`
	MOTExpiryDate      string `json:"mot_expiry_date,omitempty"`
	CO2Emissions       int    `json:"co2_emissions,omitempty"`
}

func (v Vehicle) EntityType() EntityType { return EntityTypeVehicle }
func (v Vehicle) RecordSource() string   { return v.Source }
func (v Vehicle) DisplayName() string    { return v.RegistrationNumber }

// LegalCase is a court judgment from BAILII or another legal source.
type LegalCase struct {
	Source          string   `json:"source"`
	CaseID          string   `json:"case_id,omitempty"`
	NeutralCitation string   `json:"neutral_citation,omitempty"`
	CaseName        string   `json:"case_name"`
	Court           string   `json:"court,omitempty"`
	DateJudgment    string   `json:"date_judgment,omitempty"`
	Judges          []string `json:"judges,omitempty"`
	Parties         []string `json:"parties,omitempty"`
	Summary         string   `json:"summary,omitempty"`
	FullTextURL     string   `json:"full_text_url,omitempty"`
}

func (l LegalCase) EntityType() EntityType { return EntityTypeLegalCase }
func (l LegalCase) RecordSource() string   { return l.Source }
func (l LegalCase) DisplayName() string    { return l.CaseName }

// Contract is a public procurement notice from Contracts Finder.
type Contract struct {
	Source        string  `json:"source"`
	NoticeID      string  `json:"notice_id"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	PublishedDate string  `json:"published_date,omitempty"`
	ValueLow      float64 `json:"value_low,omitempty"`
	ValueHigh     float64 `json:"value_high,omitempty"`
	Currency      string  `json:"currency,omitempty"`
	BuyerName     string  `json:"buyer_name,omitempty"`
	SupplierName  string  `json:"supplier_name,omitempty"`
	AwardedDate   string  `json:"awarded_date,omitempty"`
	Status        string  `json:"status,omitempty"`
	Region        string  `json:"region,omitempty"`
	URL           string  `json:"url,omitempty"`
}

func (c Contract) EntityType() EntityType { return EntityTypeContract }
func (c Contract) RecordSource() string   { return c.Source }
func (c Contract) DisplayName() string    { return c.Title }

// SearchResult tags a record with how it was found. The entity type is
// always read off the record itself.
type SearchResult struct {
	Source       string    `json:"source"`
	Record       Record    `json:"record"`
	MatchedQuery string    `json:"matched_query"`
	Confidence   float64   `json:"confidence"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewSearchResult wraps a record for correlation and display.
func NewSearchResult(rec Record, matchedQuery string) SearchResult {
	return SearchResult{
		Source:       rec.RecordSource(),
		Record:       rec,
		MatchedQuery: matchedQuery,
		Confidence:   1.0,
		Timestamp:    time.Now().UTC(),
	}
}

// Type returns the entity type of the wrapped record.
func (r SearchResult) Type() EntityType { return r.Record.EntityType() }
