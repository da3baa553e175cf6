package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/uk-osint/nexus/internal/correlate"
	"github.com/uk-osint/nexus/internal/model"
	"github.com/uk-osint/nexus/internal/search"
)

func sampleResult() *search.Result {
	return &search.Result{
		Query:     "acme widgets",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Companies: []model.Company{
			{
				Source:        "companies_house",
				CompanyNumber: "01234567",
				CompanyName:   "ACME WIDGETS LTD",
				CompanyStatus: "active",
				SICCodes:      []string{"62012", "62020"},
				RegisteredOffice: &model.Address{
					Line1:      "1 Widget Way",
					Locality:   "London",
					PostalCode: "EC1A 1BB",
				},
			},
		},
		Officers: []model.Officer{
			{Source: "companies_house", Name: "SMITH, Jane", Role: "director", AppointedOn: "2019-04-01"},
			{Source: "companies_house", Name: "JONES, Bob", Role: "secretary", ResignedOn: "2021-01-15"},
		},
		Contracts: []model.Contract{
			{
				Source: "contracts_finder", NoticeID: "n-1", Title: "Widget Supply Framework",
				BuyerName: "Cabinet Office", SupplierName: "Acme Widgets Ltd",
				ValueHigh: 150000, Status: "Awarded",
			},
		},
		Errors: map[string]string{"bailii": "status 503"},
	}
}

func TestParseFormat_Aliases(t *testing.T) {
	for in, want := range map[string]Format{
		"json":  FormatJSON,
		"md":    FormatMarkdown,
		"YAML":  FormatYAML,
		"excel": FormatXLSX,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestParseFormat_Unknown(t *testing.T) {
	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestWriteSearch_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSearch(&buf, sampleResult(), FormatJSON))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "acme widgets", doc["query"])
	assert.Equal(t, float64(4), doc["total_results"])
}

func TestWriteSearch_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSearch(&buf, sampleResult(), FormatYAML))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "acme widgets", doc["query"])
}

func TestWriteSearch_CSVSections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSearch(&buf, sampleResult(), FormatCSV))
	out := buf.String()

	assert.Contains(t, out, "=== COMPANIES ===")
	assert.Contains(t, out, "=== OFFICERS ===")
	assert.Contains(t, out, "=== CONTRACTS ===")
	assert.NotContains(t, out, "=== VEHICLES ===")
	assert.Contains(t, out, "01234567,ACME WIDGETS LTD,active")
	assert.Contains(t, out, "62012;62020")
	assert.Contains(t, out, `"SMITH, Jane",director`)
}

func TestWriteSearch_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSearch(&buf, sampleResult(), FormatMarkdown))
	out := buf.String()

	assert.Contains(t, out, "# OSINT Search Report: acme widgets")
	assert.Contains(t, out, "**Total Results:** 4")
	assert.Contains(t, out, "## Companies")
	assert.Contains(t, out, "| 01234567 | ACME WIDGETS LTD | active |")
	assert.Contains(t, out, "| SMITH, Jane | director | - | 2019-04-01 | Active |")
	assert.Contains(t, out, "| JONES, Bob | secretary | - | - | Resigned |")
	assert.Contains(t, out, "£150000")
	assert.Contains(t, out, "**Bailii**: status 503")
}

func TestWriteSearch_HTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSearch(&buf, sampleResult(), FormatHTML))
	out := buf.String()

	assert.Contains(t, out, "<title>OSINT Report: acme widgets</title>")
	assert.Contains(t, out, "<td>ACME WIDGETS LTD</td>")
	assert.Contains(t, out, `class="status-active"`)
	assert.Contains(t, out, "Cabinet Office")
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
}

func TestWriteSearch_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSearch(&buf, sampleResult(), FormatXLSX))
	// XLSX is a zip container.
	assert.Equal(t, []byte{'P', 'K'}, buf.Bytes()[:2])
}

func TestWriteSearch_XLSXEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	res := &search.Result{Query: "nothing", Timestamp: time.Now().UTC()}
	require.NoError(t, WriteSearch(&buf, res, FormatXLSX))
	assert.NotZero(t, buf.Len())
}

func TestWriteProfile_Markdown(t *testing.T) {
	company := model.Company{Source: "companies_house", CompanyNumber: "01234567", CompanyName: "ACME WIDGETS LTD"}
	officer := model.Officer{Source: "companies_house", Name: "SMITH, Jane", Role: "director", CompanyNumber: "01234567"}

	profile := &correlate.EntityProfile{
		PrimaryName: "ACME WIDGETS LTD",
		EntityType:  model.EntityTypeCompany,
		Sources:     []string{"companies_house"},
		Companies:   []model.Company{company},
		Officers:    []model.Officer{officer},
		Addresses:   []model.Address{{Line1: "1 Widget Way", PostalCode: "EC1A 1BB"}},
		Links: []correlate.EntityLink{
			{
				Source:     model.NewSearchResult(officer, "acme"),
				Target:     model.NewSearchResult(company, "acme"),
				LinkType:   correlate.LinkDirectorOf,
				Confidence: 1.0,
				Evidence:   []string{"Direct company number match: 01234567"},
			},
		},
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteProfile(&buf, profile, FormatMarkdown))
	out := buf.String()

	assert.Contains(t, out, "# Entity Profile: ACME WIDGETS LTD")
	assert.Contains(t, out, "**Type:** company")
	assert.Contains(t, out, "- 1 Widget Way, EC1A 1BB")
	assert.Contains(t, out, "**100%** person → company (director_of)")
	assert.Contains(t, out, "Direct company number match: 01234567")
}

func TestWriteProfile_TabularFormatsRejected(t *testing.T) {
	profile := &correlate.EntityProfile{PrimaryName: "x"}
	assert.Error(t, WriteProfile(&bytes.Buffer{}, profile, FormatCSV))
	assert.Error(t, WriteProfile(&bytes.Buffer{}, profile, FormatXLSX))
}

func TestSourceTitle(t *testing.T) {
	assert.Equal(t, "Companies House", sourceTitle("companies_house"))
	assert.Equal(t, "Bailii", sourceTitle("bailii"))
}
