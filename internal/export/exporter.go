// Package export renders search results and entity profiles to the
// formats the CLI and web server hand out: JSON, CSV, Markdown, HTML,
// YAML and XLSX.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/uk-osint/nexus/internal/correlate"
	"github.com/uk-osint/nexus/internal/model"
	"github.com/uk-osint/nexus/internal/search"
)

// Format is an output format name.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatYAML     Format = "yaml"
	FormatXLSX     Format = "xlsx"
)

// ParseFormat resolves a format name, accepting common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", eris.Errorf("export: unknown format %q", s)
}

var titleCaser = cases.Title(language.BritishEnglish)

// sourceTitle renders a source name like "companies_house" as a heading.
func sourceTitle(source string) string {
	return titleCaser.String(strings.ReplaceAll(source, "_", " "))
}

// WriteSearch renders a search result in the given format.
func WriteSearch(w io.Writer, res *search.Result, format Format) error {
	switch format {
	case FormatJSON:
		return searchJSON(w, res)
	case FormatCSV:
		return searchCSV(w, res)
	case FormatMarkdown:
		return searchMarkdown(w, res)
	case FormatHTML:
		return searchHTML(w, res)
	case FormatYAML:
		return searchYAML(w, res)
	case FormatXLSX:
		return searchXLSX(w, res)
	}
	return eris.Errorf("export: unsupported format %q", format)
}

// WriteProfile renders an entity profile. The tabular formats have no
// sensible profile shape and are rejected.
func WriteProfile(w io.Writer, p *correlate.EntityProfile, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(p), "export: encode profile json")
	case FormatYAML:
		return eris.Wrap(yaml.NewEncoder(w).Encode(p), "export: encode profile yaml")
	case FormatMarkdown:
		return profileMarkdown(w, p)
	case FormatHTML:
		return profileHTML(w, p)
	case FormatCSV, FormatXLSX:
		return eris.Errorf("export: format %q not supported for profiles", format)
	}
	return eris.Errorf("export: unsupported format %q", format)
}

func searchJSON(w io.Writer, res *search.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(searchDocument(res)), "export: encode json")
}

func searchYAML(w io.Writer, res *search.Result) error {
	return eris.Wrap(yaml.NewEncoder(w).Encode(searchDocument(res)), "export: encode yaml")
}

// searchDocument wraps a result with its derived totals for the
// structured formats.
func searchDocument(res *search.Result) map[string]any {
	return map[string]any{
		"query":         res.Query,
		"timestamp":     res.Timestamp,
		"total_results": res.TotalResults(),
		"result":        res,
	}
}

func searchCSV(w io.Writer, res *search.Result) error {
	cw := csv.NewWriter(w)

	section := func(name string, header []string) error {
		cw.Flush()
		if _, err := fmt.Fprintf(w, "=== %s ===\n", strings.ToUpper(name)); err != nil {
			return err
		}
		return cw.Write(header)
	}

	if len(res.Companies) > 0 {
		if err := section("companies", []string{
			"company_number", "company_name", "status", "type",
			"date_of_creation", "sic_codes", "address",
		}); err != nil {
			return eris.Wrap(err, "export: write csv")
		}
		for _, c := range res.Companies {
			addr := ""
			if c.RegisteredOffice != nil {
				addr = c.RegisteredOffice.String()
			}
			if err := cw.Write([]string{
				c.CompanyNumber, c.CompanyName, c.CompanyStatus, c.CompanyType,
				c.DateOfCreation, strings.Join(c.SICCodes, ";"), addr,
			}); err != nil {
				return eris.Wrap(err, "export: write csv")
			}
		}
	}

	if len(res.Officers) > 0 {
		if err := section("officers", []string{
			"name", "role", "company_name", "company_number",
			"appointed_on", "resigned_on", "nationality",
		}); err != nil {
			return eris.Wrap(err, "export: write csv")
		}
		for _, o := range res.Officers {
			if err := cw.Write([]string{
				o.Name, o.Role, o.CompanyName, o.CompanyNumber,
				o.AppointedOn, o.ResignedOn, o.Nationality,
			}); err != nil {
				return eris.Wrap(err, "export: write csv")
			}
		}
	}

	if len(res.Vehicles) > 0 {
		if err := section("vehicles", []string{
			"registration", "make", "model", "colour",
			"fuel_type", "year", "mot_status", "mot_expiry",
		}); err != nil {
			return eris.Wrap(err, "export: write csv")
		}
		for _, v := range res.Vehicles {
			if err := cw.Write([]string{
				v.RegistrationNumber, v.Make, v.Model, v.Colour,
				v.FuelType, fmt.Sprintf("%d", v.YearOfManufacture),
				v.MOTStatus, v.MOTExpiryDate,
			}); err != nil {
				return eris.Wrap(err, "export: write csv")
			}
		}
	}

	if len(res.LegalCases) > 0 {
		if err := section("legal cases", []string{
			"citation", "case_name", "court", "date", "url",
		}); err != nil {
			return eris.Wrap(err, "export: write csv")
		}
		for _, lc := range res.LegalCases {
			if err := cw.Write([]string{
				lc.NeutralCitation, lc.CaseName, lc.Court, lc.DateJudgment, lc.FullTextURL,
			}); err != nil {
				return eris.Wrap(err, "export: write csv")
			}
		}
	}

	if len(res.Contracts) > 0 {
		if err := section("contracts", []string{
			"notice_id", "title", "buyer", "supplier",
			"value", "status", "published_date",
		}); err != nil {
			return eris.Wrap(err, "export: write csv")
		}
		for _, c := range res.Contracts {
			if err := cw.Write([]string{
				c.NoticeID, c.Title, c.BuyerName, c.SupplierName,
				fmt.Sprintf("%.2f", contractValue(c)), c.Status, c.PublishedDate,
			}); err != nil {
				return eris.Wrap(err, "export: write csv")
			}
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: write csv")
}

func searchMarkdown(w io.Writer, res *search.Result) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# OSINT Search Report: %s\n\n", res.Query)
	fmt.Fprintf(&b, "**Generated:** %s\n", res.Timestamp.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "**Total Results:** %d\n\n", res.TotalResults())

	if len(res.Companies) > 0 {
		b.WriteString("## Companies\n\n")
		b.WriteString("| Number | Name | Status | Type | Created |\n")
		b.WriteString("|--------|------|--------|------|---------|\n")
		for _, c := range res.Companies {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				c.CompanyNumber, c.CompanyName, orDash(c.CompanyStatus),
				orDash(c.CompanyType), orDash(c.DateOfCreation))
		}
		b.WriteString("\n")
	}

	if len(res.Officers) > 0 {
		b.WriteString("## Officers/Directors\n\n")
		b.WriteString("| Name | Role | Company | Appointed | Status |\n")
		b.WriteString("|------|------|---------|-----------|--------|\n")
		for _, o := range res.Officers {
			status := "Active"
			if !o.IsActive() {
				status = "Resigned"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				o.Name, o.Role, orDash(o.CompanyName), orDash(o.AppointedOn), status)
		}
		b.WriteString("\n")
	}

	if len(res.Vehicles) > 0 {
		b.WriteString("## Vehicles\n\n")
		b.WriteString("| Registration | Make | Model | Colour | MOT Status | MOT Expiry |\n")
		b.WriteString("|--------------|------|-------|--------|------------|------------|\n")
		for _, v := range res.Vehicles {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				v.RegistrationNumber, orDash(v.Make), orDash(v.Model),
				orDash(v.Colour), orDash(v.MOTStatus), orDash(v.MOTExpiryDate))
		}
		b.WriteString("\n")
	}

	if len(res.LegalCases) > 0 {
		b.WriteString("## Legal Cases\n\n")
		b.WriteString("| Citation | Case Name | Court | Date |\n")
		b.WriteString("|----------|-----------|-------|------|\n")
		for _, lc := range res.LegalCases {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				orDash(lc.NeutralCitation), truncate(lc.CaseName, 50),
				orDash(lc.Court), orDash(lc.DateJudgment))
		}
		b.WriteString("\n")
	}

	if len(res.Contracts) > 0 {
		b.WriteString("## Government Contracts\n\n")
		b.WriteString("| Title | Buyer | Supplier | Value | Status |\n")
		b.WriteString("|-------|-------|----------|-------|--------|\n")
		for _, c := range res.Contracts {
			value := "-"
			if v := contractValue(c); v > 0 {
				value = fmt.Sprintf("£%.0f", v)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				truncate(c.Title, 40), orDash(c.BuyerName), orDash(c.SupplierName),
				value, orDash(c.Status))
		}
		b.WriteString("\n")
	}

	if len(res.Errors) > 0 {
		b.WriteString("## Errors\n\n")
		for source, msg := range res.Errors {
			fmt.Fprintf(&b, "- **%s**: %s\n", sourceTitle(source), msg)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return eris.Wrap(err, "export: write markdown")
}

func profileMarkdown(w io.Writer, p *correlate.EntityProfile) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Entity Profile: %s\n\n", p.PrimaryName)
	fmt.Fprintf(&b, "**Type:** %s\n", p.EntityType)
	fmt.Fprintf(&b, "**Sources:** %s\n", strings.Join(p.Sources, ", "))
	fmt.Fprintf(&b, "**Total Records:** %d\n", p.TotalRecords())
	fmt.Fprintf(&b, "**Generated:** %s\n\n", p.CreatedAt.Format("2006-01-02 15:04:05 UTC"))

	if len(p.Addresses) > 0 {
		b.WriteString("## Known Addresses\n\n")
		for _, addr := range p.Addresses {
			fmt.Fprintf(&b, "- %s\n", addr.String())
		}
		b.WriteString("\n")
	}

	if len(p.Links) > 0 {
		b.WriteString("## Cross-Source Correlations\n\n")
		for _, link := range p.Links {
			fmt.Fprintf(&b, "- **%d%%** %s → %s (%s)\n",
				int(link.Confidence*100), link.Source.Type(), link.Target.Type(), link.LinkType)
			for _, ev := range link.Evidence {
				fmt.Fprintf(&b, "  - %s\n", ev)
			}
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return eris.Wrap(err, "export: write profile markdown")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// contractValue picks the most informative figure a notice carries.
func contractValue(c model.Contract) float64 {
	if c.ValueHigh > 0 {
		return c.ValueHigh
	}
	return c.ValueLow
}
