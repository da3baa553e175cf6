package export

import (
	"html/template"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/uk-osint/nexus/internal/correlate"
	"github.com/uk-osint/nexus/internal/search"
)

var searchTemplate = template.Must(template.New("search").Funcs(template.FuncMap{
	"orDash":   orDash,
	"truncate": truncate,
	"value":    contractValue,
	"pct":      func(f float64) int { return int(f * 100) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>OSINT Report: {{.Result.Query}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; background: #f5f5f5; }
        .container { max-width: 1200px; margin: 0 auto; background: white; padding: 30px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1a365d; border-bottom: 3px solid #3182ce; padding-bottom: 10px; }
        h2 { color: #2d3748; margin-top: 30px; }
        table { width: 100%; border-collapse: collapse; margin: 15px 0; }
        th { background: #3182ce; color: white; padding: 12px; text-align: left; }
        td { padding: 10px; border-bottom: 1px solid #e2e8f0; }
        tr:hover { background: #f7fafc; }
        .meta { color: #718096; margin-bottom: 20px; }
        .status-active { color: #38a169; font-weight: bold; }
        .status-inactive { color: #e53e3e; }
        .error { background: #fff5f5; border-left: 4px solid #e53e3e; padding: 10px; margin: 10px 0; }
        .summary { background: #ebf8ff; padding: 15px; border-radius: 5px; margin-bottom: 20px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>OSINT Search Report</h1>
        <div class="meta">
            <strong>Query:</strong> {{.Result.Query}}<br>
            <strong>Generated:</strong> {{.Result.Timestamp.Format "2006-01-02 15:04:05 UTC"}}
        </div>
        <div class="summary">
            <strong>Total Results:</strong> {{.Total}}
        </div>
{{if .Result.Companies}}
        <h2>Companies</h2>
        <table>
            <tr><th>Number</th><th>Name</th><th>Status</th><th>Type</th><th>Created</th></tr>
{{range .Result.Companies}}            <tr>
                <td>{{.CompanyNumber}}</td>
                <td>{{.CompanyName}}</td>
                <td class="{{if .IsActive}}status-active{{else}}status-inactive{{end}}">{{orDash .CompanyStatus}}</td>
                <td>{{orDash .CompanyType}}</td>
                <td>{{orDash .DateOfCreation}}</td>
            </tr>
{{end}}        </table>
{{end}}{{if .Result.Officers}}
        <h2>Officers/Directors</h2>
        <table>
            <tr><th>Name</th><th>Role</th><th>Company</th><th>Appointed</th><th>Status</th></tr>
{{range .Result.Officers}}            <tr>
                <td>{{.Name}}</td>
                <td>{{.Role}}</td>
                <td>{{orDash .CompanyName}}</td>
                <td>{{orDash .AppointedOn}}</td>
                <td class="{{if .IsActive}}status-active{{else}}status-inactive{{end}}">{{if .IsActive}}Active{{else}}Resigned{{end}}</td>
            </tr>
{{end}}        </table>
{{end}}{{if .Result.Vehicles}}
        <h2>Vehicles</h2>
        <table>
            <tr><th>Registration</th><th>Make</th><th>Model</th><th>Colour</th><th>MOT Status</th><th>MOT Expiry</th></tr>
{{range .Result.Vehicles}}            <tr>
                <td>{{.RegistrationNumber}}</td>
                <td>{{orDash .Make}}</td>
                <td>{{orDash .Model}}</td>
                <td>{{orDash .Colour}}</td>
                <td class="{{if eq .MOTStatus "PASSED"}}status-active{{else}}status-inactive{{end}}">{{orDash .MOTStatus}}</td>
                <td>{{orDash .MOTExpiryDate}}</td>
            </tr>
{{end}}        </table>
{{end}}{{if .Result.LegalCases}}
        <h2>Legal Cases</h2>
        <table>
            <tr><th>Citation</th><th>Case Name</th><th>Court</th><th>Date</th><th>Link</th></tr>
{{range .Result.LegalCases}}            <tr>
                <td>{{orDash .NeutralCitation}}</td>
                <td>{{truncate .CaseName 60}}</td>
                <td>{{orDash .Court}}</td>
                <td>{{orDash .DateJudgment}}</td>
                <td>{{if .FullTextURL}}<a href="{{.FullTextURL}}" target="_blank">View</a>{{else}}-{{end}}</td>
            </tr>
{{end}}        </table>
{{end}}{{if .Result.Contracts}}
        <h2>Government Contracts</h2>
        <table>
            <tr><th>Title</th><th>Buyer</th><th>Supplier</th><th>Value</th><th>Status</th></tr>
{{range .Result.Contracts}}            <tr>
                <td>{{truncate .Title 50}}</td>
                <td>{{orDash .BuyerName}}</td>
                <td>{{orDash .SupplierName}}</td>
                <td>{{with value .}}£{{printf "%.0f" .}}{{else}}-{{end}}</td>
                <td>{{orDash .Status}}</td>
            </tr>
{{end}}        </table>
{{end}}{{if .Result.Errors}}
        <h2>Errors</h2>
{{range $source, $msg := .Result.Errors}}        <div class="error"><strong>{{$source}}:</strong> {{$msg}}</div>
{{end}}{{end}}
    </div>
</body>
</html>
`))

var profileTemplate = template.Must(template.New("profile").Funcs(template.FuncMap{
	"pct": func(f float64) int { return int(f * 100) },
	"band": func(f float64) string {
		switch {
		case f >= 0.8:
			return "high"
		case f >= 0.6:
			return "medium"
		default:
			return "low"
		}
	},
	"join": func(ss []string) string { return strings.Join(ss, ", ") },
}).Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Entity Profile: {{.Profile.PrimaryName}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; background: #f5f5f5; }
        .container { max-width: 1200px; margin: 0 auto; background: white; padding: 30px; border-radius: 8px; }
        h1 { color: #1a365d; }
        .meta { color: #718096; }
        .link { background: #f7fafc; padding: 10px; margin: 5px 0; border-radius: 5px; }
        .confidence { display: inline-block; padding: 2px 8px; border-radius: 3px; color: white; }
        .high { background: #38a169; }
        .medium { background: #d69e2e; }
        .low { background: #e53e3e; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Entity Profile: {{.Profile.PrimaryName}}</h1>
        <p class="meta">
            <strong>Type:</strong> {{.Profile.EntityType}} |
            <strong>Sources:</strong> {{join .Profile.Sources}} |
            <strong>Records:</strong> {{.Total}}
        </p>
        <h2>Correlations</h2>
{{range .Profile.Links}}        <div class="link">
            <span class="confidence {{band .Confidence}}">{{pct .Confidence}}%</span>
            {{.Source.Type}} → {{.Target.Type}} ({{.LinkType}})
        </div>
{{end}}    </div>
</body>
</html>
`))

func searchHTML(w io.Writer, res *search.Result) error {
	data := struct {
		Result *search.Result
		Total  int
	}{Result: res, Total: res.TotalResults()}
	return eris.Wrap(searchTemplate.Execute(w, data), "export: render html")
}

func profileHTML(w io.Writer, p *correlate.EntityProfile) error {
	data := struct {
		Profile *correlate.EntityProfile
		Total   int
	}{Profile: p, Total: p.TotalRecords()}
	return eris.Wrap(profileTemplate.Execute(w, data), "export: render profile html")
}
