package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/uk-osint/nexus/internal/search"
)

// searchXLSX writes one sheet per non-empty entity list.
func searchXLSX(w io.Writer, res *search.Result) error {
	f := xlsx.NewFile()

	addSheet := func(name string, header []string, rows [][]string) error {
		sheet, err := f.AddSheet(name)
		if err != nil {
			return eris.Wrapf(err, "export: add sheet %s", name)
		}
		hr := sheet.AddRow()
		for _, h := range header {
			hr.AddCell().Value = h
		}
		for _, cells := range rows {
			row := sheet.AddRow()
			for _, c := range cells {
				row.AddCell().Value = c
			}
		}
		return nil
	}

	if len(res.Companies) > 0 {
		rows := make([][]string, 0, len(res.Companies))
		for _, c := range res.Companies {
			addr := ""
			if c.RegisteredOffice != nil {
				addr = c.RegisteredOffice.String()
			}
			rows = append(rows, []string{
				c.CompanyNumber, c.CompanyName, c.CompanyStatus, c.CompanyType,
				c.DateOfCreation, strings.Join(c.SICCodes, ";"), addr,
			})
		}
		if err := addSheet("Companies", []string{
			"Company Number", "Company Name", "Status", "Type",
			"Date of Creation", "SIC Codes", "Address",
		}, rows); err != nil {
			return err
		}
	}

	if len(res.Officers) > 0 {
		rows := make([][]string, 0, len(res.Officers))
		for _, o := range res.Officers {
			rows = append(rows, []string{
				o.Name, o.Role, o.CompanyName, o.CompanyNumber,
				o.AppointedOn, o.ResignedOn, o.Nationality,
			})
		}
		if err := addSheet("Officers", []string{
			"Name", "Role", "Company Name", "Company Number",
			"Appointed On", "Resigned On", "Nationality",
		}, rows); err != nil {
			return err
		}
	}

	if len(res.Vehicles) > 0 {
		rows := make([][]string, 0, len(res.Vehicles))
		for _, v := range res.Vehicles {
			rows = append(rows, []string{
				v.RegistrationNumber, v.Make, v.Model, v.Colour, v.FuelType,
				fmt.Sprintf("%d", v.YearOfManufacture), v.MOTStatus, v.MOTExpiryDate,
			})
		}
		if err := addSheet("Vehicles", []string{
			"Registration", "Make", "Model", "Colour", "Fuel Type",
			"Year", "MOT Status", "MOT Expiry",
		}, rows); err != nil {
			return err
		}
	}

	if len(res.LegalCases) > 0 {
		rows := make([][]string, 0, len(res.LegalCases))
		for _, lc := range res.LegalCases {
			rows = append(rows, []string{
				lc.NeutralCitation, lc.CaseName, lc.Court, lc.DateJudgment, lc.FullTextURL,
			})
		}
		if err := addSheet("Legal Cases", []string{
			"Citation", "Case Name", "Court", "Date", "URL",
		}, rows); err != nil {
			return err
		}
	}

	if len(res.Contracts) > 0 {
		rows := make([][]string, 0, len(res.Contracts))
		for _, c := range res.Contracts {
			rows = append(rows, []string{
				c.NoticeID, c.Title, c.BuyerName, c.SupplierName,
				fmt.Sprintf("%.2f", contractValue(c)), c.Status, c.PublishedDate,
			})
		}
		if err := addSheet("Contracts", []string{
			"Notice ID", "Title", "Buyer", "Supplier",
			"Value", "Status", "Published Date",
		}, rows); err != nil {
			return err
		}
	}

	// An empty result still produces a valid workbook.
	if len(f.Sheets) == 0 {
		if err := addSheet("Results", []string{"Query", "Total Results"},
			[][]string{{res.Query, "0"}}); err != nil {
			return err
		}
	}

	return eris.Wrap(f.Write(w), "export: write xlsx")
}
