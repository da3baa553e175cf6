package correlate

import (
	"fmt"
	"strings"

	"github.com/uk-osint/nexus/internal/model"
)

// PersonCompanyLinks scores every officer against every company. A
// shared company number is a direct identifier match and pins
// confidence at 1.0; otherwise a sufficiently similar company name on
// the appointment carries the score. The link type is the officer's
// literal role, with "director" rewritten to the director_of label.
func (c *Correlator) PersonCompanyLinks(officers []model.Officer, companies []model.Company) []EntityLink {
	var links []EntityLink

	for _, officer := range officers {
		for _, company := range companies {
			confidence := 0.0
			var evidence []string

			if officer.CompanyNumber != "" && company.CompanyNumber != "" &&
				officer.CompanyNumber == company.CompanyNumber {
				confidence = 1.0
				evidence = append(evidence,
					fmt.Sprintf("Direct company number match: %s", officer.CompanyNumber))
			}

			if officer.CompanyName != "" && company.CompanyName != "" {
				sim := NameSimilarity(officer.CompanyName, company.CompanyName)
				if sim > c.weights.CompanyNameThreshold {
					confidence = max(confidence, sim)
					evidence = append(evidence,
						fmt.Sprintf("Company name match: %s ≈ %s", officer.CompanyName, company.CompanyName))
				}
			}

			if confidence < c.minConfidence {
				continue
			}

			linkType := officer.Role
			if officer.Role == "director" {
				linkType = LinkDirectorOf
			}

			links = append(links, EntityLink{
				Source:     model.NewSearchResult(officer, officer.Name),
				Target:     model.NewSearchResult(company, company.CompanyName),
				LinkType:   linkType,
				Confidence: confidence,
				Evidence:   evidence,
			})
		}
	}

	return links
}

// CompanyContractLinks scores every company against every procurement
// notice, in both directions. A buyer-name match is discounted relative
// to a supplier-name match, but the link label is chosen by comparing
// the raw similarities.
func (c *Correlator) CompanyContractLinks(companies []model.Company, contracts []model.Contract) []EntityLink {
	var links []EntityLink

	for _, company := range companies {
		for _, contract := range contracts {
			confidence := 0.0
			var evidence []string

			if contract.SupplierName != "" {
				sim := NameSimilarity(company.CompanyName, contract.SupplierName)
				if sim > c.weights.ContractNameThreshold {
					confidence = max(confidence, sim)
					evidence = append(evidence,
						fmt.Sprintf("Supplier name match: %s ≈ %s", company.CompanyName, contract.SupplierName))
				}
			}

			if contract.BuyerName != "" {
				sim := NameSimilarity(company.CompanyName, contract.BuyerName)
				if sim > c.weights.ContractNameThreshold {
					confidence = max(confidence, sim*c.weights.BuyerDiscount)
					evidence = append(evidence,
						fmt.Sprintf("Buyer name match: %s ≈ %s", company.CompanyName, contract.BuyerName))
				}
			}

			if confidence < c.minConfidence {
				continue
			}

			linkType := LinkContractSupplier
			if contract.BuyerName != "" &&
				NameSimilarity(company.CompanyName, contract.BuyerName) >
					NameSimilarity(company.CompanyName, contract.SupplierName) {
				linkType = LinkContractBuyer
			}

			links = append(links, EntityLink{
				Source:     model.NewSearchResult(company, company.CompanyName),
				Target:     model.NewSearchResult(contract, contract.Title),
				LinkType:   linkType,
				Confidence: confidence,
				Evidence:   evidence,
			})
		}
	}

	return links
}

// PersonLegalLinks scores every officer against every legal case: an
// exact-ish party-name match carries its similarity, and a surname
// appearing verbatim in the case title earns a flat confidence. The
// title similarity gate only decides whether the surname check runs; it
// is never itself a confidence value.
func (c *Correlator) PersonLegalLinks(officers []model.Officer, cases []model.LegalCase) []EntityLink {
	var links []EntityLink

	for _, officer := range officers {
		for _, legalCase := range cases {
			confidence := 0.0
			var evidence []string

			for _, party := range legalCase.Parties {
				sim := NameSimilarity(officer.Name, party)
				if sim > c.weights.PersonPartyThreshold {
					confidence = max(confidence, sim)
					evidence = append(evidence,
						fmt.Sprintf("Party name match: %s ≈ %s", officer.Name, party))
				}
			}

			if NameSimilarity(officer.Name, legalCase.CaseName) > c.weights.CaseTitleGate {
				if surname := lastNameToken(officer.Name); surname != "" &&
					strings.Contains(strings.ToUpper(legalCase.CaseName), strings.ToUpper(surname)) {
					confidence = max(confidence, c.weights.PersonTitleConfidence)
					evidence = append(evidence,
						fmt.Sprintf("Name appears in case: %s", legalCase.CaseName))
				}
			}

			if confidence < c.minConfidence {
				continue
			}

			links = append(links, EntityLink{
				Source:     model.NewSearchResult(officer, officer.Name),
				Target:     model.NewSearchResult(legalCase, legalCase.CaseName),
				LinkType:   LinkPartyInCase,
				Confidence: confidence,
				Evidence:   evidence,
			})
		}
	}

	return links
}

// CompanyLegalLinks mirrors PersonLegalLinks for companies, with a
// looser party threshold and a discounted raw title similarity instead
// of the flat surname score.
func (c *Correlator) CompanyLegalLinks(companies []model.Company, cases []model.LegalCase) []EntityLink {
	var links []EntityLink

	for _, company := range companies {
		for _, legalCase := range cases {
			confidence := 0.0
			var evidence []string

			for _, party := range legalCase.Parties {
				sim := NameSimilarity(company.CompanyName, party)
				if sim > c.weights.CompanyPartyThreshold {
					confidence = max(confidence, sim)
					evidence = append(evidence,
						fmt.Sprintf("Party name match: %s ≈ %s", company.CompanyName, party))
				}
			}

			if sim := NameSimilarity(company.CompanyName, legalCase.CaseName); sim > c.weights.CaseTitleGate {
				confidence = max(confidence, sim*c.weights.CompanyTitleDiscount)
				evidence = append(evidence,
					fmt.Sprintf("Name in case title: %s", legalCase.CaseName))
			}

			if confidence < c.minConfidence {
				continue
			}

			links = append(links, EntityLink{
				Source:     model.NewSearchResult(company, company.CompanyName),
				Target:     model.NewSearchResult(legalCase, legalCase.CaseName),
				LinkType:   LinkPartyInCase,
				Confidence: confidence,
				Evidence:   evidence,
			})
		}
	}

	return links
}

// lastNameToken returns the final whitespace-delimited token of a name.
func lastNameToken(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
