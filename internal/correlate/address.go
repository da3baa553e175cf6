package correlate

import (
	"strings"

	"github.com/uk-osint/nexus/internal/model"
)

// postcodeMatchScore is the confidence assigned to a postcode-only
// match. A shared postcode is a strong signal but does not prove
// same-building identity, so it stays below a full-string match.
const postcodeMatchScore = 0.9

// AddressSimilarity scores two addresses in [0,1]. A missing address on
// either side scores 0. Equal postcodes (case- and space-insensitive)
// score exactly 0.9; otherwise the full address strings are compared
// with a sequence ratio.
func AddressSimilarity(a, b *model.Address) float64 {
	if a == nil || b == nil {
		return 0.0
	}

	if a.PostalCode != "" && b.PostalCode != "" {
		pa := strings.ToUpper(strings.ReplaceAll(a.PostalCode, " ", ""))
		pb := strings.ToUpper(strings.ReplaceAll(b.PostalCode, " ", ""))
		if pa == pb {
			return postcodeMatchScore
		}
	}

	return sequenceRatio(strings.ToUpper(a.String()), strings.ToUpper(b.String()))
}
