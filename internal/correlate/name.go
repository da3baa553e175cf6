package correlate

import (
	"strings"
	"unicode"
)

// nameStopTokens are corporate suffixes and personal titles stripped
// during name normalization. Each token is removed wherever it abuts a
// space, so "ACME LIMITED", "THE ACME GROUP" and "MR JOHN SMITH" all
// lose the noise words regardless of position.
var nameStopTokens = []string{
	"LIMITED", "LTD", "PLC", "LLP", "INC", "INCORPORATED",
	"COMPANY", "CO", "THE",
	"MR", "MRS", "MS", "DR", "PROF",
}

// NormalizeName standardizes a person or organization name for matching:
// uppercase, strip stop tokens, drop everything that is not alphanumeric
// or whitespace, collapse runs of whitespace.
func NormalizeName(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))

	for _, tok := range nameStopTokens {
		n = strings.ReplaceAll(n, " "+tok, "")
		n = strings.ReplaceAll(n, tok+" ", "")
	}

	var b strings.Builder
	b.Grow(len(n))
	for _, r := range n {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// NameSimilarity scores two names in [0,1]. Names that are identical
// after normalization score exactly 1.0, which keeps suffix-insensitive
// exact matches free of floating-point ratio noise. Anything else falls
// through to a sequence similarity ratio over the normalized forms.
func NameSimilarity(a, b string) float64 {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == nb {
		return 1.0
	}
	return sequenceRatio(na, nb)
}
