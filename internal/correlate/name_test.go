package correlate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName_Empty(t *testing.T) {
	assert.Equal(t, "", NormalizeName(""))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestNormalizeName_Uppercase(t *testing.T) {
	assert.Equal(t, "ACME TRADING", NormalizeName("Acme Trading"))
}

func TestNormalizeName_StripCorporateSuffixes(t *testing.T) {
	assert.Equal(t, "ACME", NormalizeName("Acme Limited"))
	assert.Equal(t, "ACME", NormalizeName("Acme Ltd"))
	assert.Equal(t, "ACME", NormalizeName("ACME PLC"))
	assert.Equal(t, "ACME", NormalizeName("Acme LLP"))
}

func TestNormalizeName_StripLeadingThe(t *testing.T) {
	assert.Equal(t, "ACME GROUP", NormalizeName("The Acme Group"))
}

func TestNormalizeName_StripTitles(t *testing.T) {
	assert.Equal(t, "JOHN SMITH", NormalizeName("Mr John Smith"))
	assert.Equal(t, "JANE DOE", NormalizeName("Dr Jane Doe"))
}

func TestNormalizeName_Punctuation(t *testing.T) {
	assert.Equal(t, "SMITH JONES", NormalizeName("Smith & Jones"))
	assert.Equal(t, "OBRIEN", NormalizeName("O'Brien"))
}

func TestNormalizeName_CollapseWhitespace(t *testing.T) {
	assert.Equal(t, "ACME TRADING", NormalizeName("  Acme   Trading  "))
}

func TestNameSimilarity_Reflexive(t *testing.T) {
	for _, s := range []string{"", "Acme Ltd", "JOHN SMITH", "Doe v Smith [2023] EWCA Civ 1"} {
		assert.Equal(t, 1.0, NameSimilarity(s, s), "similarity(%q, %q)", s, s)
	}
}

func TestNameSimilarity_SuffixInsensitiveExactMatch(t *testing.T) {
	assert.Equal(t, 1.0, NameSimilarity("ACME LIMITED", "Acme Ltd"))
}

func TestNameSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"Acme Trading Ltd", "Acme Trading Company"},
		{"John Smith", "Jon Smith"},
		{"Home Office", "Cabinet Office"},
	}
	for _, p := range pairs {
		assert.Equal(t, NameSimilarity(p[0], p[1]), NameSimilarity(p[1], p[0]))
	}
}

func TestNameSimilarity_BothEmpty(t *testing.T) {
	assert.Equal(t, 1.0, NameSimilarity("", ""))
}

func TestNameSimilarity_OneEmpty(t *testing.T) {
	assert.Equal(t, 0.0, NameSimilarity("Acme", ""))
}

func TestNameSimilarity_Bounded(t *testing.T) {
	pairs := [][2]string{
		{"Acme Trading", "Zenith Holdings"},
		{"a", "b"},
		{"John Smith", "Smith John"},
	}
	for _, p := range pairs {
		sim := NameSimilarity(p[0], p[1])
		assert.GreaterOrEqual(t, sim, 0.0)
		assert.LessOrEqual(t, sim, 1.0)
	}
}

func TestNameSimilarity_CloseNamesScoreHigh(t *testing.T) {
	assert.Greater(t, NameSimilarity("Acme Trading", "Acme Tradings"), 0.9)
	assert.Less(t, NameSimilarity("Acme Trading", "Zenith Holdings"), 0.5)
}
