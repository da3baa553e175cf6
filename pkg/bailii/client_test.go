package bailii

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `<html><body>
<a href="/ew/cases/EWCA/Civ/2023/123.html">Smith v Jones Holdings Ltd [2023] EWCA Civ 123</a>
<a href="/uk/cases/UKSC/2022/7.html">Re Acme Trading Ltd [2022] UKSC 7</a>
<a href="/ew/cases/EWCA/Civ/2023/123.html">Smith v Jones Holdings Ltd [2023] EWCA Civ 123</a>
<a href="/form/search_cases.html">Search</a>
<a href="/ew/cases/EWHC/Ch/2021/99.html">Next</a>
</body></html>`

func TestSearch_ParsesResultsPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cgi-bin/lucy_search_1.cgi", r.URL.Path)
		assert.Equal(t, "smith", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(resultsPage))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	cases, err := client.Search(context.Background(), "smith", 10)

	require.NoError(t, err)
	require.Len(t, cases, 2)

	assert.Equal(t, "Smith v Jones Holdings Ltd [2023] EWCA Civ 123", cases[0].CaseName)
	assert.Equal(t, "[2023] EWCA Civ 123", cases[0].NeutralCitation)
	assert.Equal(t, "England and Wales Court of Appeal", cases[0].Court)
	assert.Equal(t, []string{"Smith", "Jones Holdings Ltd"}, cases[0].Parties)
	assert.Equal(t, srv.URL+"/ew/cases/EWCA/Civ/2023/123.html", cases[0].FullTextURL)

	// "Re" prefix is stripped and a non-adversarial name has no parties.
	assert.Equal(t, "Acme Trading Ltd [2022] UKSC 7", cases[1].CaseName)
	assert.Empty(t, cases[1].Parties)
}

func TestSearch_MaxResultsTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(resultsPage))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	cases, err := client.Search(context.Background(), "smith", 1)

	require.NoError(t, err)
	assert.Len(t, cases, 1)
}

func TestSearch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	cases, err := client.Search(context.Background(), "smith", 10)

	assert.Error(t, err)
	assert.Nil(t, cases)
}

func TestParseParties_CutsCitationTail(t *testing.T) {
	parties := parseParties("Doe v Smith [2023] EWCA Civ 1")
	assert.Equal(t, []string{"Doe", "Smith"}, parties)
}

func TestParseParties_NoVersus(t *testing.T) {
	assert.Nil(t, parseParties("Acme Trading Ltd"))
}

func TestParseCaseName_StripsLeadingCitation(t *testing.T) {
	assert.Equal(t, "Doe v Smith", parseCaseName("[2023] EWCA 1 - Doe v Smith"))
}
