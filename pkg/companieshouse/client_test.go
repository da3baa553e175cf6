package companieshouse

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCompanies_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/companies", r.URL.Path)
		assert.Equal(t, "acme widgets", r.URL.Query().Get("q"))
		assert.Equal(t, "20", r.URL.Query().Get("items_per_page"))

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "test-key", user)
		assert.Empty(t, pass)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []Company{
				{CompanyNumber: "01234567", Title: "ACME WIDGETS LTD", CompanyStatus: "active"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	companies, err := client.SearchCompanies(context.Background(), "acme widgets", 20)

	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "01234567", companies[0].CompanyNumber)
	assert.Equal(t, "ACME WIDGETS LTD", companies[0].Name())
}

func TestGetCompany_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	company, err := client.GetCompany(context.Background(), "99999999")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, company)
}

func TestGetCompanyOfficers_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/company/01234567/officers", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []Officer{
				{Name: "SMITH, Jane", OfficerRole: "director", AppointedOn: "2019-04-01"},
				{Name: "JONES, Bob", OfficerRole: "secretary", ResignedOn: "2021-01-15"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	officers, err := client.GetCompanyOfficers(context.Background(), "01234567", 35)

	require.NoError(t, err)
	require.Len(t, officers, 2)
	assert.Equal(t, "SMITH, Jane", officers[0].DisplayName())
	assert.Equal(t, "director", officers[0].OfficerRole)
}

func TestGetCompanyPSCs_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/company/01234567/persons-with-significant-control", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("items_per_page"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{
					"name":               "Jane Smith",
					"kind":               "individual",
					"nationality":        "British",
					"notified_on":        "2016-04-06",
					"natures_of_control": []string{"ownership-of-shares-75-to-100-percent"},
					"date_of_birth":      map[string]int{"month": 3, "year": 1975},
				},
				{
					"name": "Holdings Ltd",
					"kind": "corporate-entity",
				},
			},
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	pscs, err := client.GetCompanyPSCs(context.Background(), "01234567", 25)

	require.NoError(t, err)
	require.Len(t, pscs, 2)
	assert.Equal(t, "Jane Smith", pscs[0].Name)
	assert.Equal(t, []string{"ownership-of-shares-75-to-100-percent"}, pscs[0].NaturesOfControl)
	require.NotNil(t, pscs[0].DateOfBirth)
	assert.Equal(t, 1975, pscs[0].DateOfBirth.Year)
	assert.Equal(t, "corporate-entity", pscs[1].Kind)
	assert.Nil(t, pscs[1].DateOfBirth)
}

func TestSearchOfficers_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	officers, err := client.SearchOfficers(context.Background(), "jane smith", 10)

	assert.Error(t, err)
	assert.Nil(t, officers)
	assert.Contains(t, err.Error(), "429")
}

func TestOfficer_DisplayNameFallsBackToTitle(t *testing.T) {
	o := Officer{Title: "Jane SMITH"}
	assert.Equal(t, "Jane SMITH", o.DisplayName())
}
