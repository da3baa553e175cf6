package insolvency

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchByName_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/eiir/IIRSearchNameResult.asp", r.URL.Path)
		require.Equal(t, "smith", r.URL.Query().Get("surname"))
		require.Equal(t, "john", r.URL.Query().Get("forenames"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"records": [
			{
				"surname": "SMITH",
				"forenames": "JOHN",
				"title": "MR",
				"dateOfBirth": "1975-03-12",
				"addressLine1": "1 HIGH STREET",
				"town": "LEEDS",
				"postcode": "LS1 4AB",
				"caseType": "Bankruptcy",
				"caseNumber": "0012345",
				"court": "Leeds County Court",
				"startDate": "2022-09-01",
				"status": "Current",
				"insolvencyPractitioner": "A N Official"
			}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	records, err := c.SearchByName(context.Background(), "smith", "john")
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "SMITH", records[0].Surname)
	assert.Equal(t, "Bankruptcy", records[0].CaseType)
	assert.Equal(t, "Leeds County Court", records[0].Court)
	assert.Equal(t, "A N Official", records[0].Practitioner)
	assert.Equal(t, "JOHN SMITH", records[0].FullName())
}

func TestSearchByName_OmitsEmptyForenames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.False(t, r.URL.Query().Has("forenames"))
		w.Write([]byte(`{"records": []}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	records, err := c.SearchByName(context.Background(), "smith", "")
	require.NoError(t, err)
	assert.Empty(t, records)
}
