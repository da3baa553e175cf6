package electoral

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchDonations_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/search/Donations", r.URL.Path)
		require.Equal(t, "acme", r.URL.Query().Get("query"))
		require.Equal(t, "25", r.URL.Query().Get("rows"))
		require.Equal(t, "AcceptedDate", r.URL.Query().Get("sort"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Result": [
			{
				"ECRef": "C0123456",
				"RegulatedEntityName": "Example Party",
				"RegulatedEntityType": "Political Party",
				"DonorName": "Acme Holdings Ltd",
				"DonorStatus": "Company",
				"CompanyRegistrationNumber": "01234567",
				"Value": 25000.00,
				"DonationType": "Cash",
				"AcceptedDate": "2023-06-01T00:00:00",
				"ReportingPeriodName": "Q2 2023"
			}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	donations, err := c.SearchDonations(context.Background(), "acme", 25)
	require.NoError(t, err)
	require.Len(t, donations, 1)

	assert.Equal(t, "C0123456", donations[0].ECRef)
	assert.Equal(t, "Example Party", donations[0].RecipientName)
	assert.Equal(t, "Acme Holdings Ltd", donations[0].DonorName)
	assert.Equal(t, "01234567", donations[0].CompanyNumber)
	assert.Equal(t, 25000.00, donations[0].Value)
}

func TestSearchDonations_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.SearchDonations(context.Background(), "acme", 25)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
