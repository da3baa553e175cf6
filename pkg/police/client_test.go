package police

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrimesByPostcode_GeocodesThenFetches(t *testing.T) {
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/postcodes/SW1A1AA", r.URL.Path)
		_, _ = w.Write([]byte(`{"result": {"latitude": 51.501, "longitude": -0.1416}}`))
	}))
	defer geo.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/crimes-street/all-crime", r.URL.Path)
		assert.Equal(t, "2024-06", r.URL.Query().Get("date"))
		assert.NotEmpty(t, r.URL.Query().Get("lat"))
		_, _ = w.Write([]byte(`[
			{"id": "c1", "category": "burglary", "month": "2024-06",
			 "location": {"latitude": "51.5", "longitude": "-0.14", "street": {"name": "On or near Downing Street"}},
			 "outcome_status": {"category": "Under investigation", "date": "2024-07"}}
		]`))
	}))
	defer api.Close()

	client := NewClient(WithBaseURL(api.URL), WithPostcodeURL(geo.URL))
	crimes, err := client.CrimesByPostcode(context.Background(), "sw1a 1aa", "2024-06")

	require.NoError(t, err)
	require.Len(t, crimes, 1)
	assert.Equal(t, "burglary", crimes[0].Category)
	assert.Equal(t, "On or near Downing Street", crimes[0].Location.Street.Name)
	require.NotNil(t, crimes[0].OutcomeStatus)
	assert.Equal(t, "Under investigation", crimes[0].OutcomeStatus.Category)
}

func TestCrimesByPostcode_GeocodeFailure(t *testing.T) {
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer geo.Close()

	client := NewClient(WithPostcodeURL(geo.URL))
	crimes, err := client.CrimesByPostcode(context.Background(), "ZZ99 9ZZ", "")

	assert.Error(t, err)
	assert.Nil(t, crimes)
}

func TestCrimesAtLocation_NullOutcome(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id": "c2", "category": "drugs", "month": "2024-06", "outcome_status": null}]`))
	}))
	defer api.Close()

	client := NewClient(WithBaseURL(api.URL))
	crimes, err := client.CrimesAtLocation(context.Background(), 51.5, -0.14, "")

	require.NoError(t, err)
	require.Len(t, crimes, 1)
	assert.Nil(t, crimes[0].OutcomeStatus)
}
