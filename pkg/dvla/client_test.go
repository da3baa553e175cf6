package dvla

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/vehicles", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("x-api-key"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "AB12CDE", req["registrationNumber"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"registrationNumber": "AB12CDE",
			"make": "FORD",
			"colour": "BLUE",
			"fuelType": "PETROL",
			"yearOfManufacture": 2015,
			"taxStatus": "Taxed",
			"motStatus": "Valid"
		}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	v, err := c.Lookup(context.Background(), "AB12CDE")
	require.NoError(t, err)

	assert.Equal(t, "AB12CDE", v.RegistrationNumber)
	assert.Equal(t, "FORD", v.Make)
	assert.Equal(t, 2015, v.YearOfManufacture)
	assert.Equal(t, "Taxed", v.TaxStatus)
}

func TestLookup_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := c.Lookup(context.Background(), "ZZ99ZZZ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookup_Throttled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := c.Lookup(context.Background(), "AB12CDE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}
