package landregistry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionsByPostcode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sparql", r.URL.Path)
		require.Equal(t, "json", r.URL.Query().Get("output"))
		require.Contains(t, r.URL.Query().Get("query"), `"SW1A 1AA"`)
		require.Equal(t, "application/sparql-results+json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/sparql-results+json")
		w.Write([]byte(`{"results": {"bindings": [
			{
				"transactionId": {"value": "ABC-123"},
				"pricePaid": {"value": "450000"},
				"transactionDate": {"value": "2023-03-31"},
				"propertyType": {"value": "http://landregistry.data.gov.uk/def/common/T"},
				"newBuild": {"value": "false"},
				"paon": {"value": "14"},
				"street": {"value": "DOWNING STREET"},
				"town": {"value": "LONDON"},
				"postcode": {"value": "SW1A 1AA"}
			},
			{
				"pricePaid": {"value": "620000"},
				"transactionDate": {"value": "2022-11-04"},
				"propertyType": {"value": "http://landregistry.data.gov.uk/def/common/F"},
				"newBuild": {"value": "Y"},
				"saon": {"value": "FLAT 2"},
				"paon": {"value": "9"},
				"street": {"value": "DOWNING STREET"},
				"town": {"value": "LONDON"},
				"postcode": {"value": "SW1A 1AA"}
			}
		]}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	txs, err := c.TransactionsByPostcode(context.Background(), "SW1A 1AA", 50)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, 450000, txs[0].Price)
	assert.Equal(t, "Terraced", txs[0].PropertyType)
	assert.False(t, txs[0].NewBuild)
	assert.Equal(t, "14, DOWNING STREET, LONDON, SW1A 1AA", txs[0].FullAddress())

	assert.Equal(t, "Flat/Maisonette", txs[1].PropertyType)
	assert.True(t, txs[1].NewBuild)
	assert.True(t, strings.HasPrefix(txs[1].FullAddress(), "FLAT 2, 9, "))
}

func TestTransactionsByPostcode_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.TransactionsByPostcode(context.Background(), "SW1A 1AA", 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
