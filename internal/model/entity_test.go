package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress_String(t *testing.T) {
	a := Address{Line1: "10 Downing Street", Locality: "London", PostalCode: "SW1A 2AA"}
	assert.Equal(t, "10 Downing Street, London, SW1A 2AA", a.String())
}

func TestAddress_String_Empty(t *testing.T) {
	assert.Equal(t, "", Address{}.String())
}

func TestRecord_EntityTypes(t *testing.T) {
	assert.Equal(t, EntityTypeCompany, Company{}.EntityType())
	assert.Equal(t, EntityTypePerson, Officer{}.EntityType())
	assert.Equal(t, EntityTypeVehicle, Vehicle{}.EntityType())
	assert.Equal(t, EntityTypeLegalCase, LegalCase{}.EntityType())
	assert.Equal(t, EntityTypeContract, Contract{}.EntityType())
}

func TestSearchResult_TypeFollowsRecord(t *testing.T) {
	r := NewSearchResult(Company{Source: "companies_house", CompanyName: "Acme Ltd"}, "acme")
	assert.Equal(t, EntityTypeCompany, r.Type())
	assert.Equal(t, "companies_house", r.Source)
	assert.Equal(t, 1.0, r.Confidence)
}

func TestSearchResult_MarshalJSON(t *testing.T) {
	r := NewSearchResult(Officer{Source: "companies_house", Name: "JOHN SMITH", Role: "director"}, "john smith")
	b, err := json.Marshal(r)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "person", m["entity_type"])
	assert.Equal(t, "companies_house", m["source"])
}

func TestCompany_IsActive(t *testing.T) {
	assert.True(t, Company{CompanyStatus: "active"}.IsActive())
	assert.True(t, Company{CompanyStatus: "Active"}.IsActive())
	assert.False(t, Company{CompanyStatus: "dissolved"}.IsActive())
}
