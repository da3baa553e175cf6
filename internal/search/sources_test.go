package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceSet_Has(t *testing.T) {
	set := CompaniesHouse | BAILII
	assert.True(t, set.Has(CompaniesHouse))
	assert.True(t, set.Has(BAILII))
	assert.False(t, set.Has(DVLAVehicle))
	assert.False(t, set.Has(CompaniesHouse|DVLAVehicle))
}

func TestSourceSet_NamesInDeclarationOrder(t *testing.T) {
	set := Gazette | CompaniesHouse | BAILII
	assert.Equal(t, []string{"companies_house", "bailii", "gazette"}, set.Names())
}

func TestSourceSet_String(t *testing.T) {
	assert.Equal(t, "mot_history,dvla_vehicle", Vehicles.String())
}

func TestParseSources_SingleSource(t *testing.T) {
	set, err := ParseSources("companies_house")
	require.NoError(t, err)
	assert.Equal(t, CompaniesHouse, set)
}

func TestParseSources_PresetAndSourceCombine(t *testing.T) {
	set, err := ParseSources("vehicles, bailii")
	require.NoError(t, err)
	assert.Equal(t, MOTHistory|DVLAVehicle|BAILII, set)
}

func TestParseSources_AllPresetGenerations(t *testing.T) {
	for name, want := range map[string]SourceSet{
		"all_original":    AllOriginal,
		"all_with_police": AllWithPolice,
		"all":             All,
		"all_extended":    AllExtended,
	} {
		set, err := ParseSources(name)
		require.NoError(t, err)
		assert.Equal(t, want, set, name)
	}
}

func TestParseSources_CaseInsensitive(t *testing.T) {
	set, err := ParseSources("Business")
	require.NoError(t, err)
	assert.Equal(t, Business, set)
}

func TestParseSources_UnknownSource(t *testing.T) {
	_, err := ParseSources("interpol")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interpol")
}

func TestParseSources_Empty(t *testing.T) {
	_, err := ParseSources("")
	assert.Error(t, err)
}

func TestPresets_Composition(t *testing.T) {
	assert.Equal(t, CompaniesHouse|MOTHistory|BAILII|ContractsFinder|
		CharityCommission|FCARegister|DVLAVehicle|ElectoralCommission, AllOriginal)
	assert.Equal(t, AllOriginal|PoliceData, AllWithPolice)
	assert.True(t, All.Has(AllOriginal))
	assert.True(t, AllExtended.Has(All))
	assert.True(t, AllExtended.Has(PoliceData))
	assert.False(t, All.Has(PoliceData))
	assert.True(t, BusinessExtended.Has(Business))
	assert.True(t, PersonDueDiligence.Has(CompaniesHouse|BAILII|UKSanctions))
	assert.False(t, PersonDueDiligence.Has(DVLAVehicle))
}
