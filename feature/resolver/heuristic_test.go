package resolver_test

import (
	"testing"

	"camkit/feature/resolver"

	"github.com/stretchr/testify/assert"
)

func TestCandidate_StripsNamespaceAndLevelTokens(t *testing.T) {
	keys := []string{
		"camera.vehicle_nomad_bike_High_Close",
		"camera.vehicle_nomad_bike_High_Medium",
		"camera.vehicle_nomad_bike_Low_Far_Combat",
	}

	id, ok := resolver.Candidate(keys, nil)
	assert.True(t, ok)
	assert.Equal(t, "nomad_bike", id)
}

func TestCandidate_StripsSuffixTags(t *testing.T) {
	keys := []string{"Camera.VehicleTPP.mod_hover_tank_Close_Camera_Preset"}

	id, ok := resolver.Candidate(keys, nil)
	assert.True(t, ok)
	assert.Equal(t, "mod_hover_tank", id)
}

func TestCandidate_HashedKeysSurviveAsThemselves(t *testing.T) {
	// Hashed identifiers carry no known tokens and survive stripping whole.
	keys := []string{"3872099527", "3872099528"}

	id, ok := resolver.Candidate(keys, nil)
	assert.True(t, ok)
	assert.Equal(t, "3872099527", id)
}

func TestCandidate_SkipsPrefixesOfKnownDefaults(t *testing.T) {
	// "car" is a prefix of the vanilla id "car_red"; re-discovering it would
	// shadow the first-party profile, so the next survivor wins.
	keys := []string{
		"Camera.VehicleTPP_car_High_Close",
		"camera.modded_roadster_High_Close",
	}

	id, ok := resolver.Candidate(keys, []string{"car_red"})
	assert.True(t, ok)
	assert.Equal(t, "modded_roadster", id)
}

func TestCandidate_Deduplicates(t *testing.T) {
	keys := []string{
		"camera.mod_bike_High_Close",
		"camera.mod_bike_Low_Close",
		"camera.mod_bike_High_Far",
	}

	id, ok := resolver.Candidate(keys, nil)
	assert.True(t, ok)
	assert.Equal(t, "mod_bike", id)
}

func TestCandidate_NoSurvivors(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		kn   []string
	}{
		{"empty input", nil, nil},
		{"only namespace tokens", []string{"Camera.VehicleTPP_High_Close"}, nil},
		{"all known prefixes", []string{"camera.car_High_Close"}, []string{"car_red"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := resolver.Candidate(tt.keys, tt.kn)
			assert.False(t, ok)
		})
	}
}
