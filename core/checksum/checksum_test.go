package checksum_test

import (
	"testing"

	"camkit/core/checksum"

	"github.com/stretchr/testify/assert"
)

func TestToken_OrderIndependence(t *testing.T) {
	a := map[string]any{
		"id":    "car_red",
		"close": map[string]any{"angle": 1.5, "z": 0.25},
	}
	b := map[string]any{
		"close": map[string]any{"z": 0.25, "angle": 1.5},
		"id":    "car_red",
	}

	assert.Equal(t, checksum.Token(a), checksum.Token(b))
}

func TestToken_NumericPrecision(t *testing.T) {
	base := map[string]any{"z": 1.0}

	tests := []struct {
		name string
		z    float64
		same bool
	}{
		{"identical", 1.0, true},
		{"below cutoff", 1.00004, true},
		{"above cutoff", 1.0002, false},
		{"large delta", 1.5, false},
	}

	baseToken := checksum.Token(base)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := checksum.Token(map[string]any{"z": tt.z})
			if tt.same {
				assert.Equal(t, baseToken, tok)
			} else {
				assert.NotEqual(t, baseToken, tok)
			}
		})
	}
}

func TestToken_StringAndFlagChanges(t *testing.T) {
	a := checksum.Token(map[string]any{"id": "car_red", "joined": false})
	b := checksum.Token(map[string]any{"id": "car_blue", "joined": false})
	c := checksum.Token(map[string]any{"id": "car_red", "joined": true})

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestToken_StructMatchesEquivalentMap(t *testing.T) {
	type offsets struct {
		Angle float64
		Z     float64
	}
	type record struct {
		ID    string
		Close *offsets
		Far   *offsets
	}

	s := record{ID: "car_red", Close: &offsets{Angle: 1.5, Z: 0.25}}
	m := map[string]any{
		"ID":    "car_red",
		"Close": map[string]any{"Angle": 1.5, "Z": 0.25},
	}

	// Nil pointer fields are treated like missing map keys.
	assert.Equal(t, checksum.Token(m), checksum.Token(s))
}

func TestCanonical_NumberTrimming(t *testing.T) {
	assert.Equal(t, "1.5", checksum.FormatNumber(1.50000))
	assert.Equal(t, "2", checksum.FormatNumber(2.0))
	assert.Equal(t, "0", checksum.FormatNumber(0.0))
	assert.Equal(t, "-0.25", checksum.FormatNumber(-0.25))
	assert.Equal(t, "0", checksum.FormatNumber(-0.000001))
}

func TestSum_Deterministic(t *testing.T) {
	data := []byte("camkit")
	assert.Equal(t, checksum.Sum(data), checksum.Sum(data))
	assert.NotEqual(t, checksum.Sum(data), checksum.Sum([]byte("camkis")))
}
