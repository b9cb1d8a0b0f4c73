package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var beijingDepot = Coordinate{Latitude: 39.9042, Longitude: 116.4074}

func TestDistanceMeters_Properties(t *testing.T) {
	points := []Coordinate{
		beijingDepot,
		{Latitude: 39.9050, Longitude: 116.4080},
		{Latitude: 31.2304, Longitude: 121.4737},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 90, Longitude: 0},
		{Latitude: -90, Longitude: 180},
		{Latitude: 0, Longitude: -180},
		{Latitude: 0, Longitude: 180},
	}

	for _, a := range points {
		assert.Zero(t, DistanceMeters(a, a), "distance to self must be zero for %s", a)
		for _, b := range points {
			ab := DistanceMeters(a, b)
			ba := DistanceMeters(b, a)
			assert.GreaterOrEqual(t, ab, 0.0)
			assert.InDelta(t, ab, ba, 1e-6, "distance must be symmetric for %s / %s", a, b)
		}
	}
}

func TestDistanceMeters_KnownValues(t *testing.T) {
	t.Run("one degree of latitude", func(t *testing.T) {
		d := DistanceMeters(Coordinate{0, 0}, Coordinate{1, 0})
		assert.InDelta(t, 111_194.93, d, 0.5)
	})

	t.Run("beijing to shanghai", func(t *testing.T) {
		d := DistanceMeters(beijingDepot, Coordinate{Latitude: 31.2304, Longitude: 121.4737})
		assert.InDelta(t, 1_067_000, d, 2_000)
	})

	t.Run("antipodal points stay finite", func(t *testing.T) {
		d := DistanceMeters(Coordinate{0, 0}, Coordinate{0, 180})
		assert.InDelta(t, math.Pi*EarthRadiusMeters, d, 1)
	})

	t.Run("longitude wrap is the same point", func(t *testing.T) {
		d := DistanceMeters(Coordinate{10, 180}, Coordinate{10, -180})
		assert.InDelta(t, 0, d, 1e-6)
	})
}

func TestDestination_RoundTripsWithDistance(t *testing.T) {
	for _, meters := range []float64{1, 450, 500, 650, 10_000} {
		for _, bearing := range []float64{0, 45, 90, 180, 270} {
			p := Destination(beijingDepot, bearing, meters)
			assert.InDelta(t, meters, DistanceMeters(beijingDepot, p), 1e-6,
				"bearing %.0f distance %.0f", bearing, meters)
		}
	}
}

func TestCoordinate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		c       Coordinate
		wantErr bool
	}{
		{"origin", Coordinate{0, 0}, false},
		{"poles and antimeridian", Coordinate{90, 180}, false},
		{"south pole", Coordinate{-90, -180}, false},
		{"latitude too high", Coordinate{90.0001, 0}, true},
		{"latitude too low", Coordinate{-91, 0}, true},
		{"longitude too high", Coordinate{0, 180.5}, true},
		{"longitude too low", Coordinate{0, -181}, true},
		{"NaN latitude", Coordinate{math.NaN(), 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidCoordinate)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCoordinate_String(t *testing.T) {
	c, err := NewCoordinate(39.9050, 116.4080)
	require.NoError(t, err)
	assert.Equal(t, "39.905000,116.408000", c.String())
}
