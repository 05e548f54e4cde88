package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_Symmetric(t *testing.T) {
	a := Location{Latitude: 6.5244, Longitude: 3.3792}
	b := Location{Latitude: 9.0765, Longitude: 7.3986}

	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
}

func TestDistance_IdenticalPointsIsZero(t *testing.T) {
	p := Location{Latitude: 40.7128, Longitude: -74.0060}

	assert.Equal(t, 0.0, Distance(p, p))
}

func TestDistance_KnownValue(t *testing.T) {
	// Lagos to Abuja is roughly 536 km as the crow flies.
	lagos := Location{Latitude: 6.5244, Longitude: 3.3792}
	abuja := Location{Latitude: 9.0765, Longitude: 7.3986}

	assert.InDelta(t, 536, Distance(lagos, abuja), 10)
}

func TestTravelMinutes_RoundsUp(t *testing.T) {
	// 39.4 km at 40 km/h is 59.1 minutes and must round to 60, never 59.
	assert.Equal(t, 60, TravelMinutes(39.4, 40))

	// An exact quotient stays exact.
	assert.Equal(t, 60, TravelMinutes(40, 40))

	// Any positive distance takes at least a minute.
	assert.Equal(t, 1, TravelMinutes(0.1, 60))
}

func TestTravelMinutes_MonotonicInDistance(t *testing.T) {
	prev := 0
	for d := 1.0; d <= 100; d += 1.0 {
		cur := TravelMinutes(d, 60)
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestTravelMinutes_ZeroInputs(t *testing.T) {
	assert.Equal(t, 0, TravelMinutes(0, 40))
	assert.Equal(t, 0, TravelMinutes(10, 0))
}

func TestLocation_Valid(t *testing.T) {
	assert.True(t, Location{Latitude: 40, Longitude: -74}.Valid())
	assert.True(t, Location{Latitude: -90, Longitude: 180}.Valid())
	assert.False(t, Location{Latitude: 91, Longitude: 0}.Valid())
	assert.False(t, Location{Latitude: 0, Longitude: -181}.Valid())
}
