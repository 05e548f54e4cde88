package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caredispatch/backend/internal/domain/entities"
)

func loc(lat, lon float64) *entities.Location {
	return &entities.Location{Latitude: lat, Longitude: lon}
}

func TestRankFacilities_PrefersLowerTotalTime(t *testing.T) {
	// A nearby facility with a 10 minute queue beats a farther one with
	// an empty queue at 40 km/h.
	origin := entities.Location{Latitude: 40.000, Longitude: -74.000}
	facilities := []*entities.Facility{
		{ID: 1, Name: "A", Location: loc(40.01, -74.00), Verified: true, CurrentWaitMinutes: 10},
		{ID: 2, Name: "B", Location: loc(40.10, -74.00), Verified: true, CurrentWaitMinutes: 0},
	}

	ranked := RankFacilities(origin, facilities, 40)

	require.Len(t, ranked, 2)
	assert.Equal(t, int64(1), ranked[0].Facility.ID)
	assert.Equal(t, 12, ranked[0].TotalMinutes)
	assert.Equal(t, 17, ranked[1].TotalMinutes)
}

func TestRankFacilities_SortedAscendingByTotal(t *testing.T) {
	origin := entities.Location{Latitude: 6.5244, Longitude: 3.3792}
	facilities := []*entities.Facility{
		{ID: 1, Location: loc(6.60, 3.35), Verified: true, CurrentWaitMinutes: 45},
		{ID: 2, Location: loc(6.53, 3.38), Verified: true, CurrentWaitMinutes: 5},
		{ID: 3, Location: loc(6.45, 3.40), Verified: true, CurrentWaitMinutes: 0},
	}

	ranked := RankFacilities(origin, facilities, 60)

	require.Len(t, ranked, 3)
	for i := 1; i < len(ranked); i++ {
		assert.LessOrEqual(t, ranked[i-1].TotalMinutes, ranked[i].TotalMinutes)
	}
}

func TestRankFacilities_TieBreaksOnDistanceThenID(t *testing.T) {
	origin := entities.Location{Latitude: 0, Longitude: 0}

	// Same coordinates and wait: identical total and distance, so the
	// lower ID must come first regardless of input order.
	facilities := []*entities.Facility{
		{ID: 7, Location: loc(0.01, 0), Verified: true, CurrentWaitMinutes: 5},
		{ID: 3, Location: loc(0.01, 0), Verified: true, CurrentWaitMinutes: 5},
	}

	ranked := RankFacilities(origin, facilities, 60)

	require.Len(t, ranked, 2)
	assert.Equal(t, int64(3), ranked[0].Facility.ID)
	assert.Equal(t, int64(7), ranked[1].Facility.ID)
}

func TestRankFacilities_Deterministic(t *testing.T) {
	origin := entities.Location{Latitude: 6.5, Longitude: 3.4}
	facilities := []*entities.Facility{
		{ID: 1, Location: loc(6.52, 3.41), Verified: true, CurrentWaitMinutes: 20},
		{ID: 2, Location: loc(6.48, 3.39), Verified: true, CurrentWaitMinutes: 10},
		{ID: 3, Location: loc(6.51, 3.42), Verified: true},
	}

	first := RankFacilities(origin, facilities, 40)
	second := RankFacilities(origin, facilities, 40)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Facility.ID, second[i].Facility.ID)
	}
}

func TestRankFacilities_SkipsFacilitiesWithoutCoordinates(t *testing.T) {
	origin := entities.Location{Latitude: 6.5, Longitude: 3.4}
	facilities := []*entities.Facility{
		{ID: 1, Verified: true},
		{ID: 2, Location: loc(6.52, 3.41), Verified: true},
	}

	ranked := RankFacilities(origin, facilities, 40)

	require.Len(t, ranked, 1)
	assert.Equal(t, int64(2), ranked[0].Facility.ID)
}

func TestBestFacility_EmptyRanking(t *testing.T) {
	_, ok := BestFacility(nil)
	assert.False(t, ok)
}
