package services

import (
	"sort"

	"github.com/caredispatch/backend/internal/domain/entities"
	"github.com/caredispatch/backend/pkg/geo"
)

// RankFacilities scores facilities by estimated time to treatment: travel
// time at the given speed plus the facility's current queue wait. The
// result is sorted ascending by total minutes; ties break on distance,
// then facility ID, so identical inputs always produce identical order.
func RankFacilities(origin entities.Location, facilities []*entities.Facility, speedKmh float64) []entities.RankedFacility {
	ranked := make([]entities.RankedFacility, 0, len(facilities))
	for _, facility := range facilities {
		if facility.Location == nil {
			continue
		}

		distance := geo.Distance(origin, *facility.Location)
		travel := geo.TravelMinutes(distance, speedKmh)

		ranked = append(ranked, entities.RankedFacility{
			Facility:      facility,
			DistanceKm:    distance,
			TravelMinutes: travel,
			WaitMinutes:   facility.CurrentWaitMinutes,
			TotalMinutes:  travel + facility.CurrentWaitMinutes,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalMinutes != ranked[j].TotalMinutes {
			return ranked[i].TotalMinutes < ranked[j].TotalMinutes
		}
		if ranked[i].DistanceKm != ranked[j].DistanceKm {
			return ranked[i].DistanceKm < ranked[j].DistanceKm
		}
		return ranked[i].Facility.ID < ranked[j].Facility.ID
	})

	return ranked
}

// BestFacility returns the top-ranked candidate, or false when the
// ranking is empty.
func BestFacility(ranked []entities.RankedFacility) (entities.RankedFacility, bool) {
	if len(ranked) == 0 {
		return entities.RankedFacility{}, false
	}
	return ranked[0], true
}
