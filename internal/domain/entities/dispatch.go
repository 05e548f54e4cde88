package entities

// RankedFacility is one row of the deterministic baseline ranking: a
// facility scored by travel time plus current queue wait.
type RankedFacility struct {
	Facility      *Facility `json:"facility"`
	DistanceKm    float64   `json:"distance_km"`
	TravelMinutes int       `json:"travel_minutes"`
	WaitMinutes   int       `json:"wait_minutes"`
	TotalMinutes  int       `json:"total_minutes"`
}

// DispatchRecommendation is the outcome of an instant emergency dispatch.
// It is returned to the caller and not persisted.
type DispatchRecommendation struct {
	Facility         *Facility `json:"recommended_facility"`
	Reasoning        string    `json:"reasoning"`
	DispatcherScript string    `json:"tts_script_for_911"`
}
