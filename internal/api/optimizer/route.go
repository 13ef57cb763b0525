package optimizer

import (
	"sort"

	"github.com/subodh10000/neptou-backend/internal/types"
)

// optimizeRouteOrder reorders activities to shorten total travel. Activities
// are grouped by district (largest group first), then visited greedily by
// nearest neighbor within each group, starting from the first geo-resolved
// activity. Activities without coordinates keep their relative order at the
// end of the day.
func optimizeRouteOrder(activities []types.Activity) []types.Activity {
	if len(activities) <= 1 {
		return activities
	}

	var located, unlocated []types.Activity
	for _, act := range activities {
		if act.HasCoordinates() {
			located = append(located, act)
		} else {
			unlocated = append(unlocated, act)
		}
	}
	if len(located) == 0 {
		return activities
	}

	groups := map[string][]types.Activity{}
	var order []string
	for _, act := range located {
		district := act.District
		if district == "" {
			district = "Other"
		}
		if _, seen := groups[district]; !seen {
			order = append(order, district)
		}
		groups[district] = append(groups[district], act)
	}
	// Largest district first; ties keep first-seen order
	sort.SliceStable(order, func(i, j int) bool {
		return len(groups[order[i]]) > len(groups[order[j]])
	})

	curLat, curLon := *located[0].Latitude, *located[0].Longitude
	optimized := make([]types.Activity, 0, len(activities))

	for _, district := range order {
		remaining := groups[district]
		for len(remaining) > 0 {
			nearestIdx := 0
			nearestDistance := HaversineDistance(curLat, curLon, *remaining[0].Latitude, *remaining[0].Longitude)
			for i := 1; i < len(remaining); i++ {
				d := HaversineDistance(curLat, curLon, *remaining[i].Latitude, *remaining[i].Longitude)
				if d < nearestDistance {
					nearestDistance = d
					nearestIdx = i
				}
			}

			next := remaining[nearestIdx]
			remaining = append(remaining[:nearestIdx], remaining[nearestIdx+1:]...)
			optimized = append(optimized, next)
			curLat, curLon = *next.Latitude, *next.Longitude
		}
	}

	return append(optimized, unlocated...)
}

// TravelLeg describes the estimated hop between two consecutive activities.
// Distance and minutes are nil when either endpoint lacks coordinates.
type TravelLeg struct {
	From              string   `json:"from"`
	To                string   `json:"to"`
	DistanceKm        *float64 `json:"distance_km"`
	TravelTimeMinutes *int     `json:"travel_time_minutes"`
}

// CalculateTravelLegs estimates the hops between consecutive activities using
// the district-aware travel model.
func CalculateTravelLegs(activities []types.Activity) []TravelLeg {
	var legs []TravelLeg
	for i := 0; i+1 < len(activities); i++ {
		current, next := activities[i], activities[i+1]
		leg := TravelLeg{From: current.PlaceName, To: next.PlaceName}

		if current.HasCoordinates() && next.HasCoordinates() {
			distance := HaversineDistance(*current.Latitude, *current.Longitude, *next.Latitude, *next.Longitude)
			minutes := EstimateTravelTime(distance, types.TransportModeCar, current.District, next.District)
			rounded := float64(int(distance*100+0.5)) / 100
			leg.DistanceKm = &rounded
			leg.TravelTimeMinutes = &minutes
		}
		legs = append(legs, leg)
	}
	return legs
}
