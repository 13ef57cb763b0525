package optimizer

import (
	"math"

	"github.com/subodh10000/neptou-backend/internal/types"
)

const earthRadiusKm = 6371

// interDistrictMinutes holds fixed travel times for the major highway routes.
// Road travel in Nepal does not scale with straight-line distance, so these
// override the speed model whenever both districts are known.
var interDistrictMinutes = map[[2]string]int{
	{"Kathmandu", "Pokhara"}: 360,
	{"Pokhara", "Kathmandu"}: 360,
	{"Kathmandu", "Chitwan"}: 180,
	{"Chitwan", "Kathmandu"}: 180,
	{"Kathmandu", "Dang"}:    480,
	{"Dang", "Kathmandu"}:    480,
	{"Kathmandu", "Kailali"}: 720,
	{"Kailali", "Kathmandu"}: 720,
	{"Pokhara", "Chitwan"}:   180,
	{"Chitwan", "Pokhara"}:   180,
}

// speedKmh is the assumed average speed per transport mode, tuned down for
// Nepali road conditions.
var speedKmh = map[types.TransportMode]float64{
	types.TransportModeCar:    35,
	types.TransportModeWalk:   4,
	types.TransportModePublic: 20,
}

// travelBufferMultiplier pads the raw travel estimate for traffic and stops.
const travelBufferMultiplier = 1.3

// minTravelMinutes floors every estimate; nothing in Nepal takes under 15 min.
const minTravelMinutes = 15

// HaversineDistance returns the great-circle distance in kilometers between
// two points on a spherical Earth.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dlat := toRadians(lat2 - lat1)
	dlon := toRadians(lon2 - lon1)

	a := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Pow(math.Sin(dlon/2), 2)

	c := 2 * math.Asin(math.Sqrt(a))
	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// EstimateTravelTime estimates travel minutes for a leg. When both districts
// are known, differ, and match a fixed highway route, the table value wins.
// Otherwise the distance/speed model applies with buffer and minimum floor.
func EstimateTravelTime(distanceKm float64, mode types.TransportMode, fromDistrict, toDistrict string) int {
	if fromDistrict != "" && toDistrict != "" && fromDistrict != toDistrict {
		if minutes, ok := interDistrictMinutes[[2]string{fromDistrict, toDistrict}]; ok {
			return minutes
		}
	}

	speed, ok := speedKmh[mode]
	if !ok {
		speed = speedKmh[types.TransportModeCar]
	}
	hours := distanceKm / speed * travelBufferMultiplier

	minutes := int(hours * 60)
	if minutes < minTravelMinutes {
		minutes = minTravelMinutes
	}
	return minutes
}
