package types

// TimeLayout is the wire format for activity times ("09:00 AM").
const TimeLayout = "03:04 PM"

// TransportMode selects the speed model for intra-district travel estimates.
type TransportMode string

const (
	TransportModeCar    TransportMode = "car"
	TransportModeWalk   TransportMode = "walk"
	TransportModePublic TransportMode = "public"
)

// Activity is one scheduled visit within a day. The resolved coordinates and
// district are working state for the optimizer and never serialize back.
type Activity struct {
	PlaceName string `json:"place_name"`
	Notes     string `json:"notes"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	Latitude  *float64 `json:"-"`
	Longitude *float64 `json:"-"`
	District  string   `json:"-"`
}

// HasCoordinates reports whether the activity resolved to a geographic point.
func (a *Activity) HasCoordinates() bool {
	return a.Latitude != nil && a.Longitude != nil
}

// Day is an ordered list of activities plus an optional declared district.
// After optimization every activity in a day belongs to one district.
type Day struct {
	DayNumber  int        `json:"day_number"`
	District   string     `json:"district,omitempty"`
	Activities []Activity `json:"activities"`
}

// Itinerary is a named, ordered list of days. The optimizer consumes one and
// returns a new one; it never patches the caller's value in place.
type Itinerary struct {
	Name string `json:"name"`
	Days []Day  `json:"days"`
}

// OptimizeItineraryRequest is the body of the optimize endpoint. The flags
// default to true when omitted.
type OptimizeItineraryRequest struct {
	Itinerary     Itinerary `json:"itinerary"`
	OptimizeRoute *bool     `json:"optimize_route,omitempty"`
	OptimizeTimes *bool     `json:"optimize_times,omitempty"`
	AutoRecommend *bool     `json:"auto_recommend,omitempty"`
}

// TripRequest asks for a generated itinerary.
type TripRequest struct {
	Duration    int      `json:"duration"`
	TravelStyle string   `json:"travel_style"`
	Interests   []string `json:"interests"`
	StartDate   string   `json:"start_date"`
}
