package optimizer

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/subodh10000/neptou-backend/app/observability/metrics"
	"github.com/subodh10000/neptou-backend/internal/types"
)

type stubLookup struct {
	places   map[string]types.PlaceLocation
	topRated map[string][]string
}

func (s *stubLookup) LookupPlace(name string) (types.PlaceLocation, bool) {
	loc, ok := s.places[name]
	return loc, ok
}

func (s *stubLookup) TopRatedInDistrict(district string, exclude []string, limit int) []string {
	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[name] = true
	}
	var names []string
	for _, name := range s.topRated[district] {
		if excluded[name] || len(names) >= limit {
			continue
		}
		names = append(names, name)
	}
	return names
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func kathmanduLookup() *stubLookup {
	return &stubLookup{
		places: map[string]types.PlaceLocation{
			"Pashupatinath Temple": {Name: "Pashupatinath Temple", Latitude: 27.7109, Longitude: 85.3488, Area: "Gaushala, Kathmandu", District: "Kathmandu"},
			"Boudhanath Stupa":     {Name: "Boudhanath Stupa", Latitude: 27.7215, Longitude: 85.3620, Area: "Boudha, Kathmandu", District: "Kathmandu"},
			"Swayambhunath":        {Name: "Swayambhunath", Latitude: 27.7149, Longitude: 85.2904, Area: "Swayambhu, Kathmandu", District: "Kathmandu"},
			"Phewa Lake":           {Name: "Phewa Lake", Latitude: 28.2132, Longitude: 83.9560, Area: "Lakeside, Pokhara", District: "Pokhara"},
			"Sarangkot":            {Name: "Sarangkot", Latitude: 28.2441, Longitude: 83.9499, Area: "Sarangkot, Pokhara", District: "Pokhara"},
		},
		topRated: map[string][]string{
			"Kathmandu": {"Pashupatinath Temple", "Boudhanath Stupa", "Swayambhunath"},
			"Pokhara":   {"Phewa Lake", "Sarangkot"},
		},
	}
}

func newTestService() *ServiceImpl {
	return NewServiceImpl(kathmanduLookup(), nil, testLogger())
}

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(types.TimeLayout, value)
	require.NoError(t, err)
	return parsed
}

func coord(v float64) *float64 { return &v }

func TestHaversineDistance(t *testing.T) {
	// Same point is zero distance
	assert.Zero(t, HaversineDistance(27.7172, 85.3240, 27.7172, 85.3240))

	// Symmetric
	there := HaversineDistance(27.7172, 85.3240, 28.2096, 83.9856)
	back := HaversineDistance(28.2096, 83.9856, 27.7172, 85.3240)
	assert.InDelta(t, there, back, 1e-9)

	// Kathmandu to Pokhara great-circle distance for these coordinates
	assert.InDelta(t, 142.39, there, 0.5)
}

func TestEstimateTravelTime_InterDistrictOverride(t *testing.T) {
	// Fixed highway time wins regardless of haversine distance
	assert.Equal(t, 360, EstimateTravelTime(1.0, types.TransportModeCar, "Kathmandu", "Pokhara"))
	assert.Equal(t, 360, EstimateTravelTime(500.0, types.TransportModeCar, "Pokhara", "Kathmandu"))
	assert.Equal(t, 720, EstimateTravelTime(10.0, types.TransportModeCar, "Kailali", "Kathmandu"))
	assert.Equal(t, 180, EstimateTravelTime(10.0, types.TransportModeCar, "Pokhara", "Chitwan"))
}

func TestEstimateTravelTime_DistanceModel(t *testing.T) {
	// 35 km by car: 1h raw, 78 min with the 1.3 buffer
	assert.Equal(t, 78, EstimateTravelTime(35, types.TransportModeCar, "Kathmandu", "Kathmandu"))

	// 4 km on foot: 1h raw, 78 min buffered
	assert.Equal(t, 78, EstimateTravelTime(4, types.TransportModeWalk, "", ""))

	// Short hops floor at 15 minutes
	assert.Equal(t, 15, EstimateTravelTime(0.5, types.TransportModeCar, "", ""))

	// Unknown districts fall through to the distance model
	assert.Equal(t, 15, EstimateTravelTime(1, types.TransportModeCar, "Mustang", "Manang"))

	// Unknown mode defaults to car speed
	assert.Equal(t, 78, EstimateTravelTime(35, types.TransportMode("bicycle"), "", ""))
}

func TestOptimizeRouteOrder_NearestNeighbor(t *testing.T) {
	// Collinear points given out of order must come back in line order
	activities := []types.Activity{
		{PlaceName: "A", Latitude: coord(0), Longitude: coord(0)},
		{PlaceName: "C", Latitude: coord(0), Longitude: coord(2)},
		{PlaceName: "B", Latitude: coord(0), Longitude: coord(1)},
	}

	ordered := optimizeRouteOrder(activities)
	require.Len(t, ordered, 3)
	assert.Equal(t, "A", ordered[0].PlaceName)
	assert.Equal(t, "B", ordered[1].PlaceName)
	assert.Equal(t, "C", ordered[2].PlaceName)
}

func TestOptimizeRouteOrder_UnlocatedGoLast(t *testing.T) {
	activities := []types.Activity{
		{PlaceName: "Mystery Cafe"},
		{PlaceName: "A", Latitude: coord(0), Longitude: coord(0)},
		{PlaceName: "B", Latitude: coord(0), Longitude: coord(1)},
	}

	ordered := optimizeRouteOrder(activities)
	require.Len(t, ordered, 3)
	assert.Equal(t, "Mystery Cafe", ordered[2].PlaceName)
}

func TestOptimizeRouteOrder_LargestDistrictFirst(t *testing.T) {
	activities := []types.Activity{
		{PlaceName: "Lone", Latitude: coord(10), Longitude: coord(10), District: "Pokhara"},
		{PlaceName: "K1", Latitude: coord(0), Longitude: coord(0), District: "Kathmandu"},
		{PlaceName: "K2", Latitude: coord(0), Longitude: coord(0.1), District: "Kathmandu"},
	}

	ordered := optimizeRouteOrder(activities)
	require.Len(t, ordered, 3)
	assert.Equal(t, "Kathmandu", ordered[0].District)
	assert.Equal(t, "Kathmandu", ordered[1].District)
	assert.Equal(t, "Lone", ordered[2].PlaceName)
}

func TestActivityDuration(t *testing.T) {
	assert.Equal(t, 90*time.Minute, activityDuration("Pashupatinath Temple", 120))
	assert.Equal(t, 90*time.Minute, activityDuration("Boudhanath Stupa", 120))
	assert.Equal(t, 150*time.Minute, activityDuration("Phewa Lake", 120))
	assert.Equal(t, 60*time.Minute, activityDuration("OR2K Restaurant", 120))
	assert.Equal(t, 120*time.Minute, activityDuration("Garden of Dreams", 120))
}

func TestResolveOverlaps_ShiftsPastConflict(t *testing.T) {
	ceiling := mustParse(t, "08:00 PM")
	firstStart := mustParse(t, "09:00 AM")
	firstEnd := firstStart.Add(90 * time.Minute)
	placed := []interval{{start: firstStart, end: firstEnd}}

	// Second activity also wants 09:00 with a 90 minute duration
	start, ok := resolveOverlaps(firstStart, 90*time.Minute, placed, ceiling)
	require.True(t, ok)
	assert.False(t, start.Before(firstEnd.Add(15*time.Minute)),
		"shifted start must be at least the prior end plus the buffer")
}

func TestResolveOverlaps_GivesUpAtCeiling(t *testing.T) {
	ceiling := mustParse(t, "08:00 PM")
	placed := []interval{{start: mustParse(t, "09:00 AM"), end: mustParse(t, "07:55 PM")}}

	_, ok := resolveOverlaps(mustParse(t, "09:30 AM"), time.Hour, placed, ceiling)
	assert.False(t, ok)
}

func TestScheduleTimeSlots_NoOverlapsAndCeiling(t *testing.T) {
	activities := []types.Activity{
		{PlaceName: "Pashupatinath Temple", Latitude: coord(27.7109), Longitude: coord(85.3488), District: "Kathmandu"},
		{PlaceName: "Boudhanath Stupa", Latitude: coord(27.7215), Longitude: coord(85.3620), District: "Kathmandu"},
		{PlaceName: "Garden of Dreams", Latitude: coord(27.7140), Longitude: coord(85.3130), District: "Kathmandu"},
		{PlaceName: "Thamel Food Walk"},
	}

	scheduled := scheduleTimeSlots(context.Background(), activities, "09:00 AM", 120, nil, testLogger())
	require.NotEmpty(t, scheduled)

	ceiling := mustParse(t, "08:00 PM")
	type span struct{ start, end time.Time }
	var spans []span
	for _, act := range scheduled {
		start := mustParse(t, act.StartTime)
		end := mustParse(t, act.EndTime)
		assert.True(t, start.Before(ceiling), "%s starts past the ceiling", act.PlaceName)
		assert.True(t, end.After(start))
		spans = append(spans, span{start, end})
	}
	for i := range spans {
		for j := i + 1; j < len(spans); j++ {
			noOverlap := !spans[i].start.Before(spans[j].end) || !spans[j].start.Before(spans[i].end)
			assert.True(t, noOverlap, "activities %d and %d overlap", i, j)
		}
	}

	// First activity starts the day with no travel offset
	assert.Equal(t, "09:00 AM", scheduled[0].StartTime)
	// Temple keyword cuts the first visit to 90 minutes
	assert.Equal(t, "10:30 AM", scheduled[0].EndTime)
}

func TestScheduleTimeSlots_DropsLateActivities(t *testing.T) {
	// Six long nature visits cannot all fit between 09:00 and 20:00
	var activities []types.Activity
	for _, name := range []string{"Phewa Lake", "Begnas Lake", "Rupa Lake", "Sarangkot Hill", "Davis Falls Park", "World Peace Hill"} {
		activities = append(activities, types.Activity{PlaceName: name})
	}

	scheduled := scheduleTimeSlots(context.Background(), activities, "09:00 AM", 120, nil, testLogger())
	assert.Less(t, len(scheduled), len(activities))
	for _, act := range scheduled {
		assert.True(t, mustParse(t, act.StartTime).Before(mustParse(t, "08:00 PM")))
	}
}

func TestScheduleTimeSlots_CountsDroppedActivities(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	appMetrics, err := metrics.NewAppMetrics(provider.Meter("test"))
	require.NoError(t, err)

	// More long nature visits than fit between 09:00 and the evening ceiling
	var activities []types.Activity
	for _, name := range []string{"Phewa Lake", "Begnas Lake", "Rupa Lake", "Sarangkot Hill", "Davis Falls Park", "World Peace Hill"} {
		activities = append(activities, types.Activity{PlaceName: name})
	}

	scheduled := scheduleTimeSlots(context.Background(), activities, "09:00 AM", 120, appMetrics, testLogger())
	dropped := len(activities) - len(scheduled)
	require.Positive(t, dropped)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "itinerary_activities_dropped_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	assert.Equal(t, int64(dropped), total)
}

func TestScheduleTimeSlots_InterDistrictTravelGap(t *testing.T) {
	activities := []types.Activity{
		{PlaceName: "Pashupatinath Temple", Latitude: coord(27.7109), Longitude: coord(85.3488), District: "Kathmandu"},
		{PlaceName: "Phewa Lake", Latitude: coord(28.2132), Longitude: coord(83.9560), District: "Pokhara"},
	}

	scheduled := scheduleTimeSlots(context.Background(), activities, "09:00 AM", 120, nil, testLogger())
	require.Len(t, scheduled, 2)

	// Temple ends 10:30, plus the fixed 6 hour highway leg
	assert.Equal(t, "04:30 PM", scheduled[1].StartTime)
}

func TestOptimize_RemovesDuplicates(t *testing.T) {
	svc := newTestService()
	itinerary := types.Itinerary{
		Name: "Kathmandu Weekend",
		Days: []types.Day{{
			DayNumber: 1,
			Activities: []types.Activity{
				{PlaceName: "Pashupatinath Temple"},
				{PlaceName: "Boudhanath Stupa"},
				{PlaceName: "Pashupatinath Temple"},
				{PlaceName: "  "},
			},
		}},
	}

	out := svc.Optimize(context.Background(), itinerary, Options{OptimizeTimes: true})
	require.Len(t, out.Days, 1)

	seen := map[string]bool{}
	for _, act := range out.Days[0].Activities {
		assert.False(t, seen[act.PlaceName], "duplicate %s", act.PlaceName)
		seen[act.PlaceName] = true
	}
	assert.NotContains(t, seen, "")
}

func TestOptimize_CollapsesToDominantDistrict(t *testing.T) {
	svc := newTestService()
	itinerary := types.Itinerary{
		Days: []types.Day{{
			DayNumber: 1,
			Activities: []types.Activity{
				{PlaceName: "Pashupatinath Temple"},
				{PlaceName: "Boudhanath Stupa"},
				{PlaceName: "Phewa Lake"},
			},
		}},
	}

	out := svc.Optimize(context.Background(), itinerary, Options{OptimizeRoute: true, OptimizeTimes: true})
	require.Len(t, out.Days, 1)
	day := out.Days[0]
	assert.Equal(t, "Kathmandu", day.District)
	for _, act := range day.Activities {
		assert.NotEqual(t, "Phewa Lake", act.PlaceName)
	}
}

func TestOptimize_DeclaredDistrictFiltersKnownOutsiders(t *testing.T) {
	svc := newTestService()
	itinerary := types.Itinerary{
		Days: []types.Day{
			{
				DayNumber: 1,
				District:  "Pokhara",
				Activities: []types.Activity{
					{PlaceName: "Phewa Lake"},
					{PlaceName: "Pashupatinath Temple"},
				},
			},
			{
				DayNumber: 2,
				District:  "Pokhara",
				Activities: []types.Activity{
					{PlaceName: "Unknown Rooftop Bar"},
				},
			},
		},
	}

	out := svc.Optimize(context.Background(), itinerary, Options{OptimizeTimes: true})
	require.Len(t, out.Days, 2)

	day1 := out.Days[0]
	assert.Equal(t, "Pokhara", day1.District)
	require.Len(t, day1.Activities, 1)
	// Known Kathmandu place contradicts the declared district and is dropped
	assert.Equal(t, "Phewa Lake", day1.Activities[0].PlaceName)

	// Unresolved place contradicts nothing and stays
	day2 := out.Days[1]
	require.Len(t, day2.Activities, 1)
	assert.Equal(t, "Unknown Rooftop Bar", day2.Activities[0].PlaceName)
}

func TestOptimize_AutoRecommendFillsSparseDay(t *testing.T) {
	svc := newTestService()
	itinerary := types.Itinerary{
		Days: []types.Day{{
			DayNumber:  1,
			District:   "Kathmandu",
			Activities: []types.Activity{{PlaceName: "Pashupatinath Temple"}},
		}},
	}

	out := svc.Optimize(context.Background(), itinerary, DefaultOptions())
	require.Len(t, out.Days, 1)
	day := out.Days[0]
	assert.Len(t, day.Activities, 3)

	seen := map[string]bool{}
	for _, act := range day.Activities {
		assert.False(t, seen[act.PlaceName])
		seen[act.PlaceName] = true
	}
}

func TestOptimize_EmptyNameDefaults(t *testing.T) {
	svc := newTestService()
	out := svc.Optimize(context.Background(), types.Itinerary{}, DefaultOptions())
	assert.Equal(t, "Optimized Trip", out.Name)
	assert.Empty(t, out.Days)
}

func TestOptimize_DisabledPassesPreserveInput(t *testing.T) {
	svc := newTestService()
	itinerary := types.Itinerary{
		Name: "As Planned",
		Days: []types.Day{{
			DayNumber: 1,
			Activities: []types.Activity{
				{PlaceName: "Boudhanath Stupa", StartTime: "10:00 AM", EndTime: "11:30 AM"},
				{PlaceName: "Pashupatinath Temple", StartTime: "01:00 PM", EndTime: "02:30 PM"},
			},
		}},
	}

	out := svc.Optimize(context.Background(), itinerary, Options{})
	require.Len(t, out.Days, 1)
	require.Len(t, out.Days[0].Activities, 2)
	assert.Equal(t, "Boudhanath Stupa", out.Days[0].Activities[0].PlaceName)
	assert.Equal(t, "10:00 AM", out.Days[0].Activities[0].StartTime)
}

func TestCalculateTravelLegs(t *testing.T) {
	activities := []types.Activity{
		{PlaceName: "Pashupatinath Temple", Latitude: coord(27.7109), Longitude: coord(85.3488), District: "Kathmandu"},
		{PlaceName: "Phewa Lake", Latitude: coord(28.2132), Longitude: coord(83.9560), District: "Pokhara"},
		{PlaceName: "Mystery Spot"},
	}

	legs := CalculateTravelLegs(activities)
	require.Len(t, legs, 2)

	require.NotNil(t, legs[0].TravelTimeMinutes)
	assert.Equal(t, 360, *legs[0].TravelTimeMinutes)
	require.NotNil(t, legs[0].DistanceKm)

	assert.Nil(t, legs[1].DistanceKm)
	assert.Nil(t, legs[1].TravelTimeMinutes)
}

func TestBalanceActivitiesPerDay(t *testing.T) {
	svc := newTestService()
	activities := make([]types.Activity, 7)
	for i := range activities {
		activities[i] = types.Activity{PlaceName: string(rune('A' + i))}
	}

	days := svc.BalanceActivitiesPerDay(activities, 3)
	require.Len(t, days, 3)
	// Remainder front-loads
	assert.Len(t, days[0], 3)
	assert.Len(t, days[1], 2)
	assert.Len(t, days[2], 2)

	days = svc.BalanceActivitiesPerDay(activities, 0)
	require.Len(t, days, 1)
	assert.Len(t, days[0], 7)
}
