package optimizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/subodh10000/neptou-backend/app/observability/metrics"
	"github.com/subodh10000/neptou-backend/internal/types"
)

// PlaceLookup resolves place names against the static tourism dataset and
// supplies ranked fill-in candidates per district.
type PlaceLookup interface {
	LookupPlace(name string) (types.PlaceLocation, bool)
	TopRatedInDistrict(district string, exclude []string, limit int) []string
}

// Options toggles the optimizer's three passes. Zero value enables all.
type Options struct {
	OptimizeRoute bool
	OptimizeTimes bool
	AutoRecommend bool
}

// DefaultOptions enables every pass.
func DefaultOptions() Options {
	return Options{OptimizeRoute: true, OptimizeTimes: true, AutoRecommend: true}
}

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service validates and repairs itineraries: deduplicated activities,
// district-consistent days, route-efficient ordering and conflict-free
// time slots.
type Service interface {
	Optimize(ctx context.Context, itinerary types.Itinerary, opts Options) types.Itinerary
	BalanceActivitiesPerDay(activities []types.Activity, numDays int) [][]types.Activity
}

type ServiceImpl struct {
	logger     *slog.Logger
	lookup     PlaceLookup
	appMetrics *metrics.AppMetrics
}

func NewServiceImpl(lookup PlaceLookup, appMetrics *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		lookup:     lookup,
		appMetrics: appMetrics,
	}
}

const (
	maxAutoRecommendTotal = 3
	sparseDayThreshold    = 2
	recommendCandidates   = 5
)

// Optimize runs the per-day repair pipeline over the whole itinerary. The
// input is never mutated; days always come back, possibly with fewer
// activities than they arrived with.
func (s *ServiceImpl) Optimize(ctx context.Context, itinerary types.Itinerary, opts Options) types.Itinerary {
	ctx, span := otel.Tracer("OptimizerService").Start(ctx, "Optimize")
	defer span.End()
	span.SetAttributes(
		attribute.Int("optimizer.days", len(itinerary.Days)),
		attribute.Bool("optimizer.route", opts.OptimizeRoute),
		attribute.Bool("optimizer.times", opts.OptimizeTimes),
		attribute.Bool("optimizer.auto_recommend", opts.AutoRecommend),
	)

	name := itinerary.Name
	if name == "" {
		name = "Optimized Trip"
	}
	out := types.Itinerary{
		Name: name,
		Days: make([]types.Day, 0, len(itinerary.Days)),
	}
	for _, day := range itinerary.Days {
		out.Days = append(out.Days, s.optimizeDay(ctx, day, opts))
	}

	span.SetStatus(codes.Ok, "Itinerary optimized")
	return out
}

func (s *ServiceImpl) optimizeDay(ctx context.Context, day types.Day, opts Options) types.Day {
	activities := s.resolveActivities(dedupeActivities(day.Activities))

	// A declared day district drops activities known to be elsewhere;
	// unresolved activities stay since they contradict nothing.
	if day.District != "" {
		kept := activities[:0]
		for _, act := range activities {
			if act.District == "" || act.District == day.District {
				kept = append(kept, act)
			}
		}
		activities = kept
	}

	if opts.AutoRecommend && len(activities) < sparseDayThreshold {
		activities = s.fillSparseDay(ctx, day, activities)
	}

	activities = s.collapseToMainDistrict(ctx, day.DayNumber, activities)

	if opts.OptimizeRoute && len(activities) > 1 {
		activities = optimizeRouteOrder(activities)
	}
	if opts.OptimizeTimes && len(activities) > 0 {
		activities = scheduleTimeSlots(ctx, activities, defaultDayStart, defaultDurationMinutes, s.appMetrics, s.logger)
	}

	district := day.District
	if district == "" {
		district = majorityDistrict(activities)
	}

	// Working state (coordinates, district) never serializes back
	cleaned := make([]types.Activity, 0, len(activities))
	for _, act := range activities {
		cleaned = append(cleaned, types.Activity{
			PlaceName: act.PlaceName,
			Notes:     act.Notes,
			StartTime: act.StartTime,
			EndTime:   act.EndTime,
		})
	}

	return types.Day{
		DayNumber:  day.DayNumber,
		District:   district,
		Activities: cleaned,
	}
}

// dedupeActivities keeps the first occurrence of each place name and drops
// activities with blank names.
func dedupeActivities(activities []types.Activity) []types.Activity {
	seen := make(map[string]bool, len(activities))
	unique := make([]types.Activity, 0, len(activities))
	for _, act := range activities {
		name := strings.TrimSpace(act.PlaceName)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		act.PlaceName = name
		unique = append(unique, act)
	}
	return unique
}

// resolveActivities attaches coordinates and district from the dataset.
// Unresolvable places keep nil coordinates and still get scheduled.
func (s *ServiceImpl) resolveActivities(activities []types.Activity) []types.Activity {
	resolved := make([]types.Activity, 0, len(activities))
	for _, act := range activities {
		if loc, ok := s.lookup.LookupPlace(act.PlaceName); ok {
			lat, lon := loc.Latitude, loc.Longitude
			act.Latitude = &lat
			act.Longitude = &lon
			if loc.District != "" {
				act.District = loc.District
			} else {
				act.District = loc.Area
			}
		}
		resolved = append(resolved, act)
	}
	return resolved
}

// fillSparseDay pads a near-empty day with the district's best-rated places,
// up to three activities total. Recommendations land in a default afternoon
// slot and get re-timed by the scheduling pass.
func (s *ServiceImpl) fillSparseDay(ctx context.Context, day types.Day, activities []types.Activity) []types.Activity {
	district := day.District
	if district == "" {
		district = majorityDistrict(activities)
	}
	if district == "" {
		return activities
	}

	existing := make([]string, 0, len(activities))
	for _, act := range activities {
		existing = append(existing, act.PlaceName)
	}

	recommended := s.lookup.TopRatedInDistrict(district, existing, recommendCandidates)
	toAdd := maxAutoRecommendTotal - len(activities)
	if toAdd > len(recommended) {
		toAdd = len(recommended)
	}

	for _, name := range recommended[:max(toAdd, 0)] {
		act := types.Activity{
			PlaceName: name,
			Notes:     fmt.Sprintf("Recommended place in %s", district),
			StartTime: "02:00 PM",
			EndTime:   "04:00 PM",
		}
		if loc, ok := s.lookup.LookupPlace(name); ok {
			lat, lon := loc.Latitude, loc.Longitude
			act.Latitude = &lat
			act.Longitude = &lon
			act.District = loc.District
		}
		s.logger.InfoContext(ctx, "Auto-recommended activity for sparse day",
			slog.Int("day", day.DayNumber),
			slog.String("place", name),
			slog.String("district", district))
		activities = append(activities, act)
	}
	return activities
}

// collapseToMainDistrict keeps only the district with the most activities
// when a day spans several, so one day never schedules cross-district hops.
func (s *ServiceImpl) collapseToMainDistrict(ctx context.Context, dayNumber int, activities []types.Activity) []types.Activity {
	groups := map[string][]types.Activity{}
	var order []string
	for _, act := range activities {
		district := act.District
		if district == "" {
			district = "Unknown"
		}
		if _, seen := groups[district]; !seen {
			order = append(order, district)
		}
		groups[district] = append(groups[district], act)
	}
	if len(groups) <= 1 {
		return activities
	}

	main := order[0]
	for _, district := range order[1:] {
		if len(groups[district]) > len(groups[main]) {
			main = district
		}
	}
	s.logger.WarnContext(ctx, "Multiple districts in one day, keeping the dominant one",
		slog.Int("day", dayNumber),
		slog.String("district", main))
	return groups[main]
}

// majorityDistrict returns the most common non-empty district, ties broken by
// first appearance.
func majorityDistrict(activities []types.Activity) string {
	counts := map[string]int{}
	var order []string
	for _, act := range activities {
		if act.District == "" {
			continue
		}
		if counts[act.District] == 0 {
			order = append(order, act.District)
		}
		counts[act.District]++
	}
	best := ""
	for _, district := range order {
		if best == "" || counts[district] > counts[best] {
			best = district
		}
	}
	return best
}

// BalanceActivitiesPerDay splits a flat activity list evenly across numDays,
// front-loading the remainder.
func (s *ServiceImpl) BalanceActivitiesPerDay(activities []types.Activity, numDays int) [][]types.Activity {
	if numDays <= 0 {
		return [][]types.Activity{activities}
	}

	perDay := len(activities) / numDays
	remainder := len(activities) % numDays

	days := make([][]types.Activity, 0, numDays)
	start := 0
	for day := 0; day < numDays; day++ {
		count := perDay
		if day < remainder {
			count++
		}
		days = append(days, activities[start:start+count])
		start += count
	}
	return days
}
