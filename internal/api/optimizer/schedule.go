package optimizer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/subodh10000/neptou-backend/app/observability/metrics"
	"github.com/subodh10000/neptou-backend/internal/types"
)

const (
	defaultDayStart        = "09:00 AM"
	dayCeiling             = "08:00 PM"
	defaultDurationMinutes = 120
	overlapBufferMinutes   = 15
	minActivityMinutes     = 30
)

// activityDuration picks a visit length from coarse keywords in the place
// name, falling back to the caller default.
func activityDuration(placeName string, defaultMinutes int) time.Duration {
	name := strings.ToLower(placeName)
	switch {
	case containsAnyWord(name, "temple", "stupa", "durbar", "monastery"):
		return 90 * time.Minute
	case containsAnyWord(name, "lake", "park", "viewpoint", "hill"):
		return 150 * time.Minute
	case containsAnyWord(name, "restaurant", "cafe", "food"):
		return 60 * time.Minute
	default:
		return time.Duration(defaultMinutes) * time.Minute
	}
}

func containsAnyWord(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

type interval struct {
	start time.Time
	end   time.Time
}

// resolveOverlaps shifts a candidate interval forward until it clears every
// placed interval with the required buffer. Each pass computes the maximum
// forward shift demanded by the placed set, so the loop settles in at most
// len(placed) passes. Returns false when the shifted start reaches the ceiling.
func resolveOverlaps(start time.Time, duration time.Duration, placed []interval, ceiling time.Time) (time.Time, bool) {
	for pass := 0; pass <= len(placed); pass++ {
		required := start
		end := start.Add(duration)
		for _, iv := range placed {
			if start.Before(iv.end) && end.After(iv.start) {
				if shifted := iv.end.Add(overlapBufferMinutes * time.Minute); shifted.After(required) {
					required = shifted
				}
			}
		}
		if required.Equal(start) {
			return start, true
		}
		start = required
		if !start.Before(ceiling) {
			return time.Time{}, false
		}
	}
	return start, true
}

// scheduleState is the fold accumulator for time-slot assignment: the placed
// schedule plus the trailing time cursor.
type scheduleState struct {
	scheduled []types.Activity
	placed    []interval
	cursor    time.Time
}

// scheduleTimeSlots assigns non-overlapping time slots starting from dayStart.
// Each activity folds into the running schedule: travel time from its
// predecessor pushes its start, keyword-derived duration sets its end, and
// anything that cannot fit before the evening ceiling is dropped.
func scheduleTimeSlots(ctx context.Context, activities []types.Activity, dayStart string, defaultMinutes int, appMetrics *metrics.AppMetrics, logger *slog.Logger) []types.Activity {
	if len(activities) == 0 {
		return nil
	}

	startOfDay, err := time.Parse(types.TimeLayout, dayStart)
	if err != nil {
		startOfDay, _ = time.Parse(types.TimeLayout, defaultDayStart)
	}
	ceiling, _ := time.Parse(types.TimeLayout, dayCeiling)

	state := scheduleState{cursor: startOfDay}
	for i := range activities {
		state = placeActivity(ctx, state, activities, i, defaultMinutes, ceiling, appMetrics, logger)
	}
	return state.scheduled
}

func recordDrop(ctx context.Context, appMetrics *metrics.AppMetrics, reason string) {
	if appMetrics != nil {
		appMetrics.DroppedActivitiesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
}

// placeActivity folds one activity into the schedule, returning the new state.
// Skipped activities leave the state unchanged.
func placeActivity(ctx context.Context, state scheduleState, activities []types.Activity, i int, defaultMinutes int, ceiling time.Time, appMetrics *metrics.AppMetrics, logger *slog.Logger) scheduleState {
	act := activities[i]
	duration := activityDuration(act.PlaceName, defaultMinutes)

	// Travel from the preceding activity, zero when either end is unresolved
	var travel time.Duration
	if i > 0 && act.HasCoordinates() {
		prev := activities[i-1]
		if prev.HasCoordinates() {
			distance := HaversineDistance(*prev.Latitude, *prev.Longitude, *act.Latitude, *act.Longitude)
			minutes := EstimateTravelTime(distance, types.TransportModeCar, prev.District, act.District)
			travel = time.Duration(minutes) * time.Minute
		}
	}

	start := state.cursor.Add(travel)
	if !start.Before(ceiling) {
		logger.WarnContext(ctx, "Dropping activity that would start past the evening ceiling",
			slog.String("place", act.PlaceName),
			slog.String("start", start.Format(types.TimeLayout)))
		recordDrop(ctx, appMetrics, "past_ceiling")
		return state
	}

	end := start.Add(duration)
	if end.After(ceiling) {
		end = ceiling
		duration = end.Sub(start)
		if duration < minActivityMinutes*time.Minute {
			logger.WarnContext(ctx, "Dropping activity with not enough time before the evening ceiling",
				slog.String("place", act.PlaceName))
			recordDrop(ctx, appMetrics, "too_short")
			return state
		}
	}

	start, ok := resolveOverlaps(start, duration, state.placed, ceiling)
	if !ok {
		logger.WarnContext(ctx, "Dropping activity that cannot be placed without conflicts",
			slog.String("place", act.PlaceName))
		recordDrop(ctx, appMetrics, "conflict")
		return state
	}
	end = start.Add(duration)

	act.StartTime = start.Format(types.TimeLayout)
	act.EndTime = end.Format(types.TimeLayout)

	return scheduleState{
		scheduled: append(state.scheduled, act),
		placed:    append(state.placed, interval{start: start, end: end}),
		cursor:    end,
	}
}
