package metrics

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments. Constructed once at
// startup and injected into the components that record on them.
type AppMetrics struct {
	SearchRequestsTotal      metric.Int64Counter
	SearchDurationSeconds    metric.Float64Histogram
	ModelCallsTotal          metric.Int64Counter
	ModelCallDurationSeconds metric.Float64Histogram
	OptimizeRunsTotal        metric.Int64Counter
	DroppedActivitiesTotal   metric.Int64Counter
}

// NewAppMetrics creates the metric instruments on the given meter.
func NewAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	m := &AppMetrics{}
	var err error

	m.SearchRequestsTotal, err = meter.Int64Counter(
		"search_requests_total",
		metric.WithDescription("Total number of knowledge base search requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create search_requests_total: %w", err)
	}

	m.SearchDurationSeconds, err = meter.Float64Histogram(
		"search_duration_seconds",
		metric.WithDescription("Duration of knowledge base searches in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create search_duration_seconds: %w", err)
	}

	m.ModelCallsTotal, err = meter.Int64Counter(
		"model_calls_total",
		metric.WithDescription("Total number of generative model calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create model_calls_total: %w", err)
	}

	m.ModelCallDurationSeconds, err = meter.Float64Histogram(
		"model_call_duration_seconds",
		metric.WithDescription("Duration of generative model calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create model_call_duration_seconds: %w", err)
	}

	m.OptimizeRunsTotal, err = meter.Int64Counter(
		"optimize_runs_total",
		metric.WithDescription("Total number of itinerary optimizer runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create optimize_runs_total: %w", err)
	}

	m.DroppedActivitiesTotal, err = meter.Int64Counter(
		"itinerary_activities_dropped_total",
		metric.WithDescription("Total number of activities dropped during itinerary scheduling"),
		metric.WithUnit("{activity}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create itinerary_activities_dropped_total: %w", err)
	}

	return m, nil
}
