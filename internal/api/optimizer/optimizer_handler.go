package optimizer

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/subodh10000/neptou-backend/app/observability/metrics"
	"github.com/subodh10000/neptou-backend/internal/api"
	"github.com/subodh10000/neptou-backend/internal/types"
)

const maxDaysPerItinerary = 30

type Handler struct {
	optimizerService Service
	appMetrics       *metrics.AppMetrics
	logger           *slog.Logger
}

func NewHandler(optimizerService Service, appMetrics *metrics.AppMetrics, logger *slog.Logger) *Handler {
	return &Handler{
		optimizerService: optimizerService,
		appMetrics:       appMetrics,
		logger:           logger,
	}
}

// OptimizeItinerary handles POST /api/v1/optimize-itinerary.
func (h *Handler) OptimizeItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("OptimizeItinerary").Start(r.Context(), "OptimizeItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/optimize-itinerary"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "OptimizeItinerary"))
	l.DebugContext(ctx, "Optimize itinerary handler invoked")

	var req types.OptimizeItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if len(req.Itinerary.Days) == 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Itinerary must contain at least one day")
		return
	}
	if len(req.Itinerary.Days) > maxDaysPerItinerary {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Itinerary must not exceed 30 days")
		return
	}

	opts := DefaultOptions()
	if req.OptimizeRoute != nil {
		opts.OptimizeRoute = *req.OptimizeRoute
	}
	if req.OptimizeTimes != nil {
		opts.OptimizeTimes = *req.OptimizeTimes
	}
	if req.AutoRecommend != nil {
		opts.AutoRecommend = *req.AutoRecommend
	}

	optimized := h.optimizerService.Optimize(ctx, req.Itinerary, opts)
	if h.appMetrics != nil {
		h.appMetrics.OptimizeRunsTotal.Add(ctx, 1)
	}

	l.InfoContext(ctx, "Itinerary optimized",
		slog.String("name", optimized.Name),
		slog.Int("days", len(optimized.Days)))
	api.WriteJSONResponse(w, r, http.StatusOK, optimized)
}
