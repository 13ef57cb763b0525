package trips

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/subodh10000/neptou-backend/internal/api"
	"github.com/subodh10000/neptou-backend/internal/types"
)

const maxTripNameLength = 200

type Handler struct {
	tripsService Service
	logger       *slog.Logger
}

func NewHandler(tripsService Service, logger *slog.Logger) *Handler {
	return &Handler{
		tripsService: tripsService,
		logger:       logger,
	}
}

// SaveTrip handles POST /api/v1/trips.
func (h *Handler) SaveTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SaveTrip").Start(r.Context(), "SaveTrip", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/trips"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SaveTrip"))

	var req types.SaveTripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if len(req.Name) > maxTripNameLength {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Trip name must be at most 200 characters")
		return
	}
	if len(req.Itinerary.Days) == 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Itinerary with at least one day is required")
		return
	}

	trip, err := h.tripsService.SaveTrip(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to save trip", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to save trip")
		return
	}

	l.InfoContext(ctx, "Trip saved", slog.String("trip_id", trip.ID.String()))
	api.WriteJSONResponse(w, r, http.StatusCreated, trip)
}

// ListTrips handles GET /api/v1/trips.
func (h *Handler) ListTrips(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ListTrips").Start(r.Context(), "ListTrips", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/trips"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "ListTrips"))

	trips, err := h.tripsService.ListTrips(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list trips", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list trips")
		return
	}
	if trips == nil {
		trips = []*types.SavedTrip{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{
		"trips": trips,
		"count": len(trips),
	})
}

// GetTrip handles GET /api/v1/trips/{tripID}.
func (h *Handler) GetTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GetTrip").Start(r.Context(), "GetTrip", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/trips/{tripID}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetTrip"))

	tripID, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID format")
		return
	}

	trip, err := h.tripsService.GetTrip(ctx, tripID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
			return
		}
		l.ErrorContext(ctx, "Failed to get trip", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get trip")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, trip)
}
