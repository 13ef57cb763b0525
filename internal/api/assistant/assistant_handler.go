package assistant

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/subodh10000/neptou-backend/internal/api"
	"github.com/subodh10000/neptou-backend/internal/types"
)

const (
	maxMessageLength   = 10000
	maxDurationDays    = 30
	maxTravelStyleLen  = 50
	maxInterests       = 20
	maxLocations       = 10
	maxLocationNameLen = 100
	maxUserNameLen     = 100
)

type Handler struct {
	assistantService Service
	logger           *slog.Logger
}

func NewHandler(assistantService Service, logger *slog.Logger) *Handler {
	return &Handler{
		assistantService: assistantService,
		logger:           logger,
	}
}

// Chat handles POST /api/v1/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Chat").Start(r.Context(), "Chat", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/chat"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Chat"))
	l.DebugContext(ctx, "Chat handler invoked")

	var req types.ChatRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.Message == "" && len(req.History) == 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Either 'message' or 'history' must be provided")
		return
	}
	if len(req.Message) > maxMessageLength {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Message too long (max 10000 characters)")
		return
	}
	for _, m := range req.History {
		if len(m.Content) > maxMessageLength {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Message too long (max 10000 characters)")
			return
		}
		if m.Role != "user" && m.Role != "assistant" {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid message role")
			return
		}
	}

	resp, err := h.assistantService.Chat(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Chat failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "An error occurred processing your request")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// PlanTrip handles POST /api/v1/plan-trip.
func (h *Handler) PlanTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlanTrip").Start(r.Context(), "PlanTrip", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/plan-trip"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "PlanTrip"))
	l.DebugContext(ctx, "Plan trip handler invoked")

	var req types.TripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.Duration < 1 || req.Duration > maxDurationDays {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Duration must be between 1 and 30 days")
		return
	}
	if req.TravelStyle == "" || len(req.TravelStyle) > maxTravelStyleLen {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid travel style")
		return
	}
	if len(req.Interests) == 0 || len(req.Interests) > maxInterests {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Interests must contain between 1 and 20 entries")
		return
	}

	itinerary, err := h.assistantService.GenerateItinerary(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Itinerary generation failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "An error occurred generating your itinerary")
		return
	}

	l.InfoContext(ctx, "Itinerary generated", slog.String("name", itinerary.Name), slog.Int("days", len(itinerary.Days)))
	api.WriteJSONResponse(w, r, http.StatusOK, itinerary)
}

// Recommendations handles POST /api/v1/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Recommendations").Start(r.Context(), "Recommendations", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/recommendations"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Recommendations"))
	l.DebugContext(ctx, "Recommendations handler invoked")

	var req types.UserProfileRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.Name == "" || len(req.Name) > maxUserNameLen {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid name")
		return
	}
	if req.TravelStyle == "" || len(req.TravelStyle) > maxTravelStyleLen {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid travel style")
		return
	}
	if len(req.Interests) > maxInterests {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Too many interests (max 20)")
		return
	}

	recs, err := h.assistantService.Recommendations(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Recommendations failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "An error occurred generating recommendations")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, recs)
}

// DestinationGuide handles POST /api/v1/destination-guide.
func (h *Handler) DestinationGuide(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DestinationGuide").Start(r.Context(), "DestinationGuide", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/destination-guide"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "DestinationGuide"))
	l.DebugContext(ctx, "Destination guide handler invoked")

	var req types.DestinationGuideRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.TravelStyle == "" || len(req.TravelStyle) > maxTravelStyleLen {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid travel style")
		return
	}
	if len(req.Interests) > maxInterests {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Too many interests (max 20)")
		return
	}
	if len(req.Locations) == 0 || len(req.Locations) > maxLocations {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid locations (max 10)")
		return
	}
	for _, location := range req.Locations {
		if len(location) > maxLocationNameLen {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Location name too long")
			return
		}
	}

	guide, err := h.assistantService.DestinationGuide(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Destination guide failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "An error occurred generating destination guide")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, guide)
}
