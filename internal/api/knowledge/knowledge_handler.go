package knowledge

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/subodh10000/neptou-backend/internal/api"
	"github.com/subodh10000/neptou-backend/internal/types"
)

const maxPlacesLimit = 500

type Handler struct {
	dataset *Dataset
	logger  *slog.Logger
}

func NewHandler(dataset *Dataset, logger *slog.Logger) *Handler {
	return &Handler{
		dataset: dataset,
		logger:  logger,
	}
}

// ListPlaces handles GET /api/v1/places with optional category, area, search
// and limit query parameters.
func (h *Handler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ListPlaces").Start(r.Context(), "ListPlaces", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/places"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "ListPlaces"))

	filter := PlaceFilter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Area:     strings.TrimSpace(r.URL.Query().Get("area")),
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
	}
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil || limit < 1 {
			api.ErrorResponse(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if limit > maxPlacesLimit {
			limit = maxPlacesLimit
		}
		filter.Limit = limit
	}

	places, total := h.dataset.FilterPlaces(filter)
	if places == nil {
		places = []types.TourismPlace{}
	}

	l.DebugContext(ctx, "Places listed",
		slog.Int("matched", len(places)),
		slog.Int("total", total))
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{
		"places": places,
		"count":  len(places),
		"total":  total,
	})
}

// ListEmergencyContacts handles GET /api/v1/emergency-contacts with optional
// location and category query parameters.
func (h *Handler) ListEmergencyContacts(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer("ListEmergencyContacts").Start(r.Context(), "ListEmergencyContacts", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/emergency-contacts"),
	))
	defer span.End()

	contacts := EmergencyContacts
	if location := strings.TrimSpace(r.URL.Query().Get("location")); location != "" {
		contacts = EmergencyContactsByLocation(location)
	}
	if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
		filtered := make([]types.EmergencyContact, 0, len(contacts))
		for _, c := range contacts {
			if c.Category == category {
				filtered = append(filtered, c)
			}
		}
		contacts = filtered
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{
		"contacts": contacts,
		"count":    len(contacts),
	})
}
