package search

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/subodh10000/neptou-backend/app/observability/metrics"
	"github.com/subodh10000/neptou-backend/internal/api"
	"github.com/subodh10000/neptou-backend/internal/types"
)

const (
	maxQueryLength  = 200
	defaultTopK     = 5
	maxTopK         = 20
	defaultMinScore = 0.3
)

type Handler struct {
	searchService Service
	appMetrics    *metrics.AppMetrics
	logger        *slog.Logger
}

func NewHandler(searchService Service, appMetrics *metrics.AppMetrics, logger *slog.Logger) *Handler {
	return &Handler{
		searchService: searchService,
		appMetrics:    appMetrics,
		logger:        logger,
	}
}

// SearchKnowledgeBase handles POST /api/v1/search.
func (h *Handler) SearchKnowledgeBase(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SearchKnowledgeBase").Start(r.Context(), "SearchKnowledgeBase", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/search"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SearchKnowledgeBase"))
	l.DebugContext(ctx, "Search handler invoked")

	var req types.SearchRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Query is required")
		return
	}
	if len(req.Query) > maxQueryLength {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Query must be at most 200 characters")
		return
	}
	if req.TopK <= 0 {
		req.TopK = defaultTopK
	}
	if req.TopK > maxTopK {
		req.TopK = maxTopK
	}
	minScore := defaultMinScore
	if req.MinScore != nil {
		if *req.MinScore < 0 || *req.MinScore > 1 {
			api.ErrorResponse(w, r, http.StatusBadRequest, "min_score must be between 0 and 1")
			return
		}
		minScore = *req.MinScore
	}

	start := time.Now()
	results, err := h.searchService.Search(ctx, req.Query, req.TopK, minScore)
	if h.appMetrics != nil {
		h.appMetrics.SearchRequestsTotal.Add(ctx, 1)
		h.appMetrics.SearchDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}
	if err != nil {
		l.ErrorContext(ctx, "Search failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Search failed")
		return
	}

	resp := types.SearchResponse{
		Query:   req.Query,
		Results: make([]types.SearchResult, 0, len(results)),
	}
	for _, sr := range results {
		resp.Results = append(resp.Results, toSearchResult(sr))
	}
	resp.Count = len(resp.Results)

	l.InfoContext(ctx, "Search completed",
		slog.String("query", req.Query),
		slog.Int("results", len(resp.Results)))
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

func toSearchResult(sr types.ScoredEntry) types.SearchResult {
	res := types.SearchResult{
		Name:            sr.Entry.Name,
		Type:            string(sr.Entry.Kind),
		SimilarityScore: sr.Score,
	}
	switch sr.Entry.Kind {
	case types.EntryKindPlace:
		if p := sr.Entry.Place; p != nil {
			res.Category = p.Category
			res.Area = p.Area
			res.Description = p.Description
			res.Tags = p.Tags
		}
	case types.EntryKindLocalInsight:
		if in := sr.Entry.Insight; in != nil {
			res.Area = in.District
			res.Description = in.Content
			res.Tags = in.Tags
		}
	case types.EntryKindEmergencyContact:
		if c := sr.Entry.Contact; c != nil {
			res.Category = c.Category
			res.Area = c.Location
			res.Description = c.Description + " Phone: " + c.Phone
		}
	case types.EntryKindGuide:
		if g := sr.Entry.Guide; g != nil {
			res.Category = "guide"
			res.Area = g.Area
			res.Description = g.Bio
			res.Tags = g.Specialties
		}
	}
	return res
}
