package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/subodh10000/neptou-backend/internal/types"
)

// Embedder produces query vectors for free-text search input.
type Embedder interface {
	GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error)
}

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service defines semantic retrieval over the knowledge-base index.
type Service interface {
	// Search returns the top-K entries whose embeddings are most similar to
	// the query, filtered by minScore, ordered by descending similarity.
	Search(ctx context.Context, query string, topK int, minScore float64) ([]types.ScoredEntry, error)
	// SimilarEntries ranks entries related to a named entry by embedding
	// similarity, restricted to entries sharing its category or a tag.
	SimilarEntries(ctx context.Context, name string, minScore float64) []types.ScoredEntry
	// EntriesByNames returns the entries whose names match (case-insensitive).
	EntriesByNames(names []string) []types.IndexEntry
	// Size reports the number of indexed entries.
	Size() int
}

// ServiceImpl provides an in-memory brute-force cosine index. The collection
// is immutable after construction, so lookups need no locking.
type ServiceImpl struct {
	logger   *slog.Logger
	embedder Embedder
	entries  []types.IndexEntry
}

// NewServiceImpl creates the search service over a loaded entry collection.
func NewServiceImpl(entries []types.IndexEntry, embedder Embedder, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		embedder: embedder,
		entries:  entries,
	}
}

func (s *ServiceImpl) Size() int { return len(s.entries) }

func (s *ServiceImpl) Search(ctx context.Context, query string, topK int, minScore float64) ([]types.ScoredEntry, error) {
	ctx, span := otel.Tracer("SearchService").Start(ctx, "Search")
	defer span.End()
	span.SetAttributes(
		attribute.String("search.query", query),
		attribute.Int("search.top_k", topK),
		attribute.Float64("search.min_score", minScore),
	)

	if strings.TrimSpace(query) == "" {
		err := fmt.Errorf("search query must not be empty")
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid query")
		return nil, err
	}
	if topK < 1 {
		err := fmt.Errorf("topK must be at least 1, got %d", topK)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid topK")
		return nil, err
	}
	if minScore < 0 || minScore > 1 {
		err := fmt.Errorf("minScore must be in [0, 1], got %g", minScore)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid minScore")
		return nil, err
	}

	// Degraded mode: an empty index answers every query with no results and
	// no embedding round-trip.
	if len(s.entries) == 0 {
		span.SetStatus(codes.Ok, "Empty index")
		return []types.ScoredEntry{}, nil
	}

	queryVec, err := s.embedder.GenerateQueryEmbedding(ctx, query)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to embed search query", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Embedding failed")
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	scored := s.rank(ctx, queryVec, minScore, func(types.IndexEntry) bool { return true })
	if len(scored) > topK {
		scored = scored[:topK]
	}

	span.SetAttributes(attribute.Int("search.results", len(scored)))
	span.SetStatus(codes.Ok, "Search completed")
	return scored, nil
}

func (s *ServiceImpl) SimilarEntries(ctx context.Context, name string, minScore float64) []types.ScoredEntry {
	ctx, span := otel.Tracer("SearchService").Start(ctx, "SimilarEntries")
	defer span.End()
	span.SetAttributes(attribute.String("search.entry", name))

	var anchor *types.IndexEntry
	for i := range s.entries {
		if strings.EqualFold(s.entries[i].Name, name) {
			anchor = &s.entries[i]
			break
		}
	}
	if anchor == nil || len(anchor.Embedding) == 0 {
		span.SetStatus(codes.Ok, "Anchor not found")
		return nil
	}

	anchorCategory, anchorTags := entryCategoryAndTags(*anchor)
	related := s.rank(ctx, anchor.Embedding, minScore, func(e types.IndexEntry) bool {
		if strings.EqualFold(e.Name, anchor.Name) {
			return false
		}
		category, tags := entryCategoryAndTags(e)
		if anchorCategory != "" && strings.EqualFold(category, anchorCategory) {
			return true
		}
		for _, t := range tags {
			for _, at := range anchorTags {
				if strings.EqualFold(t, at) {
					return true
				}
			}
		}
		return false
	})

	span.SetStatus(codes.Ok, "Related entries ranked")
	return related
}

func (s *ServiceImpl) EntriesByNames(names []string) []types.IndexEntry {
	var matched []types.IndexEntry
	for _, e := range s.entries {
		for _, n := range names {
			if strings.EqualFold(e.Name, n) {
				matched = append(matched, e)
				break
			}
		}
	}
	return matched
}

// rank scores every matching entry against the query vector, drops entries
// below minScore, and returns the survivors ordered by descending similarity.
// Entries whose embedding dimensionality differs from the query are skipped
// and logged rather than failing the whole search.
func (s *ServiceImpl) rank(ctx context.Context, queryVec []float32, minScore float64, match func(types.IndexEntry) bool) []types.ScoredEntry {
	scored := make([]types.ScoredEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		if !match(entry) {
			continue
		}
		if len(entry.Embedding) != len(queryVec) {
			s.logger.WarnContext(ctx, "Skipping entry with mismatched embedding dimension",
				slog.String("entry", entry.Name),
				slog.Int("entry_dim", len(entry.Embedding)),
				slog.Int("query_dim", len(queryVec)))
			continue
		}
		score := cosineSimilarity(queryVec, entry.Embedding)
		if score >= minScore {
			scored = append(scored, types.ScoredEntry{Entry: entry, Score: score})
		}
	}
	// Stable sort keeps index order among equal scores, so results are
	// deterministic for a fixed collection.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// cosineSimilarity computes dot(a,b)/(|a||b|), accumulating in float64.
// Returns 0 when either vector has zero magnitude.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func entryCategoryAndTags(e types.IndexEntry) (string, []string) {
	switch e.Kind {
	case types.EntryKindPlace:
		if e.Place != nil {
			return e.Place.Category, e.Place.Tags
		}
	case types.EntryKindLocalInsight:
		if e.Insight != nil {
			return "", e.Insight.Tags
		}
	case types.EntryKindEmergencyContact:
		if e.Contact != nil {
			return e.Contact.Category, nil
		}
	case types.EntryKindGuide:
		if e.Guide != nil {
			return "guide", e.Guide.Specialties
		}
	}
	return "", nil
}
