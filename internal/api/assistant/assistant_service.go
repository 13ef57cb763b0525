package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"

	"github.com/subodh10000/neptou-backend/internal/api/knowledge"
	"github.com/subodh10000/neptou-backend/internal/api/optimizer"
	"github.com/subodh10000/neptou-backend/internal/api/search"
	"github.com/subodh10000/neptou-backend/internal/types"
)

// ContentGenerator abstracts the generative model call.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
}

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service is the AI orchestration layer: chat with retrieval grounding,
// itinerary generation, personalized recommendations and destination guides.
type Service interface {
	Chat(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error)
	GenerateItinerary(ctx context.Context, req types.TripRequest) (types.Itinerary, error)
	Recommendations(ctx context.Context, req types.UserProfileRequest) ([]types.Recommendation, error)
	DestinationGuide(ctx context.Context, req types.DestinationGuideRequest) (types.DestinationGuide, error)
}

const (
	defaultTemperature = 0.7
	jsonTemperature    = 0.4
)

type ServiceImpl struct {
	logger    *slog.Logger
	ai        ContentGenerator
	search    search.Service
	optimizer optimizer.Service
	cache     *cache.Cache
}

func NewServiceImpl(ai ContentGenerator, searchService search.Service, optimizerService optimizer.Service, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		ai:        ai,
		search:    searchService,
		optimizer: optimizerService,
		cache:     cache.New(30*time.Minute, 10*time.Minute),
	}
}

// emergencyKeywords trigger emergency-contact retrieval. Deliberately phrase
// based so ordinary travel questions containing "help" or "contact" alone
// do not trip it.
var emergencyKeywords = []string{
	"emergency", "emergencies", "sos", "urgent", "urgently",
	"lost passport", "lost my passport", "passport lost", "stolen passport",
	"lost document", "stolen document", "visa lost", "visa stolen",
	"need help", "i need help", "help me", "need assistance", "need support",
	"contact local agent", "local agent", "local help", "neptou agent", "bibek",
	"police", "ambulance", "hospital emergency", "medical emergency",
	"embassy contact", "contact embassy", "embassy phone", "embassy number",
}

func isEmergencyQuery(query string) bool {
	q := strings.ToLower(query)
	matched := false
	for _, kw := range emergencyKeywords {
		if strings.Contains(q, kw) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	if strings.Contains(q, "help") {
		ok := false
		for _, phrase := range []string{"need help", "i need help", "help me", "emergency", "lost", "stolen", "urgent"} {
			if strings.Contains(q, phrase) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if strings.Contains(q, "contact") {
		ok := false
		for _, phrase := range []string{"contact local", "contact embassy", "contact agent", "emergency contact", "phone", "number"} {
			if strings.Contains(q, phrase) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// emergencyContext retrieves and formats emergency contacts for the query,
// always putting the Neptou agent first.
func emergencyContext(query string) string {
	contacts := knowledge.SearchEmergencyContacts(query)
	if len(contacts) == 0 {
		return ""
	}

	var agents, others []types.EmergencyContact
	for _, c := range contacts {
		if c.Category == "local_agent" || strings.Contains(strings.ToLower(c.Name), "bibek") {
			agents = append(agents, c)
		} else {
			others = append(others, c)
		}
	}
	if len(agents) == 0 {
		for _, c := range knowledge.EmergencyContacts {
			if c.Category == "local_agent" {
				agents = append(agents, c)
				break
			}
		}
	}
	if len(others) > 4 {
		others = others[:4]
	}
	return knowledge.FormatEmergencyContacts(append(agents, others...), 5)
}

func (s *ServiceImpl) Chat(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error) {
	ctx, span := otel.Tracer("AssistantService").Start(ctx, "Chat")
	defer span.End()

	history := req.History
	if len(history) == 0 && req.Message != "" {
		history = []types.ChatMessage{{Role: "user", Content: req.Message}}
	}
	if len(history) == 0 {
		err := fmt.Errorf("either message or history must be provided")
		span.RecordError(err)
		span.SetStatus(codes.Error, "Empty chat request")
		return types.ChatResponse{}, err
	}

	userQuery := ""
	if last := history[len(history)-1]; last.Role == "user" {
		userQuery = last.Content
	}

	searchQuery := userQuery
	if name := req.PlaceContext["name"]; name != "" {
		searchQuery = fmt.Sprintf("%s about %s", userQuery, name)
	}

	ragContext := ""
	if len(searchQuery) > 5 {
		results, err := s.search.Search(ctx, searchQuery, 3, 0.3)
		if err != nil {
			s.logger.WarnContext(ctx, "Retrieval failed, answering without grounding", slog.Any("error", err))
		} else {
			ragContext = search.FormatContext(results, 3)
		}
	}

	prompt := strings.Builder{}
	prompt.WriteString(systemPrompt)
	prompt.WriteString(buildPlaceContextPrompt(req.PlaceContext))
	prompt.WriteString(buildFoodContextPrompt(req.FoodContext))
	if ragContext != "" {
		prompt.WriteString("\n\n" + ragContext + "\nUse the above verified information when answering. If the user asks about places, prioritize these verified locations.")
	}
	if isEmergencyQuery(userQuery) {
		if ec := emergencyContext(userQuery); ec != "" {
			prompt.WriteString("\n\n" + ec + "\n\n" + emergencyInstructions)
		}
	}

	config := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](defaultTemperature)}
	fullPrompt := prompt.String() + "\n\n" + flattenHistory(history)
	answer, err := s.ai.GenerateContent(ctx, fullPrompt, config)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Model call failed")
		return types.ChatResponse{}, fmt.Errorf("failed to generate chat response: %w", err)
	}

	resp := types.ChatResponse{Response: answer, FollowUpQuestions: []string{}}

	followUps, err := s.ai.GenerateContent(ctx, buildFollowUpPrompt(userQuery, answer), nil)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to generate follow-up questions", slog.Any("error", err))
	} else if questions := parseFollowUpQuestions(followUps); len(questions) > 0 {
		resp.FollowUpQuestions = questions
	}

	span.SetStatus(codes.Ok, "Chat completed")
	return resp, nil
}

// flattenHistory renders a multi-turn conversation into a single prompt.
func flattenHistory(history []types.ChatMessage) string {
	if len(history) == 1 {
		return history[0].Content
	}
	var b strings.Builder
	for _, m := range history {
		role := "User"
		if m.Role == "assistant" {
			role = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, m.Content)
	}
	b.WriteString("Assistant:")
	return b.String()
}

func (s *ServiceImpl) GenerateItinerary(ctx context.Context, req types.TripRequest) (types.Itinerary, error) {
	ctx, span := otel.Tracer("AssistantService").Start(ctx, "GenerateItinerary")
	defer span.End()
	span.SetAttributes(
		attribute.Int("trip.duration", req.Duration),
		attribute.String("trip.style", req.TravelStyle),
	)

	var relevant []types.ScoredEntry
	for _, interest := range req.Interests {
		results, err := s.search.Search(ctx, interest, 2, 0.3)
		if err != nil {
			s.logger.WarnContext(ctx, "Interest retrieval failed", slog.String("interest", interest), slog.Any("error", err))
			continue
		}
		relevant = append(relevant, results...)
	}
	relevant = dedupeScored(relevant, nil)
	if len(relevant) > 10 {
		relevant = relevant[:10]
	}
	ragContext := search.FormatContext(relevant, 10)

	config := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](jsonTemperature)}
	prompt := "You are a JSON-only API. You output valid JSON for travel itineraries.\n\n" + buildItineraryPrompt(req, ragContext)
	content, err := s.ai.GenerateContent(ctx, prompt, config)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Model call failed")
		return types.Itinerary{}, fmt.Errorf("failed to generate itinerary: %w", err)
	}

	var itinerary types.Itinerary
	if err := extractJSONObject(content, &itinerary); err != nil {
		s.logger.ErrorContext(ctx, "Model returned unparseable itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Unparseable model output")
		return types.Itinerary{}, err
	}

	optimized := s.optimizer.Optimize(ctx, itinerary, optimizer.DefaultOptions())
	span.SetStatus(codes.Ok, "Itinerary generated")
	return optimized, nil
}

func (s *ServiceImpl) Recommendations(ctx context.Context, req types.UserProfileRequest) ([]types.Recommendation, error) {
	ctx, span := otel.Tracer("AssistantService").Start(ctx, "Recommendations")
	defer span.End()

	profile := fmt.Sprintf("Style: %s, Interests: %s", req.TravelStyle, strings.Join(req.Interests, ", "))
	cacheKey := profile + "|" + strings.Join(req.LikedPlaces, ",")
	if cached, found := s.cache.Get(cacheKey); found {
		span.SetStatus(codes.Ok, "Served from cache")
		return cached.([]types.Recommendation), nil
	}

	relevant := s.gatherRecommendationCandidates(ctx, profile, req.LikedPlaces)
	ragContext := search.FormatContext(diversifyByCategory(relevant, 10), 10)

	prompt := "Always return valid JSON arrays.\n\n" + buildRecommendationsPrompt(profile, buildLearningContext(req.LikedPlaces), ragContext)
	config := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](jsonTemperature)}
	content, err := s.ai.GenerateContent(ctx, prompt, config)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Model call failed")
		return nil, fmt.Errorf("failed to generate recommendations: %w", err)
	}

	var recs []types.Recommendation
	if err := extractJSONArray(content, &recs); err != nil {
		s.logger.WarnContext(ctx, "Model returned unparseable recommendations", slog.Any("error", err))
		return []types.Recommendation{}, nil
	}

	s.cache.Set(cacheKey, recs, cache.DefaultExpiration)
	span.SetStatus(codes.Ok, "Recommendations generated")
	return recs, nil
}

// gatherRecommendationCandidates collects retrieval hits from the profile and
// the liked-place history. Liked-place matches get a 20% score boost and
// category/tag neighbors of liked places a 10% boost, so history shapes the
// grounding fed to the model.
func (s *ServiceImpl) gatherRecommendationCandidates(ctx context.Context, profile string, likedPlaces []string) []types.ScoredEntry {
	queries := []string{profile}
	profileLower := strings.ToLower(profile)
	for _, interest := range []string{"temple", "nature", "culture", "food", "adventure", "hiking", "photography", "history"} {
		if strings.Contains(profileLower, interest) {
			queries = append(queries, interest)
		}
	}
	if len(queries) > 3 {
		queries = queries[:3]
	}

	var relevant []types.ScoredEntry
	for _, q := range queries {
		results, err := s.search.Search(ctx, q, 8, 0.25)
		if err != nil {
			s.logger.WarnContext(ctx, "Profile retrieval failed", slog.Any("error", err))
			continue
		}
		relevant = append(relevant, results...)
	}

	for _, liked := range likedPlaces {
		similar, err := s.search.Search(ctx, liked, 5, 0.25)
		if err == nil {
			for i := range similar {
				similar[i].Score *= 1.2
			}
			relevant = append(relevant, similar...)
		}
		for _, neighbor := range s.search.SimilarEntries(ctx, liked, 0.25) {
			neighbor.Score *= 1.1
			relevant = append(relevant, neighbor)
		}
	}

	relevant = dedupeScored(relevant, likedPlaces)
	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Score > relevant[j].Score
	})
	return relevant
}

func (s *ServiceImpl) DestinationGuide(ctx context.Context, req types.DestinationGuideRequest) (types.DestinationGuide, error) {
	ctx, span := otel.Tracer("AssistantService").Start(ctx, "DestinationGuide")
	defer span.End()
	span.SetAttributes(attribute.StringSlice("guide.locations", req.Locations))

	profile := fmt.Sprintf("Style: %s, Interests: %s", req.TravelStyle, strings.Join(req.Interests, ", "))

	var relevant []types.ScoredEntry
	for _, location := range req.Locations {
		if results, err := s.search.Search(ctx, location, 5, 0.25); err == nil {
			relevant = append(relevant, results...)
		}
		if results, err := s.search.Search(ctx, location+" "+profile, 3, 0.3); err == nil {
			relevant = append(relevant, results...)
		}
	}
	relevant = dedupeScored(relevant, nil)
	if len(relevant) > 15 {
		relevant = relevant[:15]
	}
	ragContext := search.FormatContext(relevant, 15)
	trustedFacts := knowledge.CityContext(req.Locations)

	config := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](jsonTemperature)}
	prompt := "You are a JSON-only API.\n\n" + buildGuidePrompt(profile, req.Locations, ragContext, trustedFacts)
	content, err := s.ai.GenerateContent(ctx, prompt, config)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Model call failed")
		return types.DestinationGuide{}, fmt.Errorf("failed to generate destination guide: %w", err)
	}

	guide := emptyGuide()
	if err := extractJSONObject(content, &guide); err != nil {
		// A guide with empty sections beats a hard failure here
		s.logger.WarnContext(ctx, "Model returned unparseable guide", slog.Any("error", err))
		return emptyGuide(), nil
	}

	span.SetStatus(codes.Ok, "Guide generated")
	return guide, nil
}

func emptyGuide() types.DestinationGuide {
	return types.DestinationGuide{
		Foods:  []types.GuideItem{},
		Places: []types.GuideItem{},
		Events: []types.GuideItem{},
		Guides: []types.GuideItem{},
	}
}

// dedupeScored keeps the first occurrence of each name, case-insensitive,
// and drops any name in the exclusion list.
func dedupeScored(entries []types.ScoredEntry, exclude []string) []types.ScoredEntry {
	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[strings.ToLower(name)] = true
	}
	seen := make(map[string]bool, len(entries))
	unique := make([]types.ScoredEntry, 0, len(entries))
	for _, e := range entries {
		key := strings.ToLower(e.Entry.Name)
		if key == "" || seen[key] || excluded[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, e)
	}
	return unique
}

// diversifyByCategory reorders candidates so the top of the grounding block
// spans categories: first the best entry of each category, then the remaining
// highest scorers, capped at limit.
func diversifyByCategory(entries []types.ScoredEntry, limit int) []types.ScoredEntry {
	var diverse []types.ScoredEntry
	seenCategories := map[string]bool{}
	taken := map[string]bool{}

	for _, e := range entries {
		category := entryCategory(e.Entry)
		if seenCategories[category] {
			continue
		}
		seenCategories[category] = true
		diverse = append(diverse, e)
		taken[strings.ToLower(e.Entry.Name)] = true
		if len(diverse) >= 8 {
			break
		}
	}
	for _, e := range entries {
		if len(diverse) >= limit {
			break
		}
		if taken[strings.ToLower(e.Entry.Name)] {
			continue
		}
		diverse = append(diverse, e)
		taken[strings.ToLower(e.Entry.Name)] = true
	}
	return diverse
}

func entryCategory(e types.IndexEntry) string {
	switch e.Kind {
	case types.EntryKindPlace:
		if e.Place != nil && e.Place.Category != "" {
			return e.Place.Category
		}
	case types.EntryKindLocalInsight:
		return "local_insight"
	case types.EntryKindEmergencyContact:
		return "emergency"
	case types.EntryKindGuide:
		return "guide"
	}
	return "other"
}
