package assistant

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/subodh10000/neptou-backend/internal/api/optimizer"
	"github.com/subodh10000/neptou-backend/internal/types"
)

type MockContentGenerator struct {
	mock.Mock
}

func (m *MockContentGenerator) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	args := m.Called(ctx, prompt, config)
	return args.String(0), args.Error(1)
}

type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, query string, topK int, minScore float64) ([]types.ScoredEntry, error) {
	args := m.Called(ctx, query, topK, minScore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ScoredEntry), args.Error(1)
}

func (m *MockSearchService) SimilarEntries(ctx context.Context, name string, minScore float64) []types.ScoredEntry {
	args := m.Called(ctx, name, minScore)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]types.ScoredEntry)
}

func (m *MockSearchService) EntriesByNames(names []string) []types.IndexEntry {
	args := m.Called(names)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]types.IndexEntry)
}

func (m *MockSearchService) Size() int {
	args := m.Called()
	return args.Int(0)
}

type MockOptimizerService struct {
	mock.Mock
}

func (m *MockOptimizerService) Optimize(ctx context.Context, itinerary types.Itinerary, opts optimizer.Options) types.Itinerary {
	args := m.Called(ctx, itinerary, opts)
	return args.Get(0).(types.Itinerary)
}

func (m *MockOptimizerService) BalanceActivitiesPerDay(activities []types.Activity, numDays int) [][]types.Activity {
	args := m.Called(activities, numDays)
	return args.Get(0).([][]types.Activity)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func scoredPlace(name, category string, score float64) types.ScoredEntry {
	return types.ScoredEntry{
		Entry: types.IndexEntry{
			Name: name,
			Kind: types.EntryKindPlace,
			Place: &types.PlaceEntry{
				Category: category,
				Area:     "Kathmandu",
			},
		},
		Score: score,
	}
}

func TestChat_RequiresMessageOrHistory(t *testing.T) {
	svc := NewServiceImpl(new(MockContentGenerator), new(MockSearchService), new(MockOptimizerService), testLogger())

	_, err := svc.Chat(context.Background(), types.ChatRequest{})
	assert.Error(t, err)
}

func TestChat_GroundsAndAnswers(t *testing.T) {
	ai := new(MockContentGenerator)
	searchSvc := new(MockSearchService)
	svc := NewServiceImpl(ai, searchSvc, new(MockOptimizerService), testLogger())

	searchSvc.On("Search", mock.Anything, "what temples should I visit", 3, 0.3).
		Return([]types.ScoredEntry{scoredPlace("Pashupatinath Temple", "temple", 0.8)}, nil)

	ai.On("GenerateContent", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Pashupatinath Temple") && strings.Contains(prompt, "Namaste")
	}), mock.Anything).Return("Namaste! Visit Pashupatinath Temple at dawn.", nil).Once()

	ai.On("GenerateContent", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "follow-up")
	}), mock.Anything).Return("What is the dress code at Pashupatinath?\nWhen is the evening aarti ceremony?", nil).Once()

	resp, err := svc.Chat(context.Background(), types.ChatRequest{Message: "what temples should I visit"})
	require.NoError(t, err)
	assert.Equal(t, "Namaste! Visit Pashupatinath Temple at dawn.", resp.Response)
	assert.Len(t, resp.FollowUpQuestions, 2)

	ai.AssertExpectations(t)
	searchSvc.AssertExpectations(t)
}

func TestChat_EmergencyQueryInjectsContacts(t *testing.T) {
	ai := new(MockContentGenerator)
	searchSvc := new(MockSearchService)
	svc := NewServiceImpl(ai, searchSvc, new(MockOptimizerService), testLogger())

	searchSvc.On("Search", mock.Anything, mock.Anything, 3, 0.3).Return([]types.ScoredEntry{}, nil)

	var capturedPrompt string
	ai.On("GenerateContent", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		if strings.Contains(prompt, "follow-up") {
			return false
		}
		capturedPrompt = prompt
		return true
	}), mock.Anything).Return("Call Bibek KC.", nil).Once()
	ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return("", fmt.Errorf("no follow-ups")).Once()

	resp, err := svc.Chat(context.Background(), types.ChatRequest{Message: "I lost my passport, need help"})
	require.NoError(t, err)
	assert.Equal(t, "Call Bibek KC.", resp.Response)
	// Follow-up failure degrades to an empty list
	assert.Empty(t, resp.FollowUpQuestions)

	// Agent and his number must reach the model
	assert.Contains(t, capturedPrompt, "Bibek KC")
	assert.Contains(t, capturedPrompt, "98484488888")
}

func TestChat_FollowUpFailureIsNotFatal(t *testing.T) {
	ai := new(MockContentGenerator)
	searchSvc := new(MockSearchService)
	svc := NewServiceImpl(ai, searchSvc, new(MockOptimizerService), testLogger())

	searchSvc.On("Search", mock.Anything, mock.Anything, 3, 0.3).Return(nil, fmt.Errorf("index offline"))
	ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return("Namaste!", nil).Once()
	ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return("", fmt.Errorf("quota")).Once()

	resp, err := svc.Chat(context.Background(), types.ChatRequest{Message: "hello there friend"})
	require.NoError(t, err)
	assert.Equal(t, "Namaste!", resp.Response)
	assert.Empty(t, resp.FollowUpQuestions)
}

func TestGenerateItinerary_ParsesAndOptimizes(t *testing.T) {
	ai := new(MockContentGenerator)
	searchSvc := new(MockSearchService)
	optimizerSvc := new(MockOptimizerService)
	svc := NewServiceImpl(ai, searchSvc, optimizerSvc, testLogger())

	searchSvc.On("Search", mock.Anything, "temples", 2, 0.3).
		Return([]types.ScoredEntry{scoredPlace("Pashupatinath Temple", "temple", 0.9)}, nil)

	modelOutput := `Here you go: {"name": "Valley Highlights", "days": [{"day_number": 1, "district": "Kathmandu", "activities": [{"place_name": "Pashupatinath Temple", "notes": "Morning visit", "start_time": "09:00 AM", "end_time": "11:00 AM"}]}]}`
	ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(modelOutput, nil).Once()

	optimized := types.Itinerary{Name: "Valley Highlights", Days: []types.Day{{DayNumber: 1, District: "Kathmandu"}}}
	optimizerSvc.On("Optimize", mock.Anything, mock.MatchedBy(func(it types.Itinerary) bool {
		return it.Name == "Valley Highlights" && len(it.Days) == 1
	}), optimizer.DefaultOptions()).Return(optimized)

	result, err := svc.GenerateItinerary(context.Background(), types.TripRequest{
		Duration:    3,
		TravelStyle: "cultural",
		Interests:   []string{"temples"},
		StartDate:   "2026-09-10",
	})
	require.NoError(t, err)
	assert.Equal(t, "Valley Highlights", result.Name)
	optimizerSvc.AssertExpectations(t)
}

func TestGenerateItinerary_UnparseableOutputFails(t *testing.T) {
	ai := new(MockContentGenerator)
	searchSvc := new(MockSearchService)
	svc := NewServiceImpl(ai, searchSvc, new(MockOptimizerService), testLogger())

	searchSvc.On("Search", mock.Anything, mock.Anything, 2, 0.3).Return([]types.ScoredEntry{}, nil)
	ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return("I cannot produce an itinerary right now.", nil)

	_, err := svc.GenerateItinerary(context.Background(), types.TripRequest{
		Duration:  2,
		Interests: []string{"nature"},
	})
	assert.Error(t, err)
}

func TestRecommendations_ParsesAndCaches(t *testing.T) {
	ai := new(MockContentGenerator)
	searchSvc := new(MockSearchService)
	svc := NewServiceImpl(ai, searchSvc, new(MockOptimizerService), testLogger())

	searchSvc.On("Search", mock.Anything, mock.Anything, 8, 0.25).
		Return([]types.ScoredEntry{scoredPlace("Phewa Lake", "nature", 0.7)}, nil)
	searchSvc.On("Search", mock.Anything, "Boudhanath Stupa", 5, 0.25).
		Return([]types.ScoredEntry{scoredPlace("Swayambhunath", "temple", 0.6)}, nil)
	searchSvc.On("SimilarEntries", mock.Anything, "Boudhanath Stupa", 0.25).
		Return([]types.ScoredEntry{scoredPlace("Pashupatinath Temple", "temple", 0.5)})

	modelOutput := `[{"name": "Swayambhunath", "reason": "Matches your love of temples", "match_score": 0.88, "category": "Temple", "is_hidden_gem": false}]`
	ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(modelOutput, nil).Once()

	req := types.UserProfileRequest{
		Name:        "Asha",
		TravelStyle: "budget",
		Interests:   []string{"temples", "nature"},
		LikedPlaces: []string{"Boudhanath Stupa"},
	}

	recs, err := svc.Recommendations(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Swayambhunath", recs[0].Name)

	// Second identical request must come from the cache, not the model
	recs2, err := svc.Recommendations(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, recs, recs2)
	ai.AssertNumberOfCalls(t, "GenerateContent", 1)
}

func TestRecommendations_UnparseableOutputDegrades(t *testing.T) {
	ai := new(MockContentGenerator)
	searchSvc := new(MockSearchService)
	svc := NewServiceImpl(ai, searchSvc, new(MockOptimizerService), testLogger())

	searchSvc.On("Search", mock.Anything, mock.Anything, 8, 0.25).Return([]types.ScoredEntry{}, nil)
	ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return("no json", nil)

	recs, err := svc.Recommendations(context.Background(), types.UserProfileRequest{
		Name:        "Asha",
		TravelStyle: "luxury",
	})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestDestinationGuide_ParsesSections(t *testing.T) {
	ai := new(MockContentGenerator)
	searchSvc := new(MockSearchService)
	svc := NewServiceImpl(ai, searchSvc, new(MockOptimizerService), testLogger())

	searchSvc.On("Search", mock.Anything, mock.Anything, 5, 0.25).Return([]types.ScoredEntry{}, nil)
	searchSvc.On("Search", mock.Anything, mock.Anything, 3, 0.3).Return([]types.ScoredEntry{}, nil)

	modelOutput := `{"foods": [{"name": "Thakali Set", "location": "Pokhara", "description": "Full platter", "reason": "Local staple"}], "places": [], "events": [], "guides": []}`
	ai.On("GenerateContent", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		// Static city facts ride along with retrieval output
		return strings.Contains(prompt, "Pokhara")
	}), mock.Anything).Return(modelOutput, nil)

	guide, err := svc.DestinationGuide(context.Background(), types.DestinationGuideRequest{
		TravelStyle: "adventure",
		Interests:   []string{"food"},
		Locations:   []string{"Pokhara"},
	})
	require.NoError(t, err)
	require.Len(t, guide.Foods, 1)
	assert.Equal(t, "Thakali Set", guide.Foods[0].Name)
}

func TestDestinationGuide_UnparseableOutputDegrades(t *testing.T) {
	ai := new(MockContentGenerator)
	searchSvc := new(MockSearchService)
	svc := NewServiceImpl(ai, searchSvc, new(MockOptimizerService), testLogger())

	searchSvc.On("Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]types.ScoredEntry{}, nil)
	ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return("sorry, no guide", nil)

	guide, err := svc.DestinationGuide(context.Background(), types.DestinationGuideRequest{
		TravelStyle: "budget",
		Locations:   []string{"Kathmandu"},
	})
	require.NoError(t, err)
	assert.Empty(t, guide.Foods)
	assert.Empty(t, guide.Places)
	assert.NotNil(t, guide.Events)
}

func TestDedupeScored(t *testing.T) {
	entries := []types.ScoredEntry{
		scoredPlace("Phewa Lake", "nature", 0.9),
		scoredPlace("phewa lake", "nature", 0.8),
		scoredPlace("Sarangkot", "viewpoint", 0.7),
		scoredPlace("Boudhanath Stupa", "temple", 0.6),
	}

	unique := dedupeScored(entries, []string{"Boudhanath Stupa"})
	require.Len(t, unique, 2)
	assert.Equal(t, "Phewa Lake", unique[0].Entry.Name)
	assert.Equal(t, "Sarangkot", unique[1].Entry.Name)
}

func TestDiversifyByCategory(t *testing.T) {
	entries := []types.ScoredEntry{
		scoredPlace("Temple A", "temple", 0.9),
		scoredPlace("Temple B", "temple", 0.85),
		scoredPlace("Lake A", "nature", 0.8),
		scoredPlace("Cafe A", "food", 0.7),
	}

	diverse := diversifyByCategory(entries, 4)
	require.Len(t, diverse, 4)
	// One per category first, then remaining top scorers
	assert.Equal(t, "Temple A", diverse[0].Entry.Name)
	assert.Equal(t, "Lake A", diverse[1].Entry.Name)
	assert.Equal(t, "Cafe A", diverse[2].Entry.Name)
	assert.Equal(t, "Temple B", diverse[3].Entry.Name)
}
