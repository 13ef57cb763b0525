package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subodh10000/neptou-backend/internal/types"
)

func TestLoadEntries(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "embeddings.json")
	emergencyPath := filepath.Join(dir, "emergency.json")

	indexJSON := `[
		{
			"name": "Pashupatinath Temple",
			"embedding": [0.1, 0.2, 0.3],
			"metadata": {"category": "temple", "area": "Gaushala, Kathmandu", "tags": ["hindu"], "description": "Sacred Hindu temple complex."}
		},
		{
			"name": "Best momo spots",
			"embedding": [0.4, 0.5, 0.6],
			"metadata": {"type": "local_insight", "area": "Kathmandu", "content": "Try buff momo in Bouddha.", "tags": ["food"]}
		},
		{
			"name": "Sita Gurung",
			"embedding": [0.7, 0.8, 0.9],
			"metadata": {"category": "guide", "area": "Kathmandu", "bio": "Cultural heritage guide.", "specialties": ["heritage walks"], "languages": ["English"], "price_per_day": 3500, "rating": 4.9}
		}
	]`
	emergencyJSON := `[
		{
			"name": "Tourist Police",
			"phone": "1144",
			"category": "police",
			"location": "Kathmandu",
			"description": "Dedicated police assistance for tourists.",
			"available_24_7": true,
			"embedding": [0.5, 0.5, 0.5]
		}
	]`
	require.NoError(t, os.WriteFile(indexPath, []byte(indexJSON), 0o644))
	require.NoError(t, os.WriteFile(emergencyPath, []byte(emergencyJSON), 0o644))

	entries := LoadEntries(indexPath, emergencyPath, testLogger())
	require.Len(t, entries, 4)

	assert.Equal(t, types.EntryKindPlace, entries[0].Kind)
	require.NotNil(t, entries[0].Place)
	assert.Equal(t, "temple", entries[0].Place.Category)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, entries[0].Embedding)

	assert.Equal(t, types.EntryKindLocalInsight, entries[1].Kind)
	require.NotNil(t, entries[1].Insight)
	assert.Equal(t, "Try buff momo in Bouddha.", entries[1].Insight.Content)
	assert.Equal(t, "Kathmandu", entries[1].Insight.District)

	assert.Equal(t, types.EntryKindGuide, entries[2].Kind)
	require.NotNil(t, entries[2].Guide)
	assert.Equal(t, 3500.0, entries[2].Guide.PricePerDay)

	assert.Equal(t, types.EntryKindEmergencyContact, entries[3].Kind)
	require.NotNil(t, entries[3].Contact)
	assert.Equal(t, "1144", entries[3].Contact.Phone)
	assert.True(t, entries[3].Contact.Available247)
}

func TestLoadEntries_MissingFilesDegrade(t *testing.T) {
	entries := LoadEntries("/nonexistent/embeddings.json", "/nonexistent/emergency.json", testLogger())
	assert.Empty(t, entries)
}

func TestLoadEntries_MalformedIndexDegrades(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "embeddings.json")
	require.NoError(t, os.WriteFile(indexPath, []byte("{not json"), 0o644))

	entries := LoadEntries(indexPath, "", testLogger())
	assert.Empty(t, entries)
}
