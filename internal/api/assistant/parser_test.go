package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subodh10000/neptou-backend/internal/types"
)

func TestExtractJSONObject(t *testing.T) {
	content := "Sure! Here is your itinerary:\n```json\n{\"name\": \"Valley Tour\", \"days\": []}\n```\nEnjoy!"

	var itinerary types.Itinerary
	require.NoError(t, extractJSONObject(content, &itinerary))
	assert.Equal(t, "Valley Tour", itinerary.Name)
}

func TestExtractJSONObject_NoObject(t *testing.T) {
	var itinerary types.Itinerary
	assert.Error(t, extractJSONObject("no json here", &itinerary))
	assert.Error(t, extractJSONObject("} backwards {", &itinerary))
}

func TestExtractJSONObject_MalformedJSON(t *testing.T) {
	var itinerary types.Itinerary
	assert.Error(t, extractJSONObject("{not valid}", &itinerary))
}

func TestExtractJSONArray(t *testing.T) {
	content := `Based on your profile: [{"name": "Phewa Lake", "reason": "You like nature", "match_score": 0.9, "category": "Nature", "is_hidden_gem": false}] Hope this helps.`

	var recs []types.Recommendation
	require.NoError(t, extractJSONArray(content, &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "Phewa Lake", recs[0].Name)
	assert.InDelta(t, 0.9, recs[0].MatchScore, 1e-9)
}

func TestExtractJSONArray_NoArray(t *testing.T) {
	var recs []types.Recommendation
	assert.Error(t, extractJSONArray("nothing here", &recs))
}

func TestParseFollowUpQuestions(t *testing.T) {
	content := `What is the best season to visit Pokhara?
- bulleted fragment
1. numbered line should be dropped
How do I get a trekking permit for Annapurna?
short
Where can I try authentic Thakali food in Kathmandu?
Is paragliding in Sarangkot safe for beginners?
A fifth question that should be cut off by the limit?`

	questions := parseFollowUpQuestions(content)
	require.Len(t, questions, 4)
	assert.Equal(t, "What is the best season to visit Pokhara?", questions[0])
	assert.Equal(t, "How do I get a trekking permit for Annapurna?", questions[1])
	for _, q := range questions {
		assert.NotContains(t, q, "bulleted")
		assert.NotContains(t, q, "numbered")
	}
}

func TestParseFollowUpQuestions_Empty(t *testing.T) {
	assert.Empty(t, parseFollowUpQuestions(""))
	assert.Empty(t, parseFollowUpQuestions("short\n- a\n* b"))
}

func TestIsEmergencyQuery(t *testing.T) {
	assert.True(t, isEmergencyQuery("I lost my passport in Thamel"))
	assert.True(t, isEmergencyQuery("emergency! need an ambulance"))
	assert.True(t, isEmergencyQuery("how do I contact the embassy phone number"))
	assert.True(t, isEmergencyQuery("I need help, my wallet was stolen"))

	assert.False(t, isEmergencyQuery("best momo in Kathmandu"))
	// "help" without emergency context does not trigger
	assert.False(t, isEmergencyQuery("can you help plan fun activities"))
	// "contact" without emergency context does not trigger
	assert.False(t, isEmergencyQuery("should I contact a tour company for Everest"))
}
