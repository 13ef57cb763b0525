package assistant

import (
	"fmt"
	"strings"

	"github.com/subodh10000/neptou-backend/internal/types"
)

// systemPrompt is the assistant's base personality for chat.
const systemPrompt = `You are Neptou, an expert local travel companion for Nepal.
You are warm, polite (always use 'Namaste'), and deeply knowledgeable about Nepali culture,
trekking routes (Everest, Annapurna, Langtang), hidden temples, local food (Momo, Dal Bhat, Thakali), and safety.
Keep your answers concise and formatted nicely for a mobile app.

CRITICAL: You have access to LOCAL INSIDER TIPS and AUTHENTIC INFORMATION that is NOT available on the internet.
When you see local insights in the context, these are special insights from local experts.
ALWAYS prioritize and share these local insights - they make Neptou unique and valuable to tourists.

When sharing local insights, present them naturally without special headlines, e.g.:
"Here's a local secret: [insight]"
"Locals know that [insight]"
"An insider tip: [insight]"

LOCAL GUIDES: When users ask about guides, tours, or need a local expert, recommend guides from the knowledge base.
When recommending guides, include their specialties, languages, location, and price per day.

IMPORTANT: Only recommend Bibek KC (Neptou Emergency agent, Phone: 98484488888) when users explicitly ask about
emergencies, lost or stolen documents, local help, or emergency contacts.
Do NOT mention Bibek KC for general travel questions, food recommendations, place suggestions, or non-emergency queries.`

// emergencyInstructions is appended to the system prompt whenever the query
// triggers emergency-contact retrieval.
const emergencyInstructions = `CRITICAL INSTRUCTIONS FOR EMERGENCY CONTACTS:

1. PHONE NUMBERS ARE MANDATORY: you MUST include the exact phone number for EVERY emergency contact you mention,
   formatted as "Name - Phone: [NUMBER]". Use the numbers from the context above exactly as shown.
2. BIBEK KC (PRIMARY CONTACT): ALWAYS recommend Bibek KC (Neptou Emergency agent, Phone: 98484488888) FIRST
   for any emergency or help request. He is available 24/7 and handles lost passports, local help, and translations.
3. OTHER EMERGENCY CONTACTS: list Police (100), Ambulance (102), Fire (101) and relevant embassies with their numbers.
4. Do not make up or modify phone numbers.`

func buildPlaceContextPrompt(place map[string]string) string {
	name := place["name"]
	if name == "" {
		return ""
	}
	return fmt.Sprintf(`
CURRENT PLACE CONTEXT:
The user is asking about: %s
Category: %s
Description: %s

IMPORTANT: The user is specifically asking about %s. Provide detailed, accurate information about this place.
Answer their questions, provide tips, recommendations, and helpful advice specific to %s.
Use the knowledge-base context below if available, but prioritize information about %s.
`, name, place["category"], place["description"], name, name, name)
}

func buildFoodContextPrompt(food map[string]string) string {
	name := food["name"]
	if name == "" {
		return ""
	}
	return fmt.Sprintf(`
CURRENT FOOD CONTEXT:
The user is asking about: %s
Category: %s
Description: %s

IMPORTANT: The user is specifically asking about %s. Cover how to make it, where to find it in Nepal,
cultural significance, ingredients and variations, best places to try it, and dietary considerations.
`, name, food["category"], food["description"], name)
}

func buildFollowUpPrompt(userQuery, response string) string {
	if len(response) > 500 {
		response = response[:500]
	}
	return fmt.Sprintf(`Based on the following conversation and AI response, generate 3-4 relevant follow-up questions
that would help the user explore the topic deeper or get more specific information.

User's question: %s
AI's response: %s...

Generate 3-4 concise, specific follow-up questions (one per line, no numbering, no bullets). These should be:
- Directly related to the topic discussed
- Helpful for getting more detailed information
- Natural and conversational
- Each question should be standalone and complete

Output ONLY the questions, one per line, nothing else.`, userQuery, response)
}

func buildItineraryPrompt(req types.TripRequest, ragContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a %d-day trip itinerary for Nepal starting on %s.\n", req.Duration, req.StartDate)
	fmt.Fprintf(&b, "Travel Style: %s\n", req.TravelStyle)
	fmt.Fprintf(&b, "Interests: %s\n", strings.Join(req.Interests, ", "))
	if ragContext != "" {
		b.WriteString("\n" + ragContext + "\n")
		b.WriteString("IMPORTANT: Use the verified places listed above when creating the itinerary. Only suggest places that exist in the knowledge base.\n")
	}
	b.WriteString(`
REALISTIC ITINERARY GUIDELINES:
1. Group activities by DISTRICT to minimize travel: each day should focus on ONE primary district,
   never jump between distant districts in the same day.
2. Realistic activity durations: temples/stupas 1-2 hours, nature spots 2-3 hours, food 1 hour, full-day treks 6-8 hours.
3. Travel time between districts: Kathmandu-Pokhara 6-7 hours, Kathmandu-Chitwan 3-4 hours,
   Kathmandu-Dang 8-9 hours, within one district 15-30 minutes.
4. Daily schedule: start 8:00-9:00 AM, end 6:00-7:00 PM, max 3-4 activities per day, include a lunch break.
5. Recommend 2-4 places from the SAME district per day and plan inter-district travel as separate legs.

You must output ONLY valid JSON in the exact format below, with no introductory text:
{
    "name": "Creative Trip Name",
    "days": [
        {
            "day_number": 1,
            "district": "Kathmandu",
            "activities": [
                {
                    "place_name": "Name of place",
                    "notes": "Short description of what to do there",
                    "start_time": "09:00 AM",
                    "end_time": "11:00 AM"
                }
            ]
        }
    ]
}`)
	return b.String()
}

func buildRecommendationsPrompt(profile, learningContext, ragContext string) string {
	database := ragContext
	verified := "ONLY recommend places from the verified knowledge base above. Do NOT make up or invent places."
	if database == "" {
		database = "No specific places found in database. Use general knowledge of Nepal tourism."
		verified = "Recommend well-known places in Nepal that match the profile."
	}
	return fmt.Sprintf(`You are Neptou's AI travel recommendation expert for Nepal. Generate personalized place recommendations.

USER PROFILE:
%s

%s

VERIFIED PLACES DATABASE:
%s

CRITICAL REQUIREMENTS:
1. %s
2. Ensure DIVERSITY: mix of categories (temples, nature, culture, food, adventure)
3. Match TRAVEL STYLE: budget-friendly for budget travelers, luxury for luxury seekers, etc.
4. Include HIDDEN GEMS: at least 2-3 lesser-known authentic spots
5. Provide SPECIFIC reasons that directly reference the user's profile or liked places
6. Match scores should reflect true relevance (0.7-0.95 range)

Return ONLY a JSON array (no other text). Format:
[
    {
        "name": "Exact Place Name from Database",
        "reason": "Specific reason referencing their profile/interests/liked places. Be concrete and personal.",
        "match_score": 0.85,
        "category": "Nature/Culture/Adventure/Food/Temple",
        "is_hidden_gem": true
    }
]

Return 5-7 recommendations, prioritized by relevance to the user.`, profile, learningContext, database, verified)
}

func buildLearningContext(likedPlaces []string) string {
	if len(likedPlaces) == 0 {
		return `RECOMMENDATION STRATEGY FOR NEW USER:
- Suggest a diverse mix of 5-7 places covering different categories
- Include 2-3 popular must-see places, 2-3 hidden gems, 1-2 based on their specific interests
- Ensure variety: temples, nature, culture, food, adventure`
	}
	liked := likedPlaces
	if len(liked) > 5 {
		liked = liked[:5]
	}
	return fmt.Sprintf(`CRITICAL - PERSONALIZATION FROM USER HISTORY:
The user has previously liked/saved these places: %s.

YOUR TASK:
1. Analyze the COMMON PATTERNS in these liked places (categories, characteristics, themes).
2. Recommend 5-7 NEW places that match the identified patterns, are NOT in the liked list,
   and include 2-3 similar picks, 1-2 that expand their interests, and 1-2 hidden gems.
3. For each recommendation, give a SPECIFIC reason tying it to their liked places.`, strings.Join(liked, ", "))
}

func buildGuidePrompt(profile string, locations []string, ragContext, trustedFacts string) string {
	return fmt.Sprintf(`The user is visiting: %s.
User Profile: %s

Use the following VERIFIED INFORMATION to generate the guide. Do not hallucinate places that don't exist.

%s

%s

Based on the profile and the verified facts above, return ONLY a JSON object with 4 keys: 'foods', 'places', 'events', 'guides'.
Prioritize places from the verified knowledge base.
Format:
{
    "foods": [{ "name": "Name", "location": "City", "description": "...", "reason": "..." }],
    "places": [{ "name": "Name", "location": "City", "description": "...", "reason": "..." }],
    "events": [{ "name": "Name", "location": "City", "description": "...", "reason": "..." }],
    "guides": [{ "name": "Name", "location": "City", "description": "...", "reason": "..." }]
}`, strings.Join(locations, ", "), profile, ragContext, trustedFacts)
}
