package types

// GeoPoint is a latitude/longitude pair on the WGS84 sphere.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PlaceRecordLocation is the nested location block of a tourism place record.
type PlaceRecordLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Area      string  `json:"area"`
}

// TourismPlace is one record of the static tourism dataset.
type TourismPlace struct {
	Name         string              `json:"name"`
	NameNepali   string              `json:"name_nepali,omitempty"`
	Category     string              `json:"category"`
	Description  string              `json:"description,omitempty"`
	Location     PlaceRecordLocation `json:"location"`
	Rating       float64             `json:"rating,omitempty"`
	GoogleRating float64             `json:"google_rating,omitempty"`
	TimeNeeded   string              `json:"time_needed,omitempty"`
	Tags         []string            `json:"tags,omitempty"`
}

// PlaceLocation is the resolved geographic and administrative facts about a
// named place. District is empty when the area label maps to no known region.
type PlaceLocation struct {
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Area       string  `json:"area"`
	District   string  `json:"district,omitempty"`
	Category   string  `json:"category,omitempty"`
	TimeNeeded string  `json:"time_needed,omitempty"`
}

// EmergencyContact is one entry of the static emergency directory.
type EmergencyContact struct {
	Name           string   `json:"name"`
	Phone          string   `json:"phone"`
	Category       string   `json:"category"`
	Location       string   `json:"location"`
	Description    string   `json:"description"`
	Available247   bool     `json:"available_24_7"`
	Languages      []string `json:"languages,omitempty"`
	AdditionalInfo string   `json:"additional_info,omitempty"`
}

// ChatMessage is one turn of a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest supports both a single message and a full history.
type ChatRequest struct {
	Message      string            `json:"message,omitempty"`
	History      []ChatMessage     `json:"history,omitempty"`
	PlaceContext map[string]string `json:"place_context,omitempty"`
	FoodContext  map[string]string `json:"food_context,omitempty"`
}

// ChatResponse carries the assistant reply plus suggested follow-ups.
type ChatResponse struct {
	Response          string   `json:"response"`
	FollowUpQuestions []string `json:"follow_up_questions"`
}

// UserProfileRequest asks for personalized place recommendations.
type UserProfileRequest struct {
	Name        string   `json:"name"`
	TravelStyle string   `json:"travel_style"`
	Interests   []string `json:"interests"`
	LikedPlaces []string `json:"liked_places,omitempty"`
}

// Recommendation is one personalized place pick.
type Recommendation struct {
	Name        string  `json:"name"`
	Reason      string  `json:"reason"`
	MatchScore  float64 `json:"match_score"`
	Category    string  `json:"category"`
	IsHiddenGem bool    `json:"is_hidden_gem"`
}

// DestinationGuideRequest asks for a full guide covering several locations.
type DestinationGuideRequest struct {
	TravelStyle string   `json:"travel_style"`
	Interests   []string `json:"interests"`
	Locations   []string `json:"locations"`
}

// GuideItem is one entry of a destination guide section.
type GuideItem struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
}

// DestinationGuide groups guide items by section.
type DestinationGuide struct {
	Foods  []GuideItem `json:"foods"`
	Places []GuideItem `json:"places"`
	Events []GuideItem `json:"events"`
	Guides []GuideItem `json:"guides"`
}
