package types

// EntryKind discriminates the shapes stored in one search collection.
type EntryKind string

const (
	EntryKindPlace            EntryKind = "place"
	EntryKindLocalInsight     EntryKind = "local_insight"
	EntryKindEmergencyContact EntryKind = "emergency_contact"
	EntryKindGuide            EntryKind = "guide"
)

// IndexEntry is one retrievable unit of the knowledge base. Exactly one of the
// kind-specific fields is non-nil, selected by Kind. All embeddings loaded into
// one collection share a single dimensionality.
type IndexEntry struct {
	Name      string    `json:"name"`
	Kind      EntryKind `json:"kind"`
	Embedding []float32 `json:"-"`

	Place   *PlaceEntry   `json:"place,omitempty"`
	Insight *InsightEntry `json:"insight,omitempty"`
	Contact *ContactEntry `json:"contact,omitempty"`
	Guide   *GuideEntry   `json:"guide,omitempty"`
}

// PlaceEntry carries the metadata of a tourism place entry.
type PlaceEntry struct {
	Category    string   `json:"category"`
	Area        string   `json:"area"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// InsightEntry is anecdotal or expert-sourced local information, retrieved and
// ranked identically to place entries.
type InsightEntry struct {
	Content  string   `json:"content"`
	District string   `json:"district,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// ContactEntry is an emergency contact made searchable through the index.
type ContactEntry struct {
	Phone          string   `json:"phone"`
	Category       string   `json:"category"`
	Location       string   `json:"location"`
	Description    string   `json:"description,omitempty"`
	Available247   bool     `json:"available_24_7"`
	Languages      []string `json:"languages,omitempty"`
	AdditionalInfo string   `json:"additional_info,omitempty"`
}

// GuideEntry is a local guide profile.
type GuideEntry struct {
	Area        string   `json:"area"`
	Bio         string   `json:"bio,omitempty"`
	Specialties []string `json:"specialties,omitempty"`
	Languages   []string `json:"languages,omitempty"`
	PricePerDay float64  `json:"price_per_day,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
}

// ScoredEntry pairs an entry with its cosine similarity against a query.
type ScoredEntry struct {
	Entry IndexEntry `json:"entry"`
	Score float64    `json:"score"`
}

// SearchRequest is the body of the semantic search endpoint.
type SearchRequest struct {
	Query    string   `json:"query"`
	TopK     int      `json:"top_k,omitempty"`
	MinScore *float64 `json:"min_score,omitempty"`
}

// SearchResult is one row of the semantic search response.
type SearchResult struct {
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Category        string   `json:"category,omitempty"`
	Area            string   `json:"area,omitempty"`
	SimilarityScore float64  `json:"similarity_score"`
	Description     string   `json:"description,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

// SearchResponse is the semantic search response envelope.
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}
