package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// UserProfile is a persisted user with loosely-typed preferences.
type UserProfile struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Preferences json.RawMessage `json:"preferences,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SavedTrip is a persisted itinerary as returned by the planner.
type SavedTrip struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Itinerary json.RawMessage `json:"itinerary"`
	CreatedAt time.Time       `json:"created_at"`
}

// SaveTripRequest is the body of the trip save endpoint.
type SaveTripRequest struct {
	Name      string    `json:"name"`
	Itinerary Itinerary `json:"itinerary"`
}
