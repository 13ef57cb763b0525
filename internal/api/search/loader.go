package search

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/subodh10000/neptou-backend/internal/types"
)

// indexRecord is the persisted shape of one knowledge-base entry. The metadata
// keys vary by kind; kind resolution happens here, at the load boundary, so the
// rest of the system only ever sees the tagged IndexEntry union.
type indexRecord struct {
	Name      string        `json:"name"`
	Embedding []float32     `json:"embedding"`
	Metadata  indexMetadata `json:"metadata"`
}

type indexMetadata struct {
	Type        string   `json:"type,omitempty"`
	Category    string   `json:"category,omitempty"`
	Area        string   `json:"area,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Content     string   `json:"content,omitempty"`
	Description string   `json:"description,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Specialties []string `json:"specialties,omitempty"`
	Languages   []string `json:"languages,omitempty"`
	PricePerDay float64  `json:"price_per_day,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
}

// emergencyRecord is the persisted shape of one embedded emergency contact.
type emergencyRecord struct {
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Category       string    `json:"category"`
	Location       string    `json:"location"`
	Description    string    `json:"description"`
	Available247   bool      `json:"available_24_7"`
	Languages      []string  `json:"languages,omitempty"`
	AdditionalInfo string    `json:"additional_info,omitempty"`
	Embedding      []float32 `json:"embedding"`
}

func (r indexRecord) toEntry() types.IndexEntry {
	entry := types.IndexEntry{
		Name:      r.Name,
		Embedding: r.Embedding,
	}

	m := r.Metadata
	switch {
	case m.Type == "local_insight":
		entry.Kind = types.EntryKindLocalInsight
		entry.Insight = &types.InsightEntry{
			Content:  m.Content,
			District: m.Area,
			Tags:     m.Tags,
		}
	case m.Type == "guide" || m.Category == "guide":
		bio := m.Bio
		if bio == "" {
			bio = m.Description
		}
		entry.Kind = types.EntryKindGuide
		entry.Guide = &types.GuideEntry{
			Area:        m.Area,
			Bio:         bio,
			Specialties: m.Specialties,
			Languages:   m.Languages,
			PricePerDay: m.PricePerDay,
			Rating:      m.Rating,
		}
	default:
		entry.Kind = types.EntryKindPlace
		entry.Place = &types.PlaceEntry{
			Category:    m.Category,
			Area:        m.Area,
			Description: m.Description,
			Tags:        m.Tags,
		}
	}
	return entry
}

func (r emergencyRecord) toEntry() types.IndexEntry {
	return types.IndexEntry{
		Name:      r.Name,
		Kind:      types.EntryKindEmergencyContact,
		Embedding: r.Embedding,
		Contact: &types.ContactEntry{
			Phone:          r.Phone,
			Category:       r.Category,
			Location:       r.Location,
			Description:    r.Description,
			Available247:   r.Available247,
			Languages:      r.Languages,
			AdditionalInfo: r.AdditionalInfo,
		},
	}
}

// LoadEntries reads the persisted index collection plus the optional
// emergency-contacts collection. Missing or malformed files degrade to an
// empty (or partial) collection rather than failing: searching an empty index
// simply returns nothing.
func LoadEntries(indexPath, emergencyPath string, logger *slog.Logger) []types.IndexEntry {
	var entries []types.IndexEntry

	raw, err := os.ReadFile(indexPath)
	if err != nil {
		logger.Warn("Embeddings file not found, starting with empty index",
			slog.String("path", indexPath), slog.Any("error", err))
	} else {
		var records []indexRecord
		if err := json.Unmarshal(raw, &records); err != nil {
			logger.Error("Failed to parse embeddings file, starting with empty index",
				slog.String("path", indexPath), slog.Any("error", err))
		} else {
			for _, r := range records {
				entries = append(entries, r.toEntry())
			}
		}
	}

	if emergencyPath != "" {
		raw, err := os.ReadFile(emergencyPath)
		if err != nil {
			logger.Warn("Emergency contact embeddings not found, contacts will not be searchable",
				slog.String("path", emergencyPath), slog.Any("error", err))
		} else {
			var records []emergencyRecord
			if err := json.Unmarshal(raw, &records); err != nil {
				logger.Error("Failed to parse emergency contact embeddings",
					slog.String("path", emergencyPath), slog.Any("error", err))
			} else {
				for _, r := range records {
					entries = append(entries, r.toEntry())
				}
			}
		}
	}

	counts := map[types.EntryKind]int{}
	for _, e := range entries {
		counts[e.Kind]++
	}
	logger.Info("Knowledge-base index loaded",
		slog.Int("total", len(entries)),
		slog.Int("places", counts[types.EntryKindPlace]),
		slog.Int("insights", counts[types.EntryKindLocalInsight]),
		slog.Int("contacts", counts[types.EntryKindEmergencyContact]),
		slog.Int("guides", counts[types.EntryKindGuide]),
	)
	return entries
}

// WriteEntries persists records in the index wire format. Used by the offline
// embedding generation script.
func WriteEntries(path string, records any) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}
	return nil
}
