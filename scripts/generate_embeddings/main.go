// Command generate_embeddings builds the persisted knowledge-base index: it
// embeds every tourism place and emergency contact and writes the JSON files
// the search engine loads at startup.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/subodh10000/neptou-backend/config"
	generativeAI "github.com/subodh10000/neptou-backend/internal/api/generative_ai"
	"github.com/subodh10000/neptou-backend/internal/api/knowledge"
	"github.com/subodh10000/neptou-backend/internal/api/search"
	"github.com/subodh10000/neptou-backend/internal/types"
)

const embedConcurrency = 8

type indexMetadata struct {
	Type        string   `json:"type,omitempty"`
	Category    string   `json:"category,omitempty"`
	Area        string   `json:"area,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Description string   `json:"description,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
}

type indexRecord struct {
	Name      string        `json:"name"`
	Embedding []float32     `json:"embedding"`
	Metadata  indexMetadata `json:"metadata"`
}

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

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	embeddingService, err := generativeAI.NewEmbeddingService(ctx, cfg.AI.EmbeddingModel, logger)
	if err != nil {
		log.Fatalf("Failed to create embedding service: %v", err)
	}

	logger.Info("Starting embedding generation...")

	if err := generatePlaceEmbeddings(ctx, embeddingService, cfg.Data.TourismDataset, cfg.Data.EmbeddingsIndex, logger); err != nil {
		log.Fatalf("Failed to generate place embeddings: %v", err)
	}
	if err := generateEmergencyEmbeddings(ctx, embeddingService, cfg.Data.EmergencyIndex, logger); err != nil {
		log.Fatalf("Failed to generate emergency contact embeddings: %v", err)
	}

	logger.Info("Embedding generation completed!")
}

func generatePlaceEmbeddings(ctx context.Context, embeddingService *generativeAI.EmbeddingService, datasetPath, indexPath string, logger *slog.Logger) error {
	raw, err := os.ReadFile(datasetPath)
	if err != nil {
		return fmt.Errorf("failed to read tourism dataset: %w", err)
	}
	var places []types.TourismPlace
	if err := json.Unmarshal(raw, &places); err != nil {
		return fmt.Errorf("failed to parse tourism dataset: %w", err)
	}

	logger.Info("Embedding tourism places", slog.Int("count", len(places)))

	records := make([]indexRecord, len(places))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i, place := range places {
		g.Go(func() error {
			embedding, err := embeddingService.GenerateDocumentEmbedding(gctx, placeText(place))
			if err != nil {
				return fmt.Errorf("failed to embed %q: %w", place.Name, err)
			}
			records[i] = indexRecord{
				Name:      place.Name,
				Embedding: embedding,
				Metadata: indexMetadata{
					Type:        "place",
					Category:    place.Category,
					Area:        place.Location.Area,
					Tags:        place.Tags,
					Description: place.Description,
					Rating:      place.Rating,
				},
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := search.WriteEntries(indexPath, records); err != nil {
		return err
	}
	logger.Info("Place index written", slog.String("path", indexPath), slog.Int("entries", len(records)))
	return nil
}

func generateEmergencyEmbeddings(ctx context.Context, embeddingService *generativeAI.EmbeddingService, indexPath string, logger *slog.Logger) error {
	contacts := knowledge.EmergencyContacts
	logger.Info("Embedding emergency contacts", slog.Int("count", len(contacts)))

	records := make([]emergencyRecord, len(contacts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i, contact := range contacts {
		g.Go(func() error {
			embedding, err := embeddingService.GenerateDocumentEmbedding(gctx, contactText(contact))
			if err != nil {
				return fmt.Errorf("failed to embed %q: %w", contact.Name, err)
			}
			records[i] = emergencyRecord{
				Name:           contact.Name,
				Phone:          contact.Phone,
				Category:       contact.Category,
				Location:       contact.Location,
				Description:    contact.Description,
				Available247:   contact.Available247,
				Languages:      contact.Languages,
				AdditionalInfo: contact.AdditionalInfo,
				Embedding:      embedding,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := search.WriteEntries(indexPath, records); err != nil {
		return err
	}
	logger.Info("Emergency contact index written", slog.String("path", indexPath), slog.Int("entries", len(records)))
	return nil
}

func placeText(p types.TourismPlace) string {
	parts := []string{p.Name, p.Category, p.Description, p.Location.Area}
	if len(p.Tags) > 0 {
		parts = append(parts, strings.Join(p.Tags, ", "))
	}
	return strings.Join(parts, ". ")
}

func contactText(c types.EmergencyContact) string {
	parts := []string{c.Name, c.Category, c.Location, c.Description}
	if c.AdditionalInfo != "" {
		parts = append(parts, c.AdditionalInfo)
	}
	return strings.Join(parts, ". ")
}
