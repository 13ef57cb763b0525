package generativeAI

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

const defaultEmbeddingModel = "text-embedding-004"

// EmbeddingService produces query and document embeddings with a fixed model.
// The model identity is a hard contract: vectors produced by different models
// are not comparable and must never be mixed in one collection.
type EmbeddingService struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewEmbeddingService creates the embedding client. Fails when the API key is
// missing or the client cannot be constructed.
func NewEmbeddingService(ctx context.Context, model string, logger *slog.Logger) (*EmbeddingService, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "NewEmbeddingService")
	defer span.End()

	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		err := fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
		span.RecordError(err)
		span.SetStatus(codes.Error, "API key not set")
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create embedding client")
		return nil, fmt.Errorf("failed to create embedding client: %w", err)
	}

	if model == "" {
		model = defaultEmbeddingModel
	}

	span.SetStatus(codes.Ok, "Embedding service created successfully")
	return &EmbeddingService{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Model returns the embedding model identity baked into this service.
func (s *EmbeddingService) Model() string { return s.model }

// GenerateQueryEmbedding embeds a search query.
func (s *EmbeddingService) GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "GenerateQueryEmbedding", trace.WithAttributes(
		attribute.Int("query.length", len(query)),
		attribute.String("model", s.model),
	))
	defer span.End()

	result, err := s.client.Models.EmbedContent(ctx, s.model, genai.Text(query), nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to embed query")
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		err := fmt.Errorf("embedding response contained no values")
		span.RecordError(err)
		span.SetStatus(codes.Error, "Empty embedding response")
		return nil, err
	}

	values := result.Embeddings[0].Values
	span.SetAttributes(attribute.Int("embedding.dimension", len(values)))
	span.SetStatus(codes.Ok, "Query embedded successfully")
	return values, nil
}

// GenerateDocumentEmbedding embeds a knowledge-base document text. Same model
// as queries; only the trace name differs.
func (s *EmbeddingService) GenerateDocumentEmbedding(ctx context.Context, text string) ([]float32, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "GenerateDocumentEmbedding", trace.WithAttributes(
		attribute.Int("text.length", len(text)),
		attribute.String("model", s.model),
	))
	defer span.End()

	result, err := s.client.Models.EmbedContent(ctx, s.model, genai.Text(text), nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to embed document")
		return nil, fmt.Errorf("failed to embed document: %w", err)
	}
	if len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		err := fmt.Errorf("embedding response contained no values")
		span.RecordError(err)
		span.SetStatus(codes.Error, "Empty embedding response")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Document embedded successfully")
	return result.Embeddings[0].Values, nil
}
