package generativeAI

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/subodh10000/neptou-backend/app/observability/metrics"
)

const defaultModel = "gemini-2.0-flash"

// AIClient wraps the Gemini client used for content generation.
type AIClient struct {
	client     *genai.Client
	model      string
	appMetrics *metrics.AppMetrics
}

// NewAIClient creates a Gemini client from the GOOGLE_GEMINI_API_KEY
// environment variable. A missing key or failed client setup is a
// configuration error: callers decide whether to abort or run degraded.
func NewAIClient(ctx context.Context, model string, appMetrics *metrics.AppMetrics) (*AIClient, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "NewAIClient")
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
		span.SetStatus(codes.Error, "Failed to create Gemini client")
		return nil, err
	}

	if model == "" {
		model = defaultModel
	}

	span.SetStatus(codes.Ok, "AI client created successfully")
	return &AIClient{
		client:     client,
		model:      model,
		appMetrics: appMetrics,
	}, nil
}

// GenerateContent sends a single prompt and returns the response text.
func (ai *AIClient) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "GenerateContent", trace.WithAttributes(
		attribute.Int("prompt.length", len(prompt)),
		attribute.String("model", ai.model),
	))
	defer span.End()

	start := time.Now()
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if ai.appMetrics != nil {
		ai.appMetrics.ModelCallsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("model", ai.model)))
		ai.appMetrics.ModelCallDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to generate content")
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	responseText := result.Text()
	span.SetAttributes(attribute.Int("response.length", len(responseText)))
	span.SetStatus(codes.Ok, "Content generated successfully")
	return responseText, nil
}
