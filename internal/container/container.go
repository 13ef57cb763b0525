package container

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"

	database "github.com/subodh10000/neptou-backend/app/db"
	"github.com/subodh10000/neptou-backend/app/observability/metrics"
	"github.com/subodh10000/neptou-backend/config"
	"github.com/subodh10000/neptou-backend/internal/api/assistant"
	generativeAI "github.com/subodh10000/neptou-backend/internal/api/generative_ai"
	"github.com/subodh10000/neptou-backend/internal/api/knowledge"
	"github.com/subodh10000/neptou-backend/internal/api/optimizer"
	"github.com/subodh10000/neptou-backend/internal/api/search"
	"github.com/subodh10000/neptou-backend/internal/api/trips"
)

// Container holds all application dependencies, wired explicitly at startup.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Pool   *pgxpool.Pool

	Dataset *knowledge.Dataset

	SearchHandler    *search.Handler
	AssistantHandler *assistant.Handler
	OptimizerHandler *optimizer.Handler
	KnowledgeHandler *knowledge.Handler
	TripsHandler     *trips.Handler
}

// NewContainer initializes and returns a new dependency container.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	appMetrics, err := metrics.NewAppMetrics(otel.GetMeterProvider().Meter("neptou-backend"))
	if err != nil {
		logger.Error("Failed to initialize metrics instruments", slog.Any("error", err))
		return nil, err
	}

	// Static knowledge base: tourism dataset plus the precomputed embedding index
	dataset := knowledge.NewDataset(cfg.Data.TourismDataset, logger)
	entries := search.LoadEntries(cfg.Data.EmbeddingsIndex, cfg.Data.EmergencyIndex, logger)

	embedder, err := generativeAI.NewEmbeddingService(ctx, cfg.AI.EmbeddingModel, logger)
	if err != nil {
		logger.Error("Failed to initialize embedding service", slog.Any("error", err))
		return nil, err
	}
	aiClient, err := generativeAI.NewAIClient(ctx, cfg.AI.ChatModel, appMetrics)
	if err != nil {
		logger.Error("Failed to initialize AI client", slog.Any("error", err))
		return nil, err
	}

	searchService := search.NewServiceImpl(entries, embedder, logger)
	searchHandler := search.NewHandler(searchService, appMetrics, logger)

	optimizerService := optimizer.NewServiceImpl(dataset, appMetrics, logger)
	optimizerHandler := optimizer.NewHandler(optimizerService, appMetrics, logger)

	assistantService := assistant.NewServiceImpl(aiClient, searchService, optimizerService, logger)
	assistantHandler := assistant.NewHandler(assistantService, logger)

	knowledgeHandler := knowledge.NewHandler(dataset, logger)

	tripsRepo := trips.NewRepository(pool, logger)
	tripsService := trips.NewServiceImpl(tripsRepo, logger)
	tripsHandler := trips.NewHandler(tripsService, logger)

	return &Container{
		Config:           cfg,
		Logger:           logger,
		Pool:             pool,
		Dataset:          dataset,
		SearchHandler:    searchHandler,
		AssistantHandler: assistantHandler,
		OptimizerHandler: optimizerHandler,
		KnowledgeHandler: knowledgeHandler,
		TripsHandler:     tripsHandler,
	}, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}

// RunMigrations runs database migrations
func (c *Container) RunMigrations(connectionURL string) error {
	return database.RunMigrations(connectionURL, c.Logger)
}
