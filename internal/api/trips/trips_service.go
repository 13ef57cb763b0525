package trips

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/subodh10000/neptou-backend/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	SaveTrip(ctx context.Context, req types.SaveTripRequest) (*types.SavedTrip, error)
	GetTrip(ctx context.Context, tripID uuid.UUID) (types.SavedTrip, error)
	ListTrips(ctx context.Context) ([]*types.SavedTrip, error)
	SaveUserProfile(ctx context.Context, name string, preferences json.RawMessage) (*types.UserProfile, error)
	GetUserProfile(ctx context.Context, userID uuid.UUID) (types.UserProfile, error)
}

type ServiceImpl struct {
	logger         *slog.Logger
	tripRepository Repository
}

// NewServiceImpl creates a new instance of ServiceImpl
func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:         logger,
		tripRepository: repo,
	}
}

// SaveTrip persists a planned itinerary under a new ID
func (s *ServiceImpl) SaveTrip(ctx context.Context, req types.SaveTripRequest) (*types.SavedTrip, error) {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "SaveTrip", trace.WithAttributes(
		attribute.String("trip.name", req.Name),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "SaveTrip"))

	name := req.Name
	if name == "" {
		name = req.Itinerary.Name
	}
	if name == "" {
		name = "Saved Trip"
	}

	itinerary, err := json.Marshal(req.Itinerary)
	if err != nil {
		l.ErrorContext(ctx, "Failed to marshal itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal itinerary")
		return nil, fmt.Errorf("failed to marshal itinerary: %w", err)
	}

	trip := types.SavedTrip{
		ID:        uuid.New(),
		Name:      name,
		Itinerary: itinerary,
		CreatedAt: time.Now(),
	}

	if err := s.tripRepository.SaveTrip(ctx, trip); err != nil {
		l.ErrorContext(ctx, "Failed to save trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save trip")
		return nil, fmt.Errorf("failed to save trip: %w", err)
	}

	l.InfoContext(ctx, "Trip saved", slog.String("tripID", trip.ID.String()))
	span.SetAttributes(attribute.String("trip.id", trip.ID.String()))
	span.SetStatus(codes.Ok, "Trip saved")
	return &trip, nil
}

// GetTrip fetches a single saved trip
func (s *ServiceImpl) GetTrip(ctx context.Context, tripID uuid.UUID) (types.SavedTrip, error) {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "GetTrip", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	trip, err := s.tripRepository.GetTrip(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get trip")
		return types.SavedTrip{}, err
	}
	span.SetStatus(codes.Ok, "Trip fetched")
	return trip, nil
}

// ListTrips fetches all saved trips, most recent first
func (s *ServiceImpl) ListTrips(ctx context.Context) ([]*types.SavedTrip, error) {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "ListTrips")
	defer span.End()

	trips, err := s.tripRepository.ListTrips(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list trips")
		return nil, err
	}
	span.SetAttributes(attribute.Int("trips.count", len(trips)))
	span.SetStatus(codes.Ok, "Trips listed")
	return trips, nil
}

// SaveUserProfile persists a user with loosely-typed preferences
func (s *ServiceImpl) SaveUserProfile(ctx context.Context, name string, preferences json.RawMessage) (*types.UserProfile, error) {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "SaveUserProfile", trace.WithAttributes(
		attribute.String("user.name", name),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "SaveUserProfile"))

	if name == "" {
		err := fmt.Errorf("user name is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "Missing user name")
		return nil, err
	}

	profile := types.UserProfile{
		ID:          uuid.New(),
		Name:        name,
		Preferences: preferences,
		CreatedAt:   time.Now(),
	}

	if err := s.tripRepository.SaveUserProfile(ctx, profile); err != nil {
		l.ErrorContext(ctx, "Failed to save user profile", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save user profile")
		return nil, fmt.Errorf("failed to save user profile: %w", err)
	}

	l.InfoContext(ctx, "User profile saved", slog.String("userID", profile.ID.String()))
	span.SetStatus(codes.Ok, "User profile saved")
	return &profile, nil
}

// GetUserProfile fetches a user profile by ID
func (s *ServiceImpl) GetUserProfile(ctx context.Context, userID uuid.UUID) (types.UserProfile, error) {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "GetUserProfile", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	profile, err := s.tripRepository.GetUserProfile(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get user profile")
		return types.UserProfile{}, err
	}
	span.SetStatus(codes.Ok, "User profile fetched")
	return profile, nil
}
