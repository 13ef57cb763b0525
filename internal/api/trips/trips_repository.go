package trips

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/subodh10000/neptou-backend/internal/types"
)

// PostgresPool is the subset of pgxpool.Pool the repository needs. Kept narrow
// so tests can substitute a pgxmock pool.
type PostgresPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Ensure RepositoryImpl implements the Repository interface
var _ Repository = (*RepositoryImpl)(nil)

// Repository defines the persistence operations for saved trips and user profiles.
type Repository interface {
	SaveTrip(ctx context.Context, trip types.SavedTrip) error
	GetTrip(ctx context.Context, tripID uuid.UUID) (types.SavedTrip, error)
	ListTrips(ctx context.Context) ([]*types.SavedTrip, error)
	SaveUserProfile(ctx context.Context, profile types.UserProfile) error
	GetUserProfile(ctx context.Context, userID uuid.UUID) (types.UserProfile, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool PostgresPool
}

func NewRepository(pgpool PostgresPool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

// SaveTrip inserts a new saved trip into the trips table
func (r *RepositoryImpl) SaveTrip(ctx context.Context, trip types.SavedTrip) error {
	query := `
        INSERT INTO trips (
            id, name, itinerary, created_at
        ) VALUES (
            $1, $2, $3, $4
        )
    `
	_, err := r.pgpool.Exec(ctx, query, trip.ID, trip.Name, trip.Itinerary, trip.CreatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to save trip", slog.Any("error", err))
		return fmt.Errorf("failed to save trip: %w", err)
	}
	return nil
}

// GetTrip retrieves a saved trip by its ID from the trips table
func (r *RepositoryImpl) GetTrip(ctx context.Context, tripID uuid.UUID) (types.SavedTrip, error) {
	query := `
        SELECT id, name, itinerary, created_at
        FROM trips
        WHERE id = $1
    `
	row := r.pgpool.QueryRow(ctx, query, tripID)
	var trip types.SavedTrip
	err := row.Scan(&trip.ID, &trip.Name, &trip.Itinerary, &trip.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return types.SavedTrip{}, fmt.Errorf("trip not found: %w", err)
		}
		r.logger.ErrorContext(ctx, "Failed to get trip", slog.Any("error", err))
		return types.SavedTrip{}, fmt.Errorf("failed to get trip: %w", err)
	}
	return trip, nil
}

// ListTrips retrieves all saved trips, most recent first
func (r *RepositoryImpl) ListTrips(ctx context.Context) ([]*types.SavedTrip, error) {
	query := `
        SELECT id, name, itinerary, created_at
        FROM trips
        ORDER BY created_at DESC
    `
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list trips", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*types.SavedTrip
	for rows.Next() {
		var trip types.SavedTrip
		if err := rows.Scan(&trip.ID, &trip.Name, &trip.Itinerary, &trip.CreatedAt); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan trip", slog.Any("error", err))
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, &trip)
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating trip rows", slog.Any("error", err))
		return nil, fmt.Errorf("error iterating trip rows: %w", err)
	}
	return trips, nil
}

// SaveUserProfile upserts a user profile into the users table
func (r *RepositoryImpl) SaveUserProfile(ctx context.Context, profile types.UserProfile) error {
	query := `
        INSERT INTO users (
            id, name, preferences, created_at
        ) VALUES (
            $1, $2, $3, $4
        )
        ON CONFLICT (id) DO UPDATE
        SET name = EXCLUDED.name, preferences = EXCLUDED.preferences
    `
	preferences := profile.Preferences
	if preferences == nil {
		preferences = json.RawMessage(`{}`)
	}
	_, err := r.pgpool.Exec(ctx, query, profile.ID, profile.Name, preferences, profile.CreatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to save user profile", slog.Any("error", err))
		return fmt.Errorf("failed to save user profile: %w", err)
	}
	return nil
}

// GetUserProfile retrieves a user profile by its ID from the users table
func (r *RepositoryImpl) GetUserProfile(ctx context.Context, userID uuid.UUID) (types.UserProfile, error) {
	query := `
        SELECT id, name, preferences, created_at
        FROM users
        WHERE id = $1
    `
	row := r.pgpool.QueryRow(ctx, query, userID)
	var profile types.UserProfile
	err := row.Scan(&profile.ID, &profile.Name, &profile.Preferences, &profile.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return types.UserProfile{}, fmt.Errorf("user profile not found: %w", err)
		}
		r.logger.ErrorContext(ctx, "Failed to get user profile", slog.Any("error", err))
		return types.UserProfile{}, fmt.Errorf("failed to get user profile: %w", err)
	}
	return profile, nil
}
