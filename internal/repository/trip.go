package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/solotrip/solotrip-go/internal/model"
)

var ErrTripNotFound = errors.New("trip not found")

const tripColumns = `id, user_id, destination, budget, travel_style, requires_visa, group_size, start_date, created_at, updated_at`

// TripRepository handles trip persistence on MySQL or SQLite.
type TripRepository struct {
	db *sqlx.DB
}

// NewTripRepository creates a new TripRepository.
func NewTripRepository(db *sqlx.DB) *TripRepository {
	return &TripRepository{db: db}
}

// List returns every trip in insertion order.
func (r *TripRepository) List(ctx context.Context) ([]model.Trip, error) {
	trips := []model.Trip{}
	if err := r.db.SelectContext(ctx, &trips, `SELECT `+tripColumns+` FROM trips ORDER BY id`); err != nil {
		return nil, err
	}
	return trips, nil
}

// GetByID retrieves a single trip.
func (r *TripRepository) GetByID(ctx context.Context, id int64) (*model.Trip, error) {
	return getTrip(ctx, r.db, id)
}

// Create inserts a trip and sets the generated ID on it.
func (r *TripRepository) Create(ctx context.Context, trip *model.Trip) error {
	query := `INSERT INTO trips (user_id, destination, destination_lower, budget, travel_style, requires_visa, group_size, start_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		trip.UserID,
		trip.Destination,
		FoldDestination(trip.Destination),
		trip.Budget,
		string(trip.TravelStyle),
		trip.RequiresVisa,
		trip.GroupSize,
		trip.StartDate,
		trip.CreatedAt,
		trip.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	trip.ID = id
	return nil
}

// Update overwrites the mutable fields of trip.ID and reloads the stored row into trip.
// Owner and creation time are never written.
func (r *TripRepository) Update(ctx context.Context, trip *model.Trip) error {
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := getTrip(ctx, tx, trip.ID); err != nil {
			return err
		}

		query := `UPDATE trips
			SET destination = ?, destination_lower = ?, budget = ?, travel_style = ?, requires_visa = ?, group_size = ?, start_date = ?, updated_at = ?
			WHERE id = ?`
		if _, err := tx.ExecContext(ctx, query,
			trip.Destination,
			FoldDestination(trip.Destination),
			trip.Budget,
			string(trip.TravelStyle),
			trip.RequiresVisa,
			trip.GroupSize,
			trip.StartDate,
			trip.UpdatedAt,
			trip.ID,
		); err != nil {
			return fmt.Errorf("updating trip %d: %w", trip.ID, err)
		}

		stored, err := getTrip(ctx, tx, trip.ID)
		if err != nil {
			return err
		}
		*trip = *stored
		return nil
	})
}

// Delete removes a trip. Returns ErrTripNotFound when no row matched.
func (r *TripRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTripNotFound
	}
	return nil
}

// SearchByDestination returns trips whose destination contains q, ignoring case.
// Matching runs against destination_lower, which is folded in Go on every write.
func (r *TripRepository) SearchByDestination(ctx context.Context, q string) ([]model.Trip, error) {
	trips := []model.Trip{}
	query := `SELECT ` + tripColumns + ` FROM trips WHERE destination_lower LIKE ? ESCAPE '!' ORDER BY id`
	if err := r.db.SelectContext(ctx, &trips, query, ContainsPattern(q)); err != nil {
		return nil, err
	}
	return trips, nil
}

func getTrip(ctx context.Context, q sqlx.QueryerContext, id int64) (*model.Trip, error) {
	trip := &model.Trip{}
	err := sqlx.GetContext(ctx, q, trip, `SELECT `+tripColumns+` FROM trips WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	return trip, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// FoldDestination is the case folding stored in destination_lower and applied to search input.
// SQL LOWER is ASCII-only on SQLite, so folding happens here for every backend.
func FoldDestination(s string) string {
	return strings.ToLower(s)
}

// ContainsPattern builds a folded LIKE pattern matching q anywhere, with '!' as the escape character.
func ContainsPattern(q string) string {
	return "%" + likeEscaper.Replace(FoldDestination(q)) + "%"
}
