package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solotrip/solotrip-go/internal/model"
	"github.com/solotrip/solotrip-go/internal/repository"
)

const tripColumns = `id, user_id, destination, budget, travel_style, requires_visa, group_size, start_date, created_at, updated_at`

// TripRepository is a PostgreSQL trip store.
type TripRepository struct {
	pool *pgxpool.Pool
}

func NewTripRepository(pool *pgxpool.Pool) *TripRepository {
	return &TripRepository{pool: pool}
}

func (r *TripRepository) List(ctx context.Context) ([]model.Trip, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+tripColumns+` FROM trips ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collectTrips(rows)
}

func (r *TripRepository) GetByID(ctx context.Context, id int64) (*model.Trip, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = $1`, id)
	t, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrTripNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *TripRepository) Create(ctx context.Context, trip *model.Trip) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO trips (user_id, destination, destination_lower, budget, travel_style, requires_visa, group_size, start_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`,
		trip.UserID,
		trip.Destination,
		repository.FoldDestination(trip.Destination),
		trip.Budget,
		string(trip.TravelStyle),
		trip.RequiresVisa,
		trip.GroupSize,
		toPgDate(trip.StartDate),
		trip.CreatedAt.UTC(),
		trip.UpdatedAt.UTC(),
	).Scan(&trip.ID)
}

// Update locks the row, overwrites its mutable fields and reloads it into trip.
func (r *TripRepository) Update(ctx context.Context, trip *model.Trip) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var id int64
		if err := tx.QueryRow(ctx, `SELECT id FROM trips WHERE id = $1 FOR UPDATE`, trip.ID).Scan(&id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return repository.ErrTripNotFound
			}
			return err
		}

		row := tx.QueryRow(ctx, `
			UPDATE trips
			SET destination = $1, destination_lower = $2, budget = $3, travel_style = $4,
			    requires_visa = $5, group_size = $6, start_date = $7, updated_at = $8
			WHERE id = $9
			RETURNING `+tripColumns,
			trip.Destination,
			repository.FoldDestination(trip.Destination),
			trip.Budget,
			string(trip.TravelStyle),
			trip.RequiresVisa,
			trip.GroupSize,
			toPgDate(trip.StartDate),
			trip.UpdatedAt.UTC(),
			trip.ID,
		)
		stored, err := scanTrip(row)
		if err != nil {
			return fmt.Errorf("updating trip %d: %w", trip.ID, err)
		}
		*trip = *stored
		return nil
	})
}

func (r *TripRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrTripNotFound
	}
	return nil
}

func (r *TripRepository) SearchByDestination(ctx context.Context, q string) ([]model.Trip, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE destination_lower LIKE $1 ESCAPE '!' ORDER BY id`,
		repository.ContainsPattern(q),
	)
	if err != nil {
		return nil, err
	}
	return collectTrips(rows)
}

// --- helpers ---

func collectTrips(rows pgx.Rows) ([]model.Trip, error) {
	defer rows.Close()

	trips := []model.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trips, nil
}

func scanTrip(row pgx.Row) (*model.Trip, error) {
	var (
		t         model.Trip
		style     string
		startDate pgtype.Date
	)
	if err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Destination,
		&t.Budget,
		&style,
		&t.RequiresVisa,
		&t.GroupSize,
		&startDate,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.TravelStyle = model.TravelStyle(style)
	t.StartDate = model.NewDate(startDate.Time)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

func toPgDate(d model.Date) pgtype.Date {
	return pgtype.Date{
		Time:  time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
		Valid: true,
	}
}
