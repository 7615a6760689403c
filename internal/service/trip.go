package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/solotrip/solotrip-go/internal/model"
	"github.com/solotrip/solotrip-go/internal/repository"
)

var (
	ErrTripNotFound  = errors.New("trip not found")
	ErrOwnerNotFound = errors.New("owner not found")
)

// TripService handles trip business logic.
type TripService struct {
	trips TripRepository
	users UserRepository
	now   func() time.Time
}

// NewTripService creates a new TripService.
func NewTripService(trips TripRepository, users UserRepository) *TripService {
	return &TripService{
		trips: trips,
		users: users,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// List returns all trips in storage order.
func (s *TripService) List(ctx context.Context) ([]model.TripResponse, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing trips: %w", err)
	}
	return toTripResponses(trips), nil
}

// Get returns a single trip.
func (s *TripService) Get(ctx context.Context, id int64) (model.TripResponse, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return model.TripResponse{}, mapTripError(err)
	}
	return toTripResponse(*trip), nil
}

// Create stores a new trip owned by ownerUsername.
// Nothing is persisted when the owner does not exist.
func (s *TripService) Create(ctx context.Context, in model.TripInput, ownerUsername string) (model.TripResponse, error) {
	owner, err := s.users.GetByUsername(ctx, ownerUsername)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.TripResponse{}, ErrOwnerNotFound
		}
		return model.TripResponse{}, fmt.Errorf("resolving owner: %w", err)
	}

	now := s.now()
	trip := &model.Trip{
		UserID:       owner.ID,
		Destination:  in.Destination,
		Budget:       in.Budget,
		TravelStyle:  in.TravelStyle,
		RequiresVisa: in.RequiresVisa,
		GroupSize:    in.GroupSize,
		StartDate:    in.StartDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.trips.Create(ctx, trip); err != nil {
		return model.TripResponse{}, fmt.Errorf("creating trip: %w", err)
	}

	slog.Info("trip created", "trip_id", trip.ID, "owner", owner.Username)
	return toTripResponse(*trip), nil
}

// Update overwrites the mutable fields of trip id. Owner and creation time are kept.
func (s *TripService) Update(ctx context.Context, id int64, in model.TripInput) (model.TripResponse, error) {
	trip := &model.Trip{
		ID:           id,
		Destination:  in.Destination,
		Budget:       in.Budget,
		TravelStyle:  in.TravelStyle,
		RequiresVisa: in.RequiresVisa,
		GroupSize:    in.GroupSize,
		StartDate:    in.StartDate,
		UpdatedAt:    s.now(),
	}
	if err := s.trips.Update(ctx, trip); err != nil {
		return model.TripResponse{}, mapTripError(err)
	}

	slog.Info("trip updated", "trip_id", id)
	return toTripResponse(*trip), nil
}

// Delete removes trip id.
func (s *TripService) Delete(ctx context.Context, id int64) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return mapTripError(err)
	}
	slog.Info("trip deleted", "trip_id", id)
	return nil
}

// Search returns trips whose destination contains q, ignoring case.
func (s *TripService) Search(ctx context.Context, q string) ([]model.TripResponse, error) {
	trips, err := s.trips.SearchByDestination(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("searching trips: %w", err)
	}
	return toTripResponses(trips), nil
}

func mapTripError(err error) error {
	if errors.Is(err, repository.ErrTripNotFound) {
		return ErrTripNotFound
	}
	return err
}

func toTripResponse(t model.Trip) model.TripResponse {
	return model.TripResponse{
		ID:           t.ID,
		Destination:  t.Destination,
		Budget:       t.Budget,
		TravelStyle:  string(t.TravelStyle),
		RequiresVisa: t.RequiresVisa,
		GroupSize:    t.GroupSize,
		StartDate:    t.StartDate,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func toTripResponses(trips []model.Trip) []model.TripResponse {
	out := make([]model.TripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, toTripResponse(t))
	}
	return out
}
