// Package memory holds map-backed stores used for local development and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/solotrip/solotrip-go/internal/model"
	"github.com/solotrip/solotrip-go/internal/repository"
)

// TripRepository is an in-memory trip store. It is safe for concurrent use.
// Ids start at 1 and are never reused.
type TripRepository struct {
	mu sync.RWMutex

	byID   map[int64]model.Trip
	lastID int64
}

func NewTripRepository() *TripRepository {
	return &TripRepository{byID: make(map[int64]model.Trip)}
}

func (r *TripRepository) List(ctx context.Context) ([]model.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sorted(func(model.Trip) bool { return true }), nil
}

func (r *TripRepository) GetByID(ctx context.Context, id int64) (*model.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrTripNotFound
	}
	return &t, nil
}

func (r *TripRepository) Create(ctx context.Context, trip *model.Trip) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	trip.ID = r.lastID
	r.byID[trip.ID] = *trip
	return nil
}

func (r *TripRepository) Update(ctx context.Context, trip *model.Trip) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[trip.ID]
	if !ok {
		return repository.ErrTripNotFound
	}

	existing.Destination = trip.Destination
	existing.Budget = trip.Budget
	existing.TravelStyle = trip.TravelStyle
	existing.RequiresVisa = trip.RequiresVisa
	existing.GroupSize = trip.GroupSize
	existing.StartDate = trip.StartDate
	existing.UpdatedAt = trip.UpdatedAt

	r.byID[trip.ID] = existing
	*trip = existing
	return nil
}

func (r *TripRepository) Delete(ctx context.Context, id int64) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return repository.ErrTripNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *TripRepository) SearchByDestination(ctx context.Context, q string) ([]model.Trip, error) {
	_ = ctx
	needle := repository.FoldDestination(q)

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sorted(func(t model.Trip) bool {
		return strings.Contains(repository.FoldDestination(t.Destination), needle)
	}), nil
}

// sorted returns matching trips ordered by id. Caller holds the lock.
func (r *TripRepository) sorted(match func(model.Trip) bool) []model.Trip {
	out := make([]model.Trip, 0, len(r.byID))
	for _, t := range r.byID {
		if match(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
