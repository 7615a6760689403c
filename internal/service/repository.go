package service

import (
	"context"

	"github.com/solotrip/solotrip-go/internal/model"
)

// UserRepository is the credential store consumed by AuthService and TripService.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// TripRepository is the trip store consumed by TripService.
// Update must only write the mutable fields and reload the stored row into trip.
type TripRepository interface {
	List(ctx context.Context) ([]model.Trip, error)
	GetByID(ctx context.Context, id int64) (*model.Trip, error)
	Create(ctx context.Context, trip *model.Trip) error
	Update(ctx context.Context, trip *model.Trip) error
	Delete(ctx context.Context, id int64) error
	SearchByDestination(ctx context.Context, q string) ([]model.Trip, error)
}
