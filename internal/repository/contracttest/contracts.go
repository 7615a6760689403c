// Package contracttest holds behaviour every user and trip store must share,
// run by each storage backend's own tests.
package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/solotrip/solotrip-go/internal/model"
	"github.com/solotrip/solotrip-go/internal/repository"
)

type CleanupFunc = func()

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type TripRepository interface {
	List(ctx context.Context) ([]model.Trip, error)
	GetByID(ctx context.Context, id int64) (*model.Trip, error)
	Create(ctx context.Context, trip *model.Trip) error
	Update(ctx context.Context, trip *model.Trip) error
	Delete(ctx context.Context, id int64) error
	SearchByDestination(ctx context.Context, q string) ([]model.Trip, error)
}

func date(y int, m time.Month, d int) model.Date {
	return model.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// StoresFactory returns a user store and a trip store backed by the same, empty storage.
type StoresFactory func(t *testing.T) (UserRepository, TripRepository, CleanupFunc)

// Stores must round-trip timestamps at microsecond precision.
func testNow() time.Time {
	return time.Date(2026, 3, 1, 9, 30, 15, 123456000, time.UTC)
}

func RunUserRepo(t *testing.T, newStores StoresFactory) {
	t.Helper()
	ctx := context.Background()

	users, _, cleanup := newStores(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := testNow()
	u := &model.User{Username: "testuser", Email: "test@example.com", PasswordHash: "$argon2id$stub", CreatedAt: now, UpdatedAt: now}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID <= 0 {
		t.Fatalf("Create did not assign an id: %d", u.ID)
	}

	dup := &model.User{Username: "testuser", Email: "other@example.com", PasswordHash: "x", CreatedAt: now, UpdatedAt: now}
	if err := users.Create(ctx, dup); !errors.Is(err, repository.ErrDuplicateUsername) {
		t.Fatalf("Create duplicate: got %v, want ErrDuplicateUsername", err)
	}

	got, err := users.GetByUsername(ctx, "testuser")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got.ID != u.ID || got.Email != u.Email || got.PasswordHash != u.PasswordHash {
		t.Fatalf("GetByUsername = %+v, want %+v", got, u)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("CreatedAt = %v, want %v", got.CreatedAt, now)
	}

	got, err = users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Username != "testuser" {
		t.Fatalf("GetByID username = %q, want testuser", got.Username)
	}

	if _, err := users.GetByUsername(ctx, "nobody"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("GetByUsername unknown: got %v, want ErrUserNotFound", err)
	}
	if _, err := users.GetByID(ctx, u.ID+1000); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("GetByID unknown: got %v, want ErrUserNotFound", err)
	}
}

func RunTripRepo(t *testing.T, newStores StoresFactory) {
	t.Helper()
	ctx := context.Background()

	users, trips, cleanup := newStores(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := testNow()
	owner := &model.User{Username: "traveller", Email: "t@example.com", PasswordHash: "x", CreatedAt: now, UpdatedAt: now}
	if err := users.Create(ctx, owner); err != nil {
		t.Fatalf("Create owner: %v", err)
	}

	list, err := trips.List(ctx)
	if err != nil {
		t.Fatalf("List empty: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("List empty = %d trips, want 0", len(list))
	}

	start := date(2026, time.April, 15)
	barcelona := &model.Trip{
		UserID:      owner.ID,
		Destination: "Barcelona",
		Budget:      1500,
		TravelStyle: model.TravelStyleStandard,
		GroupSize:   "Solo",
		StartDate:   start,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := trips.Create(ctx, barcelona); err != nil {
		t.Fatalf("Create: %v", err)
	}
	tokyo := &model.Trip{
		UserID:       owner.ID,
		Destination:  "Tokyo 100% fun_trip",
		Budget:       4200.5,
		TravelStyle:  model.TravelStyleLuxury,
		RequiresVisa: true,
		GroupSize:    "2-4",
		StartDate:    date(2026, time.October, 1),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := trips.Create(ctx, tokyo); err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if barcelona.ID <= 0 || tokyo.ID <= barcelona.ID {
		t.Fatalf("ids not increasing: %d then %d", barcelona.ID, tokyo.ID)
	}

	got, err := trips.GetByID(ctx, barcelona.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.UserID != owner.ID ||
		got.Destination != "Barcelona" ||
		got.Budget != 1500 ||
		got.TravelStyle != model.TravelStyleStandard ||
		got.RequiresVisa ||
		got.GroupSize != "Solo" ||
		got.StartDate.String() != start.String() ||
		!got.CreatedAt.Equal(now) {
		t.Fatalf("GetByID = %+v, want %+v", got, barcelona)
	}

	list, err = trips.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != barcelona.ID || list[1].ID != tokyo.ID {
		t.Fatalf("List = %+v, want [barcelona tokyo]", list)
	}

	searches := []struct {
		q    string
		want []int64
	}{
		{"barcelona", []int64{barcelona.ID}},
		{"CELO", []int64{barcelona.ID}},
		{"o", []int64{barcelona.ID, tokyo.ID}},
		{"100%", []int64{tokyo.ID}},
		{"fun_", []int64{tokyo.ID}},
		{"%", []int64{tokyo.ID}},
		{"_", []int64{tokyo.ID}},
		{"paris", nil},
	}
	for _, s := range searches {
		res, err := trips.SearchByDestination(ctx, s.q)
		if err != nil {
			t.Fatalf("SearchByDestination(%q): %v", s.q, err)
		}
		if len(res) != len(s.want) {
			t.Fatalf("SearchByDestination(%q) = %d trips, want %d", s.q, len(res), len(s.want))
		}
		for i := range res {
			if res[i].ID != s.want[i] {
				t.Fatalf("SearchByDestination(%q)[%d].ID = %d, want %d", s.q, i, res[i].ID, s.want[i])
			}
		}
	}

	// Case folding must cover non-ASCII letters, not only what SQL LOWER handles.
	ile := &model.Trip{
		UserID:      owner.ID,
		Destination: "Île-de-France",
		Budget:      700,
		TravelStyle: model.TravelStyleStandard,
		GroupSize:   "Solo",
		StartDate:   start,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := trips.Create(ctx, ile); err != nil {
		t.Fatalf("Create non-ASCII: %v", err)
	}
	for _, q := range []string{"île", "ÎLE", "Île", "Île-de-France", "DE-FRANCE"} {
		res, err := trips.SearchByDestination(ctx, q)
		if err != nil {
			t.Fatalf("SearchByDestination(%q): %v", q, err)
		}
		if len(res) != 1 || res[0].ID != ile.ID {
			t.Fatalf("SearchByDestination(%q) = %+v, want only %q", q, res, ile.Destination)
		}
	}
	if err := trips.Delete(ctx, ile.ID); err != nil {
		t.Fatalf("Delete non-ASCII: %v", err)
	}

	later := now.Add(time.Hour)
	upd := &model.Trip{
		ID:           barcelona.ID,
		UserID:       owner.ID + 99,
		Destination:  "Madrid",
		Budget:       900,
		TravelStyle:  model.TravelStyleBackpacker,
		RequiresVisa: true,
		GroupSize:    "Solo",
		StartDate:    date(2026, time.May, 2),
		CreatedAt:    later,
		UpdatedAt:    later,
	}
	if err := trips.Update(ctx, upd); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if upd.Destination != "Madrid" || upd.UserID != owner.ID || !upd.CreatedAt.Equal(now) || !upd.UpdatedAt.Equal(later) {
		t.Fatalf("Update result = %+v: owner and createdAt must be kept, updatedAt refreshed", upd)
	}
	got, err = trips.GetByID(ctx, barcelona.ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if got.Destination != "Madrid" || got.Budget != 900 || got.TravelStyle != model.TravelStyleBackpacker || !got.RequiresVisa {
		t.Fatalf("GetByID after update = %+v", got)
	}

	missing := &model.Trip{ID: tokyo.ID + 1000, Destination: "Nowhere", UpdatedAt: later}
	if err := trips.Update(ctx, missing); !errors.Is(err, repository.ErrTripNotFound) {
		t.Fatalf("Update unknown: got %v, want ErrTripNotFound", err)
	}

	if err := trips.Delete(ctx, tokyo.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := trips.GetByID(ctx, tokyo.ID); !errors.Is(err, repository.ErrTripNotFound) {
		t.Fatalf("GetByID deleted: got %v, want ErrTripNotFound", err)
	}
	if err := trips.Delete(ctx, tokyo.ID); !errors.Is(err, repository.ErrTripNotFound) {
		t.Fatalf("Delete twice: got %v, want ErrTripNotFound", err)
	}

	next := &model.Trip{
		UserID:      owner.ID,
		Destination: "Lisbon",
		Budget:      800,
		TravelStyle: model.TravelStyleBackpacker,
		GroupSize:   "Solo",
		StartDate:   start,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := trips.Create(ctx, next); err != nil {
		t.Fatalf("Create after delete: %v", err)
	}
	if next.ID <= tokyo.ID {
		t.Fatalf("id %d reused or decreased after deleting %d", next.ID, tokyo.ID)
	}

	list, err = trips.List(ctx)
	if err != nil {
		t.Fatalf("List final: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List final = %d trips, want 2", len(list))
	}
}
