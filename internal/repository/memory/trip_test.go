package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/solotrip/solotrip-go/internal/model"
)

func TestTripRepository_ConcurrentCreateAssignsUniqueIDs(t *testing.T) {
	repo := NewTripRepository()
	ctx := context.Background()

	const n = 50
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			trip := &model.Trip{Destination: "Oslo"}
			if err := repo.Create(ctx, trip); err != nil {
				t.Errorf("Create: %v", err)
				return
			}
			ids <- trip.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("id %d assigned twice", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Errorf("created %d trips, want %d", len(seen), n)
	}
}

func TestTripRepository_ReturnsCopies(t *testing.T) {
	repo := NewTripRepository()
	ctx := context.Background()

	trip := &model.Trip{Destination: "Rome"}
	if err := repo.Create(ctx, trip); err != nil {
		t.Fatalf("Create: %v", err)
	}
	trip.Destination = "mutated"

	got, err := repo.GetByID(ctx, trip.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Destination != "Rome" {
		t.Errorf("Destination = %q, want Rome", got.Destination)
	}
}
