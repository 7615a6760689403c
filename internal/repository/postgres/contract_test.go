package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/solotrip/solotrip-go/internal/repository"
	"github.com/solotrip/solotrip-go/internal/repository/contracttest"
)

// openMigratedStores connects to TEST_DATABASE_URL, applies migrations and empties both tables.
func openMigratedStores(t *testing.T) (contracttest.UserRepository, contracttest.TripRepository, contracttest.CleanupFunc) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres contract tests")
	}

	ctx := context.Background()
	pool, err := Open(ctx, dsn, repository.PoolOptions{MaxOpenConns: 4})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("Migrate: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE trips, users RESTART IDENTITY CASCADE`); err != nil {
		pool.Close()
		t.Fatalf("truncate: %v", err)
	}

	return NewUserRepository(pool), NewTripRepository(pool), pool.Close
}

func TestContract_PostgresUserRepo(t *testing.T) {
	contracttest.RunUserRepo(t, openMigratedStores)
}

func TestContract_PostgresTripRepo(t *testing.T) {
	contracttest.RunTripRepo(t, openMigratedStores)
}
