package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStateRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewStateRepository(openTestDB(t))

	if _, err := repo.Get(ctx, "appSettings"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := repo.Set(ctx, "appSettings", `{"countdownVisible":false}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, "appSettings", `{"countdownVisible":true}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := repo.Get(ctx, "appSettings")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != `{"countdownVisible":true}` {
		t.Fatalf("value = %q", got)
	}

	if err := repo.Delete(ctx, "appSettings"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "appSettings"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRunMigrationsIsRepeatable(t *testing.T) {
	db := openTestDB(t)

	if err := RunMigrations(db, zerolog.Nop()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM _migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 1 {
		t.Fatalf("applied migrations = %d, want 1", count)
	}
}
