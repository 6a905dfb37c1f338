package cli

import (
	"context"
	"testing"
	"time"

	"github.com/docwright-ai/docwright/internal/db"
	"github.com/docwright-ai/docwright/internal/models"
)

func historyTestRepo(t *testing.T) *db.RunRepository {
	t.Helper()

	database, err := db.OpenInMemory()
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if _, err := database.MigrateUp(context.Background()); err != nil {
		t.Fatalf("migrate database: %v", err)
	}
	return db.NewRunRepository(database)
}

func seedRun(t *testing.T, repo *db.RunRepository, id string, at time.Time) *models.GenerationRun {
	t.Helper()

	run := &models.GenerationRun{
		ID:        id,
		Template:  "overview",
		Status:    models.RunStatusOK,
		CreatedAt: at,
	}
	if err := repo.Create(context.Background(), run); err != nil {
		t.Fatalf("create run: %v", err)
	}
	return run
}

func TestFindRunExact(t *testing.T) {
	repo := historyTestRepo(t)
	now := time.Now().UTC()
	want := seedRun(t, repo, "aaaa1111-0000-0000-0000-000000000000", now)

	got, err := findRun(context.Background(), repo, want.ID)
	if err != nil {
		t.Fatalf("findRun: %v", err)
	}
	if got.ID != want.ID {
		t.Errorf("expected run %s, got %s", want.ID, got.ID)
	}
}

func TestFindRunPrefix(t *testing.T) {
	repo := historyTestRepo(t)
	now := time.Now().UTC()
	want := seedRun(t, repo, "aaaa1111-0000-0000-0000-000000000000", now)
	seedRun(t, repo, "bbbb2222-0000-0000-0000-000000000000", now.Add(-time.Minute))

	got, err := findRun(context.Background(), repo, "aaaa1111")
	if err != nil {
		t.Fatalf("findRun: %v", err)
	}
	if got.ID != want.ID {
		t.Errorf("expected run %s, got %s", want.ID, got.ID)
	}
}

func TestFindRunAmbiguousPrefix(t *testing.T) {
	repo := historyTestRepo(t)
	now := time.Now().UTC()
	seedRun(t, repo, "aaaa1111-0000-0000-0000-000000000000", now)
	seedRun(t, repo, "aaaa2222-0000-0000-0000-000000000000", now.Add(-time.Minute))

	if _, err := findRun(context.Background(), repo, "aaaa"); err == nil {
		t.Error("expected ambiguity error for shared prefix")
	}
}

func TestFindRunTooShortPrefix(t *testing.T) {
	repo := historyTestRepo(t)
	seedRun(t, repo, "aaaa1111-0000-0000-0000-000000000000", time.Now().UTC())

	// Prefixes under 4 characters never match, to keep lookups unambiguous.
	if _, err := findRun(context.Background(), repo, "aa"); err == nil {
		t.Error("expected not-found error for short prefix")
	}
}

func TestFindRunMissing(t *testing.T) {
	repo := historyTestRepo(t)

	if _, err := findRun(context.Background(), repo, "ffff0000"); err == nil {
		t.Error("expected error for unknown run")
	}
}
