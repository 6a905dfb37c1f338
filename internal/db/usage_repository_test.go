package db

import (
	"context"
	"testing"
	"time"

	"github.com/docwright-ai/docwright/internal/models"
)

func TestUsageRepositoryCreate(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	repo := NewUsageRepository(database)

	record := &models.UsageRecord{
		Model:        "gpt-4o-mini",
		Operation:    models.OperationEnhance,
		InputTokens:  1000,
		OutputTokens: 500,
		CostCents:    15,
		Metadata:     map[string]string{"template": "api-doc"},
	}

	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if record.ID == "" {
		t.Error("expected ID to be set")
	}
	if record.TotalTokens != 1500 {
		t.Errorf("expected TotalTokens 1500, got %d", record.TotalTokens)
	}
	if record.RequestCount != 1 {
		t.Errorf("expected RequestCount 1, got %d", record.RequestCount)
	}

	retrieved, err := repo.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if retrieved.Model != "gpt-4o-mini" {
		t.Errorf("expected Model 'gpt-4o-mini', got %s", retrieved.Model)
	}
	if retrieved.Operation != models.OperationEnhance {
		t.Errorf("expected Operation enhance, got %s", retrieved.Operation)
	}
	if retrieved.InputTokens != 1000 {
		t.Errorf("expected InputTokens 1000, got %d", retrieved.InputTokens)
	}
	if retrieved.Metadata["template"] != "api-doc" {
		t.Errorf("expected metadata to round-trip, got %+v", retrieved.Metadata)
	}
}

func TestUsageRepositoryCreateInvalid(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	repo := NewUsageRepository(database)

	if err := repo.Create(ctx, &models.UsageRecord{}); err != ErrInvalidUsageRecord {
		t.Fatalf("expected ErrInvalidUsageRecord, got %v", err)
	}
}

func TestUsageRepositoryQuery(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	repo := NewUsageRepository(database)

	now := time.Now().UTC()

	records := []*models.UsageRecord{
		{Model: "gpt-4o-mini", Operation: models.OperationEnhance, InputTokens: 100, RecordedAt: now.Add(-2 * time.Hour)},
		{Model: "gpt-4o-mini", Operation: models.OperationSummarize, InputTokens: 200, RecordedAt: now.Add(-1 * time.Hour)},
		{Model: "gpt-4o", Operation: models.OperationEnhance, InputTokens: 300, RecordedAt: now},
	}
	for _, r := range records {
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	mini := "gpt-4o-mini"
	results, err := repo.Query(ctx, models.UsageQuery{Model: &mini})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results for gpt-4o-mini, got %d", len(results))
	}

	enhance := models.OperationEnhance
	results, err = repo.Query(ctx, models.UsageQuery{Operation: &enhance})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 enhance results, got %d", len(results))
	}

	since := now.Add(-90 * time.Minute)
	results, err = repo.Query(ctx, models.UsageQuery{Since: &since})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results since 90 min ago, got %d", len(results))
	}
	if len(results) > 0 && results[0].InputTokens != 300 {
		t.Errorf("expected newest record first, got %d", results[0].InputTokens)
	}
}

func TestUsageRepositorySummarizeAll(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	repo := NewUsageRepository(database)

	for _, tokens := range []int64{100, 200, 300} {
		record := &models.UsageRecord{
			Model:        "gpt-4o-mini",
			Operation:    models.OperationEnhance,
			InputTokens:  tokens,
			OutputTokens: tokens / 2,
			CostCents:    tokens / 10,
		}
		if err := repo.Create(ctx, record); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	summary, err := repo.SummarizeAll(ctx, nil, nil)
	if err != nil {
		t.Fatalf("SummarizeAll: %v", err)
	}
	if summary.InputTokens != 600 {
		t.Errorf("expected 600 input tokens, got %d", summary.InputTokens)
	}
	if summary.TotalTokens != 900 {
		t.Errorf("expected 900 total tokens, got %d", summary.TotalTokens)
	}
	if summary.TotalCostCents != 60 {
		t.Errorf("expected 60 cost cents, got %d", summary.TotalCostCents)
	}
	if summary.RecordCount != 3 {
		t.Errorf("expected 3 records, got %d", summary.RecordCount)
	}
	if summary.Period != "all" {
		t.Errorf("expected period all, got %q", summary.Period)
	}
}

func TestUsageRepositorySummarizeByModel(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	repo := NewUsageRepository(database)

	records := []*models.UsageRecord{
		{Model: "gpt-4o", Operation: models.OperationEnhance, InputTokens: 100, CostCents: 50},
		{Model: "gpt-4o-mini", Operation: models.OperationEnhance, InputTokens: 500, CostCents: 5},
		{Model: "gpt-4o-mini", Operation: models.OperationEnhance, InputTokens: 500, CostCents: 5},
	}
	for _, r := range records {
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	summaries, err := repo.SummarizeByModel(ctx, nil, nil)
	if err != nil {
		t.Fatalf("SummarizeByModel: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Model != "gpt-4o" {
		t.Errorf("expected biggest spender first, got %q", summaries[0].Model)
	}
	if summaries[1].RecordCount != 2 {
		t.Errorf("expected 2 gpt-4o-mini records, got %d", summaries[1].RecordCount)
	}
}

func TestUsageRepositoryGetDailyUsage(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	repo := NewUsageRepository(database)

	now := time.Now().UTC()
	records := []*models.UsageRecord{
		{Model: "gpt-4o-mini", Operation: models.OperationEnhance, InputTokens: 100, RecordedAt: now.Add(-48 * time.Hour)},
		{Model: "gpt-4o-mini", Operation: models.OperationEnhance, InputTokens: 200, RecordedAt: now.Add(-24 * time.Hour)},
		{Model: "gpt-4o-mini", Operation: models.OperationEnhance, InputTokens: 300, RecordedAt: now},
	}
	for _, r := range records {
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	daily, err := repo.GetDailyUsage(ctx, now.Add(-72*time.Hour), now.Add(time.Hour), 0)
	if err != nil {
		t.Fatalf("GetDailyUsage: %v", err)
	}
	if len(daily) != 3 {
		t.Fatalf("expected 3 daily rows, got %d", len(daily))
	}
	if daily[0].InputTokens != 300 {
		t.Errorf("expected newest day first, got %d", daily[0].InputTokens)
	}
}

func TestUsageRepositoryDeleteOlderThan(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	repo := NewUsageRepository(database)

	now := time.Now().UTC()
	records := []*models.UsageRecord{
		{Model: "gpt-4o-mini", Operation: models.OperationEnhance, RecordedAt: now.Add(-100 * 24 * time.Hour)},
		{Model: "gpt-4o-mini", Operation: models.OperationEnhance, RecordedAt: now.Add(-50 * 24 * time.Hour)},
		{Model: "gpt-4o-mini", Operation: models.OperationEnhance, RecordedAt: now},
	}
	for _, r := range records {
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	deleted, err := repo.DeleteOlderThan(ctx, now.Add(-30*24*time.Hour), 0)
	if err != nil {
		t.Fatalf("DeleteOlderThan: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}

	remaining, err := repo.Query(ctx, models.UsageQuery{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(remaining) != 1 {
		t.Errorf("expected 1 remaining record, got %d", len(remaining))
	}
}

func TestUsageRepositoryGetMissing(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	repo := NewUsageRepository(database)

	if _, err := repo.Get(ctx, "nope"); err != ErrUsageRecordNotFound {
		t.Fatalf("expected ErrUsageRecordNotFound, got %v", err)
	}
}
