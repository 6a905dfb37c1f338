package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/docwright-ai/docwright/internal/models"
)

// Usage repository errors.
var (
	ErrUsageRecordNotFound = errors.New("usage record not found")
	ErrInvalidUsageRecord  = errors.New("invalid usage record")
)

// UsageRepository handles usage record persistence.
type UsageRepository struct {
	db *DB
}

// NewUsageRepository creates a new UsageRepository.
func NewUsageRepository(db *DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Create inserts a new usage record.
func (r *UsageRepository) Create(ctx context.Context, record *models.UsageRecord) error {
	if record.Model == "" || record.Operation == "" {
		return ErrInvalidUsageRecord
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.RecordedAt.IsZero() {
		record.RecordedAt = time.Now().UTC()
	}
	if record.TotalTokens == 0 {
		record.TotalTokens = record.InputTokens + record.OutputTokens
	}
	if record.RequestCount == 0 {
		record.RequestCount = 1
	}

	var metadataJSON *string
	if record.Metadata != nil {
		data, err := json.Marshal(record.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		s := string(data)
		metadataJSON = &s
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO usage_records (
			id, run_id, model, operation,
			input_tokens, output_tokens, total_tokens, cost_cents,
			request_count, recorded_at, metadata_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		nullString(record.RunID),
		record.Model,
		record.Operation,
		record.InputTokens,
		record.OutputTokens,
		record.TotalTokens,
		record.CostCents,
		record.RequestCount,
		record.RecordedAt.UTC().Format(time.RFC3339),
		metadataJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert usage record: %w", err)
	}

	return nil
}

// Get retrieves a usage record by ID.
func (r *UsageRepository) Get(ctx context.Context, id string) (*models.UsageRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, run_id, model, operation,
			input_tokens, output_tokens, total_tokens, cost_cents,
			request_count, recorded_at, metadata_json
		FROM usage_records WHERE id = ?
	`, id)

	return r.scanUsageRecord(row)
}

// Query retrieves usage records matching the given filters.
func (r *UsageRepository) Query(ctx context.Context, q models.UsageQuery) ([]*models.UsageRecord, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT id, run_id, model, operation,
		input_tokens, output_tokens, total_tokens, cost_cents,
		request_count, recorded_at, metadata_json
		FROM usage_records WHERE 1=1`
	args := []any{}

	if q.RunID != nil {
		query += ` AND run_id = ?`
		args = append(args, *q.RunID)
	}
	if q.Model != nil {
		query += ` AND model = ?`
		args = append(args, *q.Model)
	}
	if q.Operation != nil {
		query += ` AND operation = ?`
		args = append(args, *q.Operation)
	}
	if q.Since != nil {
		query += ` AND recorded_at >= ?`
		args = append(args, q.Since.UTC().Format(time.RFC3339))
	}
	if q.Until != nil {
		query += ` AND recorded_at < ?`
		args = append(args, q.Until.UTC().Format(time.RFC3339))
	}

	query += ` ORDER BY recorded_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage records: %w", err)
	}
	defer rows.Close()

	var records []*models.UsageRecord
	for rows.Next() {
		record, err := r.scanUsageRecordFromRows(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usage records: %w", err)
	}

	return records, nil
}

// SummarizeAll returns aggregated usage across all records.
func (r *UsageRepository) SummarizeAll(ctx context.Context, since, until *time.Time) (*models.UsageSummary, error) {
	query := `SELECT
		COALESCE(SUM(input_tokens), 0) as input_tokens,
		COALESCE(SUM(output_tokens), 0) as output_tokens,
		COALESCE(SUM(total_tokens), 0) as total_tokens,
		COALESCE(SUM(cost_cents), 0) as cost_cents,
		COALESCE(SUM(request_count), 0) as request_count,
		COUNT(*) as record_count
		FROM usage_records WHERE 1=1`
	args := []any{}

	if since != nil {
		query += ` AND recorded_at >= ?`
		args = append(args, since.UTC().Format(time.RFC3339))
	}
	if until != nil {
		query += ` AND recorded_at < ?`
		args = append(args, until.UTC().Format(time.RFC3339))
	}

	var summary models.UsageSummary
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&summary.InputTokens,
		&summary.OutputTokens,
		&summary.TotalTokens,
		&summary.TotalCostCents,
		&summary.RequestCount,
		&summary.RecordCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize usage: %w", err)
	}

	summary.Period = "all"
	if since != nil {
		summary.Period = "custom"
		summary.PeriodStart = *since
	}
	if until != nil {
		summary.Period = "custom"
		summary.PeriodEnd = *until
	}

	return &summary, nil
}

// SummarizeByModel returns aggregated usage grouped by model, largest
// spender first.
func (r *UsageRepository) SummarizeByModel(ctx context.Context, since, until *time.Time) ([]*models.UsageSummary, error) {
	query := `SELECT
		model,
		COALESCE(SUM(input_tokens), 0) as input_tokens,
		COALESCE(SUM(output_tokens), 0) as output_tokens,
		COALESCE(SUM(total_tokens), 0) as total_tokens,
		COALESCE(SUM(cost_cents), 0) as cost_cents,
		COALESCE(SUM(request_count), 0) as request_count,
		COUNT(*) as record_count
		FROM usage_records WHERE 1=1`
	args := []any{}

	if since != nil {
		query += ` AND recorded_at >= ?`
		args = append(args, since.UTC().Format(time.RFC3339))
	}
	if until != nil {
		query += ` AND recorded_at < ?`
		args = append(args, until.UTC().Format(time.RFC3339))
	}

	query += ` GROUP BY model ORDER BY cost_cents DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize usage by model: %w", err)
	}
	defer rows.Close()

	var summaries []*models.UsageSummary
	for rows.Next() {
		var summary models.UsageSummary
		if err := rows.Scan(
			&summary.Model,
			&summary.InputTokens,
			&summary.OutputTokens,
			&summary.TotalTokens,
			&summary.TotalCostCents,
			&summary.RequestCount,
			&summary.RecordCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan usage summary: %w", err)
		}
		summary.Period = "custom"
		if since != nil {
			summary.PeriodStart = *since
		}
		if until != nil {
			summary.PeriodEnd = *until
		}
		summaries = append(summaries, &summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usage summaries: %w", err)
	}

	return summaries, nil
}

// GetDailyUsage returns usage aggregated by day and model.
func (r *UsageRepository) GetDailyUsage(ctx context.Context, since, until time.Time, limit int) ([]*models.DailyUsage, error) {
	if limit <= 0 {
		limit = 30
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			date(recorded_at) as date,
			model,
			COALESCE(SUM(input_tokens), 0) as input_tokens,
			COALESCE(SUM(output_tokens), 0) as output_tokens,
			COALESCE(SUM(total_tokens), 0) as total_tokens,
			COALESCE(SUM(cost_cents), 0) as cost_cents,
			COALESCE(SUM(request_count), 0) as request_count
		FROM usage_records
		WHERE recorded_at >= ? AND recorded_at < ?
		GROUP BY date(recorded_at), model
		ORDER BY date DESC
		LIMIT ?
	`, since.UTC().Format(time.RFC3339), until.UTC().Format(time.RFC3339), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily usage: %w", err)
	}
	defer rows.Close()

	var dailyUsage []*models.DailyUsage
	for rows.Next() {
		var du models.DailyUsage
		if err := rows.Scan(
			&du.Date,
			&du.Model,
			&du.InputTokens,
			&du.OutputTokens,
			&du.TotalTokens,
			&du.CostCents,
			&du.RequestCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage: %w", err)
		}
		dailyUsage = append(dailyUsage, &du)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily usage: %w", err)
	}

	return dailyUsage, nil
}

// DeleteOlderThan removes usage records older than the given time.
func (r *UsageRepository) DeleteOlderThan(ctx context.Context, before time.Time, limit int) (int64, error) {
	if limit <= 0 {
		limit = 1000
	}

	result, err := r.db.ExecContext(ctx, `
		DELETE FROM usage_records WHERE id IN (
			SELECT id FROM usage_records WHERE recorded_at < ? ORDER BY recorded_at LIMIT ?
		)
	`, before.UTC().Format(time.RFC3339), limit)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old usage records: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get deleted count: %w", err)
	}
	return count, nil
}

func (r *UsageRepository) scanUsageRecord(row *sql.Row) (*models.UsageRecord, error) {
	var record models.UsageRecord
	var runID, metadataJSON sql.NullString
	var recordedAt string

	err := row.Scan(
		&record.ID,
		&runID,
		&record.Model,
		&record.Operation,
		&record.InputTokens,
		&record.OutputTokens,
		&record.TotalTokens,
		&record.CostCents,
		&record.RequestCount,
		&recordedAt,
		&metadataJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUsageRecordNotFound
		}
		return nil, fmt.Errorf("failed to scan usage record: %w", err)
	}

	finishUsageRecord(&record, runID, recordedAt, metadataJSON)
	return &record, nil
}

func (r *UsageRepository) scanUsageRecordFromRows(rows *sql.Rows) (*models.UsageRecord, error) {
	var record models.UsageRecord
	var runID, metadataJSON sql.NullString
	var recordedAt string

	err := rows.Scan(
		&record.ID,
		&runID,
		&record.Model,
		&record.Operation,
		&record.InputTokens,
		&record.OutputTokens,
		&record.TotalTokens,
		&record.CostCents,
		&record.RequestCount,
		&recordedAt,
		&metadataJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan usage record: %w", err)
	}

	finishUsageRecord(&record, runID, recordedAt, metadataJSON)
	return &record, nil
}

func finishUsageRecord(record *models.UsageRecord, runID sql.NullString, recordedAt string, metadataJSON sql.NullString) {
	if runID.Valid {
		record.RunID = runID.String
	}
	if t, err := time.Parse(time.RFC3339, recordedAt); err == nil {
		record.RecordedAt = t
	}
	if metadataJSON.Valid && metadataJSON.String != "" {
		var metadata map[string]string
		if err := json.Unmarshal([]byte(metadataJSON.String), &metadata); err == nil {
			record.Metadata = metadata
		}
	}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
