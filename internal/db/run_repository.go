package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/docwright-ai/docwright/internal/models"
)

// Run repository errors.
var (
	ErrRunNotFound = errors.New("generation run not found")
	ErrInvalidRun  = errors.New("invalid generation run")
)

// RunRepository handles generation run persistence.
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a new RunRepository.
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new generation run.
func (r *RunRepository) Create(ctx context.Context, run *models.GenerationRun) error {
	if run.Template == "" || run.Status == "" {
		return ErrInvalidRun
	}

	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO generation_runs (
			id, template, source_path, output_path, status,
			duration_ms, files_analyzed, enhanced, error, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Template,
		nullString(run.SourcePath),
		nullString(run.OutputPath),
		string(run.Status),
		run.DurationMS,
		run.FilesAnalyzed,
		boolToInt(run.Enhanced),
		nullString(run.Error),
		run.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert generation run: %w", err)
	}

	return nil
}

// Get retrieves a generation run by ID.
func (r *RunRepository) Get(ctx context.Context, id string) (*models.GenerationRun, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, template, source_path, output_path, status,
			duration_ms, files_analyzed, enhanced, error, created_at
		FROM generation_runs WHERE id = ?
	`, id)

	return scanRun(row)
}

// List returns generation runs, newest first.
func (r *RunRepository) List(ctx context.Context, limit int) ([]*models.GenerationRun, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, template, source_path, output_path, status,
			duration_ms, files_analyzed, enhanced, error, created_at
		FROM generation_runs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list generation runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.GenerationRun
	for rows.Next() {
		run, err := scanRunFromRows(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating generation runs: %w", err)
	}

	return runs, nil
}

// CountByStatus returns how many runs ended in each status.
func (r *RunRepository) CountByStatus(ctx context.Context) (map[models.RunStatus]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM generation_runs GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count generation runs: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.RunStatus]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan run count: %w", err)
		}
		counts[models.RunStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run counts: %w", err)
	}

	return counts, nil
}

func scanRun(row *sql.Row) (*models.GenerationRun, error) {
	var run models.GenerationRun
	var sourcePath, outputPath, runErr sql.NullString
	var status, createdAt string
	var enhanced int

	err := row.Scan(
		&run.ID,
		&run.Template,
		&sourcePath,
		&outputPath,
		&status,
		&run.DurationMS,
		&run.FilesAnalyzed,
		&enhanced,
		&runErr,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to scan generation run: %w", err)
	}

	finishRun(&run, sourcePath, outputPath, runErr, status, createdAt, enhanced)
	return &run, nil
}

func scanRunFromRows(rows *sql.Rows) (*models.GenerationRun, error) {
	var run models.GenerationRun
	var sourcePath, outputPath, runErr sql.NullString
	var status, createdAt string
	var enhanced int

	err := rows.Scan(
		&run.ID,
		&run.Template,
		&sourcePath,
		&outputPath,
		&status,
		&run.DurationMS,
		&run.FilesAnalyzed,
		&enhanced,
		&runErr,
		&createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan generation run: %w", err)
	}

	finishRun(&run, sourcePath, outputPath, runErr, status, createdAt, enhanced)
	return &run, nil
}

func finishRun(run *models.GenerationRun, sourcePath, outputPath, runErr sql.NullString, status, createdAt string, enhanced int) {
	run.Status = models.RunStatus(status)
	run.Enhanced = enhanced != 0
	if sourcePath.Valid {
		run.SourcePath = sourcePath.String
	}
	if outputPath.Valid {
		run.OutputPath = outputPath.String
	}
	if runErr.Valid {
		run.Error = runErr.String
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		run.CreatedAt = t
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
