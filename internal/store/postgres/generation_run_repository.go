package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/timetable-core/internal/domain"
	"github.com/noah-isme/timetable-core/internal/models"
)

// GenerationRunRepository persists the audit trail of generation runs,
// grounded on schedule_generator_service.go's semesterScheduleRepository:
// CreateVersioned there becomes Record here, trading version numbers for
// the core's own score/status/warnings vector.
type GenerationRunRepository struct {
	db *sqlx.DB
}

// NewGenerationRunRepository constructs a GenerationRunRepository.
func NewGenerationRunRepository(db *sqlx.DB) *GenerationRunRepository {
	return &GenerationRunRepository{db: db}
}

// Record writes one completed generation run.
func (r *GenerationRunRepository) Record(ctx context.Context, termID string, seed int64, score float64, partial bool, warnings []*domain.GenerationError) error {
	status := models.GenerationRunStatusCompleted
	if partial {
		status = models.GenerationRunStatusPartial
	}
	messages := make([]string, 0, len(warnings))
	for _, w := range warnings {
		messages = append(messages, w.Error())
	}
	payload, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("marshal generation warnings: %w", err)
	}

	row := models.GenerationRun{
		ID:        uuid.NewString(),
		TermID:    termID,
		Status:    status,
		Score:     score,
		Warnings:  types.JSONText(payload),
		Seed:      seed,
		CreatedAt: time.Now().UTC(),
	}

	const query = `INSERT INTO generation_runs (id, term_id, status, score, warnings, seed, created_at)
		VALUES (:id, :term_id, :status, :score, :warnings, :seed, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("record generation run: %w", err)
	}
	return nil
}

// ListByTerm returns the generation history for termID, newest first.
func (r *GenerationRunRepository) ListByTerm(ctx context.Context, termID string) ([]models.GenerationRunSummary, error) {
	const query = `SELECT id, term_id, status, score, created_at FROM generation_runs WHERE term_id = $1 ORDER BY created_at DESC`
	var rows []models.GenerationRunSummary
	if err := r.db.SelectContext(ctx, &rows, query, termID); err != nil {
		return nil, fmt.Errorf("list generation runs: %w", err)
	}
	return rows, nil
}
