package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// GenerationRunStatus represents lifecycle phases for a generation run.
type GenerationRunStatus string

const (
	GenerationRunStatusCompleted GenerationRunStatus = "COMPLETED"
	GenerationRunStatusPartial   GenerationRunStatus = "PARTIAL"
	GenerationRunStatusFailed    GenerationRunStatus = "FAILED"
)

// GenerationRun records one scheduler.Generate invocation: its outcome
// score, partial/failure status, and the warnings accumulated along the
// way, backing the audit trail a timetable admin UI would read from.
type GenerationRun struct {
	ID        string              `db:"id" json:"id"`
	TermID    string              `db:"term_id" json:"term_id"`
	Status    GenerationRunStatus `db:"status" json:"status"`
	Score     float64             `db:"score" json:"score"`
	Warnings  types.JSONText      `db:"warnings" json:"warnings"`
	Seed      int64               `db:"seed" json:"seed"`
	CreatedAt time.Time           `db:"created_at" json:"created_at"`
}

// GenerationRunSummary is a lightweight projection for list views.
type GenerationRunSummary struct {
	ID        string              `db:"id" json:"id"`
	TermID    string              `db:"term_id" json:"term_id"`
	Status    GenerationRunStatus `db:"status" json:"status"`
	Score     float64             `db:"score" json:"score"`
	CreatedAt time.Time           `db:"created_at" json:"created_at"`
}
