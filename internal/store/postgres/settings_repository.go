package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-core/internal/domain"
)

// SettingsRepository loads the run-wide scheduling settings for a term.
type SettingsRepository struct {
	db     *sqlx.DB
	termID string
}

// NewSettingsRepository constructs a SettingsRepository scoped to termID,
// matching the single-settings-row-per-term shape of models.Settings.
func NewSettingsRepository(db *sqlx.DB, termID string) *SettingsRepository {
	return &SettingsRepository{db: db, termID: termID}
}

// LoadSettings implements ports.SettingsReader.
func (r *SettingsRepository) LoadSettings(ctx context.Context) (domain.Settings, error) {
	const query = `SELECT weeks, days, periods, max_per_day_global, prefer_distribution, avoid_windows, prioritize_faculty, respect_teacher_prefs, optimize_room_usage FROM settings WHERE term_id = $1`
	var row settingsRow
	if err := r.db.GetContext(ctx, &row, query, r.termID); err != nil {
		return domain.Settings{}, fmt.Errorf("load settings for term %s: %w", r.termID, err)
	}
	return domain.Settings{
		Weeks:               row.Weeks,
		Days:                row.Days,
		Periods:             row.Periods,
		MaxPerDayGlobal:     row.MaxPerDayGlobal,
		PreferDistribution:  domain.PreferDistribution(row.PreferDistribution),
		AvoidWindows:        row.AvoidWindows,
		PrioritizeFaculty:   row.PrioritizeFaculty,
		RespectTeacherPrefs: row.RespectTeacherPrefs,
		OptimizeRoomUsage:   row.OptimizeRoomUsage,
	}, nil
}

type settingsRow struct {
	Weeks               int    `db:"weeks"`
	Days                int    `db:"days"`
	Periods             int    `db:"periods"`
	MaxPerDayGlobal     int    `db:"max_per_day_global"`
	PreferDistribution  string `db:"prefer_distribution"`
	AvoidWindows        bool   `db:"avoid_windows"`
	PrioritizeFaculty   bool   `db:"prioritize_faculty"`
	RespectTeacherPrefs bool   `db:"respect_teacher_prefs"`
	OptimizeRoomUsage   bool   `db:"optimize_room_usage"`
}
