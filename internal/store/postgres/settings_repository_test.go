package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-core/internal/domain"
)

func TestSettingsRepositoryLoadSettings(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSettingsRepository(db, "term-1")

	rows := sqlmock.NewRows([]string{
		"weeks", "days", "periods", "max_per_day_global", "prefer_distribution",
		"avoid_windows", "prioritize_faculty", "respect_teacher_prefs", "optimize_room_usage",
	}).AddRow(16, 5, 8, 6, "balanced", true, true, true, true)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT weeks, days, periods, max_per_day_global, prefer_distribution, avoid_windows, prioritize_faculty, respect_teacher_prefs, optimize_room_usage FROM settings WHERE term_id = $1`)).
		WithArgs("term-1").
		WillReturnRows(rows)

	settings, err := repo.LoadSettings(context.Background())

	require.NoError(t, err)
	require.Equal(t, 16, settings.Weeks)
	require.Equal(t, domain.PreferBalanced, settings.PreferDistribution)
}

func TestSettingsRepositoryLoadSettingsNoRowForTerm(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSettingsRepository(db, "missing-term")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT weeks, days, periods, max_per_day_global, prefer_distribution, avoid_windows, prioritize_faculty, respect_teacher_prefs, optimize_room_usage FROM settings WHERE term_id = $1`)).
		WithArgs("missing-term").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.LoadSettings(context.Background())

	require.Error(t, err)
}
