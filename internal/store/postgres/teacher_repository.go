// Package postgres adapts the scheduling core's ports to a Postgres-backed
// store, grounded on the teacher's repository style (one struct wrapping
// *sqlx.DB, SelectContext/GetContext queries, uuid.NewString for fresh
// IDs) generalized from per-entity CRUD to the read-only bulk loads and the
// single schedule batch write the core's ports require.
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/timetable-core/internal/domain"
	"github.com/noah-isme/timetable-core/internal/models"
)

// TeacherRepository loads teacher rows and assembles them into domain
// entities.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// ListTeachers implements ports.TeacherReader.
func (r *TeacherRepository) ListTeachers(ctx context.Context) ([]domain.Teacher, error) {
	const query = `SELECT id, name, preferred_weekdays, preferred_periods, max_per_day FROM teachers ORDER BY id`
	var rows []teacherRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	teachers := make([]domain.Teacher, 0, len(rows))
	for _, row := range rows {
		teachers = append(teachers, row.toDomain())
	}
	return teachers, nil
}

// teacherRow scans preferred_weekdays/preferred_periods as Postgres
// integer arrays via pq.Array, since sqlx cannot map directly into a Go
// slice for array-typed columns.
type teacherRow struct {
	ID                string        `db:"id"`
	Name              string        `db:"name"`
	PreferredWeekdays pq.Int64Array `db:"preferred_weekdays"`
	PreferredPeriods  pq.Int64Array `db:"preferred_periods"`
	MaxPerDay         int           `db:"max_per_day"`
}

func (row teacherRow) toDomain() domain.Teacher {
	return domain.Teacher{
		ID:                row.ID,
		Name:              row.Name,
		PreferredWeekdays: intSetFromInt64Array(row.PreferredWeekdays),
		PreferredPeriods:  intSetFromInt64Array(row.PreferredPeriods),
		MaxPerDay:         row.MaxPerDay,
	}
}

func intSetFromInt64Array(arr pq.Int64Array) map[int]struct{} {
	if len(arr) == 0 {
		return nil
	}
	set := make(map[int]struct{}, len(arr))
	for _, v := range arr {
		set[int(v)] = struct{}{}
	}
	return set
}

// teacherAssignmentRow backs models.TeacherAssignment reads used by
// CourseRepository to assemble Course.TeacherAssignments.
type teacherAssignmentRow = models.TeacherAssignment
