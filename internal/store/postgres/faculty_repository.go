package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-core/internal/domain"
)

// FacultyRepository loads faculties and their priority weights.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository constructs a FacultyRepository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

// ListFaculties implements ports.FacultyReader.
func (r *FacultyRepository) ListFaculties(ctx context.Context) ([]domain.Faculty, error) {
	const query = `SELECT id, name, priority FROM faculties ORDER BY id`
	var rows []facultyRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list faculties: %w", err)
	}
	faculties := make([]domain.Faculty, 0, len(rows))
	for _, row := range rows {
		faculties = append(faculties, domain.Faculty{ID: row.ID, Name: row.Name, Priority: row.Priority})
	}
	return faculties, nil
}

type facultyRow struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Priority int    `db:"priority"`
}
