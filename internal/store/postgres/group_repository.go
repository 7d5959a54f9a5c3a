package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/timetable-core/internal/domain"
)

// GroupRepository loads groups and derives their lab subgroup partitions.
type GroupRepository struct {
	db *sqlx.DB
}

// NewGroupRepository constructs a GroupRepository.
func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// ListGroups implements ports.GroupReader. Subgroups are derived at read
// time via domain.BuildSubgroups rather than stored, so a change to a
// group's size or subgroup count never leaves stale subgroup rows behind.
func (r *GroupRepository) ListGroups(ctx context.Context) ([]domain.Group, error) {
	const query = `SELECT id, name, size, faculty_id, subgroup_count, max_per_day, preferred_periods FROM groups ORDER BY id`
	var rows []groupRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	groups := make([]domain.Group, 0, len(rows))
	for _, row := range rows {
		g := domain.Group{
			ID:               row.ID,
			Name:             row.Name,
			Size:             row.Size,
			FacultyID:        row.FacultyID,
			SubgroupCount:    row.SubgroupCount,
			MaxPerDay:        row.MaxPerDay,
			PreferredPeriods: intSetFromInt64Array(row.PreferredPeriods),
		}
		if g.HasSubgroups() {
			g.Subgroups = domain.BuildSubgroups(g.ID, g.Size, g.SubgroupCount)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

type groupRow struct {
	ID               string        `db:"id"`
	Name             string        `db:"name"`
	Size             int           `db:"size"`
	FacultyID        string        `db:"faculty_id"`
	SubgroupCount    int           `db:"subgroup_count"`
	MaxPerDay        int           `db:"max_per_day"`
	PreferredPeriods pq.Int64Array `db:"preferred_periods"`
}
