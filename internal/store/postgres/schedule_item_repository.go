package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/timetable-core/internal/domain"
)

// ScheduleItemRepository loads manual items and commits generated batches,
// grounded on the teacher's scheduleFeeder.BulkCreateWithTx: a transaction
// that clears the non-manual rows and inserts the fresh batch, so a failed
// generation run never leaves a half-applied schedule. This implements
// spec 6's clearNonManualSchedule + appendScheduleItems(batch) pair as one
// atomic unit instead of two externally-sequenced calls.
type ScheduleItemRepository struct {
	db     *sqlx.DB
	termID string
}

// NewScheduleItemRepository constructs a ScheduleItemRepository scoped to
// termID.
func NewScheduleItemRepository(db *sqlx.DB, termID string) *ScheduleItemRepository {
	return &ScheduleItemRepository{db: db, termID: termID}
}

// ListManualItems implements ports.ManualItemReader.
func (r *ScheduleItemRepository) ListManualItems(ctx context.Context) ([]domain.ScheduleItem, error) {
	const query = `SELECT id, course_id, lesson_type, week, day, period, room_id, teacher_id, group_ids, subgroup_id, is_manually_placed
		FROM schedule_items WHERE term_id = $1 AND is_manually_placed = TRUE ORDER BY id`
	var rows []scheduleItemRow
	if err := r.db.SelectContext(ctx, &rows, query, r.termID); err != nil {
		return nil, fmt.Errorf("list manual schedule items: %w", err)
	}
	items := make([]domain.ScheduleItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, nil
}

// ListSchedule implements ports.ScheduleReader: every committed item for
// the term, manual and generated alike, the view the conflict-query
// predicate and the timetable exporter both read from.
func (r *ScheduleItemRepository) ListSchedule(ctx context.Context) ([]domain.ScheduleItem, error) {
	const query = `SELECT id, course_id, lesson_type, week, day, period, room_id, teacher_id, group_ids, subgroup_id, is_manually_placed
		FROM schedule_items WHERE term_id = $1 ORDER BY week, day, period`
	var rows []scheduleItemRow
	if err := r.db.SelectContext(ctx, &rows, query, r.termID); err != nil {
		return nil, fmt.Errorf("list schedule items: %w", err)
	}
	items := make([]domain.ScheduleItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, nil
}

// WriteSchedule implements ports.ScheduleWriter: clears the previous
// non-manual rows for the term and inserts items as a single transaction.
func (r *ScheduleItemRepository) WriteSchedule(ctx context.Context, items []domain.ScheduleItem) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin schedule write transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const clearQuery = `DELETE FROM schedule_items WHERE term_id = $1 AND is_manually_placed = FALSE`
	if _, err := tx.ExecContext(ctx, clearQuery, r.termID); err != nil {
		return fmt.Errorf("clear non-manual schedule items: %w", err)
	}

	const insertQuery = `INSERT INTO schedule_items
		(id, term_id, course_id, lesson_type, week, day, period, room_id, teacher_id, group_ids, subgroup_id, is_manually_placed)
		VALUES (:id, :term_id, :course_id, :lesson_type, :week, :day, :period, :room_id, :teacher_id, :group_ids, :subgroup_id, FALSE)`

	rows := make([]namedScheduleItemRow, 0, len(items))
	for _, it := range items {
		id := it.ID
		if id == "" {
			id = uuid.NewString()
		}
		rows = append(rows, namedScheduleItemRow{
			ID:         id,
			TermID:     r.termID,
			CourseID:   it.CourseID,
			LessonType: string(it.LessonType),
			Week:       it.Week,
			Day:        it.Day,
			Period:     it.Period,
			RoomID:     it.RoomID,
			TeacherID:  it.TeacherID,
			GroupIDs:   pq.Array(it.GroupIDs),
			SubgroupID: it.SubgroupID,
		})
	}
	if len(rows) > 0 {
		if _, err := tx.NamedExecContext(ctx, insertQuery, rows); err != nil {
			return fmt.Errorf("insert schedule items: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schedule write transaction: %w", err)
	}
	return nil
}

type scheduleItemRow struct {
	ID         string         `db:"id"`
	CourseID   string         `db:"course_id"`
	LessonType string         `db:"lesson_type"`
	Week       int            `db:"week"`
	Day        int            `db:"day"`
	Period     int            `db:"period"`
	RoomID     string         `db:"room_id"`
	TeacherID  string         `db:"teacher_id"`
	GroupIDs   pq.StringArray `db:"group_ids"`
	SubgroupID string         `db:"subgroup_id"`
	Manual     bool           `db:"is_manually_placed"`
}

func (row scheduleItemRow) toDomain() domain.ScheduleItem {
	return domain.ScheduleItem{
		ID:         row.ID,
		CourseID:   row.CourseID,
		LessonType: domain.LessonType(row.LessonType),
		Week:       row.Week,
		Day:        row.Day,
		Period:     row.Period,
		RoomID:     row.RoomID,
		TeacherID:  row.TeacherID,
		GroupIDs:   []string(row.GroupIDs),
		SubgroupID: row.SubgroupID,
		Manual:     row.Manual,
	}
}

// namedScheduleItemRow is the insert-side shape for sqlx.NamedExecContext.
type namedScheduleItemRow struct {
	ID         string         `db:"id"`
	TermID     string         `db:"term_id"`
	CourseID   string         `db:"course_id"`
	LessonType string         `db:"lesson_type"`
	Week       int            `db:"week"`
	Day        int            `db:"day"`
	Period     int            `db:"period"`
	RoomID     string         `db:"room_id"`
	TeacherID  string         `db:"teacher_id"`
	GroupIDs   pq.StringArray `db:"group_ids"`
	SubgroupID string         `db:"subgroup_id"`
}
