package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-core/internal/domain"
	"github.com/noah-isme/timetable-core/internal/models"
)

// CourseRepository loads courses and assembles their group membership,
// preferred rooms, and teacher assignment map from three join tables.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// ListCourses implements ports.CourseReader.
func (r *CourseRepository) ListCourses(ctx context.Context) ([]domain.Course, error) {
	const courseQuery = `SELECT id, name, lecture_count, practice_count, lab_count, start_week, distribution, priority FROM courses ORDER BY id`
	var rows []courseRow
	if err := r.db.SelectContext(ctx, &rows, courseQuery); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	groupsByCourse, err := r.loadGroups(ctx)
	if err != nil {
		return nil, err
	}
	roomsByCourse, err := r.loadPreferredRooms(ctx)
	if err != nil {
		return nil, err
	}
	assignmentsByCourse, err := r.loadTeacherAssignments(ctx)
	if err != nil {
		return nil, err
	}

	courses := make([]domain.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, domain.Course{
			ID:                 row.ID,
			Name:               row.Name,
			LectureCount:       row.LectureCount,
			PracticeCount:      row.PracticeCount,
			LabCount:           row.LabCount,
			StartWeek:          row.StartWeek,
			Distribution:       domain.DistributionPolicy(row.Distribution),
			Priority:           row.Priority,
			GroupIDs:           groupsByCourse[row.ID],
			PreferredRoomIDs:   roomsByCourse[row.ID],
			TeacherAssignments: assignmentsByCourse[row.ID],
		})
	}
	return courses, nil
}

func (r *CourseRepository) loadGroups(ctx context.Context) (map[string][]string, error) {
	const query = `SELECT course_id, group_id FROM course_groups ORDER BY course_id, group_id`
	var rows []models.CourseGroup
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list course groups: %w", err)
	}
	out := make(map[string][]string)
	for _, row := range rows {
		out[row.CourseID] = append(out[row.CourseID], row.GroupID)
	}
	return out, nil
}

func (r *CourseRepository) loadPreferredRooms(ctx context.Context) (map[string][]string, error) {
	const query = `SELECT course_id, room_id FROM course_preferred_rooms ORDER BY course_id, room_id`
	var rows []models.CoursePreferredRoom
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list course preferred rooms: %w", err)
	}
	out := make(map[string][]string)
	for _, row := range rows {
		out[row.CourseID] = append(out[row.CourseID], row.RoomID)
	}
	return out, nil
}

func (r *CourseRepository) loadTeacherAssignments(ctx context.Context) (map[string]map[domain.TeacherKey]string, error) {
	const query = `SELECT id, course_id, lesson_type, subgroup_id, teacher_id FROM teacher_assignments ORDER BY course_id`
	var rows []models.TeacherAssignment
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list teacher assignments: %w", err)
	}
	out := make(map[string]map[domain.TeacherKey]string)
	for _, row := range rows {
		key := domain.TeacherKey{LessonType: domain.LessonType(row.LessonType), SubgroupID: row.SubgroupID}
		if out[row.CourseID] == nil {
			out[row.CourseID] = make(map[domain.TeacherKey]string)
		}
		out[row.CourseID][key] = row.TeacherID
	}
	return out, nil
}

type courseRow struct {
	ID            string `db:"id"`
	Name          string `db:"name"`
	LectureCount  int    `db:"lecture_count"`
	PracticeCount int    `db:"practice_count"`
	LabCount      int    `db:"lab_count"`
	StartWeek     int    `db:"start_week"`
	Distribution  string `db:"distribution"`
	Priority      int    `db:"priority"`
}
