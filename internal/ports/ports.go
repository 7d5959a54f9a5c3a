// Package ports declares the narrow read/write interfaces the scheduling
// core depends on, following the teacher's per-capability interface style
// (schedule_generator_service.go's teacherAssignmentFetcher,
// scheduleFeeder, semesterScheduleRepository, etc.): small, verb-named
// contracts rather than one wide repository interface, so a caller only
// implements what it actually backs.
package ports

import (
	"context"

	"github.com/noah-isme/timetable-core/internal/domain"
)

// CourseReader loads the term's course catalogue, priorities, counts,
// distribution policies, and teacher assignment maps.
type CourseReader interface {
	ListCourses(ctx context.Context) ([]domain.Course, error)
}

// RoomReader loads the physical room inventory.
type RoomReader interface {
	ListRooms(ctx context.Context) ([]domain.Room, error)
}

// TeacherReader loads teachers with their preferences and daily caps.
type TeacherReader interface {
	ListTeachers(ctx context.Context) ([]domain.Teacher, error)
}

// GroupReader loads groups, their faculties, and lab subgroup partitions.
type GroupReader interface {
	ListGroups(ctx context.Context) ([]domain.Group, error)
}

// FacultyReader loads faculties and their priority weights.
type FacultyReader interface {
	ListFaculties(ctx context.Context) ([]domain.Faculty, error)
}

// SettingsReader loads the run-wide scheduling settings.
type SettingsReader interface {
	LoadSettings(ctx context.Context) (domain.Settings, error)
}

// ManualItemReader loads manually placed items that must never be mutated
// and must be seeded into the conflict index before placement starts.
type ManualItemReader interface {
	ListManualItems(ctx context.Context) ([]domain.ScheduleItem, error)
}

// ScheduleWriter commits the emitted, non-manual portion of an accepted
// schedule as a single atomic batch (spec 4.8).
type ScheduleWriter interface {
	WriteSchedule(ctx context.Context, items []domain.ScheduleItem) error
}

// ScheduleReader loads the full committed schedule (manual and generated)
// for a term, the view the conflict-query predicate and the timetable
// exporter read from outside of a generation run.
type ScheduleReader interface {
	ListSchedule(ctx context.Context) ([]domain.ScheduleItem, error)
}
