package scheduler

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-core/internal/domain"
	"github.com/noah-isme/timetable-core/internal/ports"
)

func smallSnapshot() domain.Snapshot {
	course := domain.Course{
		ID:           "c1",
		LectureCount: 2,
		StartWeek:    1,
		Distribution: domain.DistributionEven,
		GroupIDs:     []string{"g1"},
		TeacherAssignments: map[domain.TeacherKey]string{
			{LessonType: domain.LessonLecture}: "t1",
		},
	}
	return domain.NewSnapshot(
		domain.Settings{Weeks: 4, Days: 5, Periods: 6, MaxPerDayGlobal: 6},
		nil,
		[]domain.Teacher{{ID: "t1", MaxPerDay: 6}},
		[]domain.Group{{ID: "g1", Size: 20, MaxPerDay: 6}},
		[]domain.Room{{ID: "r1", Capacity: 40, IsLectureHall: true}},
		[]domain.Course{course},
		nil,
	)
}

func TestGenerateFromSnapshotPlacesLessonsAndScores(t *testing.T) {
	snapshot := smallSnapshot()

	result, err := GenerateFromSnapshot(snapshot, Budget{MaxDuration: time.Second, MaxIterations: 50}, rand.New(rand.NewSource(1)))

	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	require.False(t, result.Partial)
	require.Empty(t, result.Warnings)
	require.NotZero(t, result.Score)
}

func TestGenerateFromSnapshotRejectsEmptyDomain(t *testing.T) {
	snapshot := domain.NewSnapshot(domain.Settings{Weeks: 1, Days: 1, Periods: 1}, nil, nil, nil, nil, nil, nil)

	_, err := GenerateFromSnapshot(snapshot, DefaultBudget(), rand.New(rand.NewSource(1)))

	require.Error(t, err)
	genErr, ok := err.(*domain.GenerationError)
	require.True(t, ok)
	require.Equal(t, domain.KindEmptyDomain, genErr.Kind)
}

func TestGenerateFromSnapshotReturnsPartialWhenDeadlineElapsed(t *testing.T) {
	snapshot := smallSnapshot()

	result, err := GenerateFromSnapshot(snapshot, Budget{MaxDuration: 0, MaxIterations: 50}, rand.New(rand.NewSource(1)))

	require.NoError(t, err)
	require.True(t, result.Partial)
	require.NotEmpty(t, result.Warnings)
	require.Equal(t, domain.KindDeadlineExceeded, result.Warnings[0].Kind)
}

func TestGenerateFromSnapshotWarnsOnStructuralInfeasibility(t *testing.T) {
	course := domain.Course{
		ID:           "c1",
		LectureCount: 999,
		StartWeek:    1,
		Distribution: domain.DistributionEven,
		GroupIDs:     []string{"g1"},
		TeacherAssignments: map[domain.TeacherKey]string{
			{LessonType: domain.LessonLecture}: "t1",
		},
	}
	snapshot := domain.NewSnapshot(
		domain.Settings{Weeks: 4, Days: 5, Periods: 6, MaxPerDayGlobal: 6},
		nil,
		[]domain.Teacher{{ID: "t1", MaxPerDay: 6}},
		[]domain.Group{{ID: "g1", Size: 20, MaxPerDay: 6}},
		[]domain.Room{{ID: "r1", Capacity: 40, IsLectureHall: true}},
		[]domain.Course{course},
		nil,
	)

	result, err := GenerateFromSnapshot(snapshot, Budget{MaxDuration: time.Second, MaxIterations: 50}, rand.New(rand.NewSource(1)))

	require.NoError(t, err)
	found := false
	unplaceableCount := 0
	for _, w := range result.Warnings {
		if w.Kind == domain.KindStructurallyInfeasible {
			found = true
		}
		if w.Kind == domain.KindUnplaceableLesson {
			unplaceableCount++
		}
	}
	require.True(t, found)
	require.Empty(t, result.Items, "an over-quota course must be skipped entirely, not attempted lesson by lesson")
	require.Zero(t, unplaceableCount, "the pre-flight structural check exists precisely to avoid a wall of per-lesson UnplaceableLesson warnings")
}

type stubSettingsReader struct{ settings domain.Settings }

func (s stubSettingsReader) LoadSettings(context.Context) (domain.Settings, error) {
	return s.settings, nil
}

type stubCourseReader struct{ courses []domain.Course }

func (s stubCourseReader) ListCourses(context.Context) ([]domain.Course, error) { return s.courses, nil }

type stubRoomReader struct{ rooms []domain.Room }

func (s stubRoomReader) ListRooms(context.Context) ([]domain.Room, error) { return s.rooms, nil }

type stubTeacherReader struct{ teachers []domain.Teacher }

func (s stubTeacherReader) ListTeachers(context.Context) ([]domain.Teacher, error) {
	return s.teachers, nil
}

type stubGroupReader struct{ groups []domain.Group }

func (s stubGroupReader) ListGroups(context.Context) ([]domain.Group, error) { return s.groups, nil }

type stubWriter struct{ written []domain.ScheduleItem }

func (s *stubWriter) WriteSchedule(_ context.Context, items []domain.ScheduleItem) error {
	s.written = items
	return nil
}

func TestServiceGenerateLoadsSnapshotAndWrites(t *testing.T) {
	course := domain.Course{
		ID:           "c1",
		LectureCount: 1,
		StartWeek:    1,
		Distribution: domain.DistributionEven,
		GroupIDs:     []string{"g1"},
		TeacherAssignments: map[domain.TeacherKey]string{
			{LessonType: domain.LessonLecture}: "t1",
		},
	}
	writer := &stubWriter{}
	svc := New(
		stubCourseReader{courses: []domain.Course{course}},
		stubRoomReader{rooms: []domain.Room{{ID: "r1", Capacity: 40, IsLectureHall: true}}},
		stubTeacherReader{teachers: []domain.Teacher{{ID: "t1", MaxPerDay: 6}}},
		stubGroupReader{groups: []domain.Group{{ID: "g1", Size: 20, MaxPerDay: 6}}},
		nil,
		stubSettingsReader{settings: domain.Settings{Weeks: 4, Days: 5, Periods: 6, MaxPerDayGlobal: 6}},
		nil,
		writer,
		nil,
		Budget{MaxDuration: time.Second, MaxIterations: 50},
	)

	result, err := svc.Generate(context.Background(), rand.New(rand.NewSource(1)))

	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Len(t, writer.written, 1)
}

func TestServiceGeneratePropagatesSettingsLoadError(t *testing.T) {
	boom := boomErr{}
	svc := New(
		stubCourseReader{}, stubRoomReader{}, stubTeacherReader{}, stubGroupReader{},
		nil, failingSettingsReader{err: boom}, nil, nil, nil, DefaultBudget(),
	)

	_, err := svc.Generate(context.Background(), rand.New(rand.NewSource(1)))

	require.ErrorIs(t, err, boom)
}

type failingSettingsReader struct{ err error }

func (f failingSettingsReader) LoadSettings(context.Context) (domain.Settings, error) {
	return domain.Settings{}, f.err
}

type boomErr struct{}

func (boomErr) Error() string { return "boom" }

var _ ports.SettingsReader = stubSettingsReader{}
