package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-core/internal/domain"
)

func TestScheduleItemRepositoryListManualItems(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleItemRepository(db, "term-1")

	rows := sqlmock.NewRows([]string{"id", "course_id", "lesson_type", "week", "day", "period", "room_id", "teacher_id", "group_ids", "subgroup_id", "is_manually_placed"}).
		AddRow("i1", "c1", "lecture", 1, 0, 2, "r1", "t1", pq.StringArray{"g1"}, "", true)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, course_id, lesson_type, week, day, period, room_id, teacher_id, group_ids, subgroup_id, is_manually_placed
		FROM schedule_items WHERE term_id = $1 AND is_manually_placed = TRUE ORDER BY id`)).
		WithArgs("term-1").
		WillReturnRows(rows)

	items, err := repo.ListManualItems(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 1)
	require.True(t, items[0].Manual)
	require.Equal(t, domain.LessonLecture, items[0].LessonType)
}

func TestScheduleItemRepositoryListSchedule(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleItemRepository(db, "term-1")

	rows := sqlmock.NewRows([]string{"id", "course_id", "lesson_type", "week", "day", "period", "room_id", "teacher_id", "group_ids", "subgroup_id", "is_manually_placed"}).
		AddRow("i1", "c1", "lecture", 1, 0, 2, "r1", "t1", pq.StringArray{"g1"}, "", false)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, course_id, lesson_type, week, day, period, room_id, teacher_id, group_ids, subgroup_id, is_manually_placed
		FROM schedule_items WHERE term_id = $1 ORDER BY week, day, period`)).
		WithArgs("term-1").
		WillReturnRows(rows)

	items, err := repo.ListSchedule(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 1)
	require.False(t, items[0].Manual)
}

func TestScheduleItemRepositoryWriteScheduleClearsThenInserts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleItemRepository(db, "term-1")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM schedule_items WHERE term_id = $1 AND is_manually_placed = FALSE`)).
		WithArgs("term-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO schedule_items`)).
		WithArgs(
			sqlmock.AnyArg(), "term-1", "c1", "lecture", 1, 0, 2, "r1", "t1", sqlmock.AnyArg(), "",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.WriteSchedule(context.Background(), []domain.ScheduleItem{
		{ID: "i1", CourseID: "c1", LessonType: domain.LessonLecture, Week: 1, Day: 0, Period: 2, RoomID: "r1", TeacherID: "t1", GroupIDs: []string{"g1"}},
	})

	require.NoError(t, err)
}

func TestScheduleItemRepositoryWriteScheduleSkipsInsertWhenEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleItemRepository(db, "term-1")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM schedule_items WHERE term_id = $1 AND is_manually_placed = FALSE`)).
		WithArgs("term-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.WriteSchedule(context.Background(), nil)

	require.NoError(t, err)
}

func TestScheduleItemRepositoryWriteScheduleRollsBackOnInsertError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleItemRepository(db, "term-1")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM schedule_items WHERE term_id = $1 AND is_manually_placed = FALSE`)).
		WithArgs("term-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO schedule_items`)).
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	err := repo.WriteSchedule(context.Background(), []domain.ScheduleItem{
		{ID: "i1", CourseID: "c1", LessonType: domain.LessonLecture, Week: 1, Day: 0, Period: 2, RoomID: "r1", TeacherID: "t1", GroupIDs: []string{"g1"}},
	})

	require.Error(t, err)
}
