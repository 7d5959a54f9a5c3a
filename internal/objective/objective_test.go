package objective

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-core/internal/domain"
)

func TestScoreBaselineWithNoItemsIsBaseScore(t *testing.T) {
	snapshot := domain.NewSnapshot(domain.Settings{Periods: 6}, nil, nil, nil, nil, nil, nil)

	require.Equal(t, baseScore, Score(snapshot, nil))
}

func TestScorePenalizesLastPeriodLessons(t *testing.T) {
	snapshot := domain.NewSnapshot(domain.Settings{Periods: 6}, nil, nil, nil, nil, nil, nil)
	items := []domain.ScheduleItem{{Period: 5}}

	require.Less(t, Score(snapshot, items), baseScore)
}

func TestScorePenalizesGroupWindowsWhenEnabled(t *testing.T) {
	snapshot := domain.NewSnapshot(domain.Settings{Periods: 6, AvoidWindows: true}, nil, nil, nil, nil, nil, nil)
	withGap := []domain.ScheduleItem{
		{Week: 1, Day: 0, Period: 0, GroupIDs: []string{"g1"}},
		{Week: 1, Day: 0, Period: 3, GroupIDs: []string{"g1"}},
	}
	noGap := []domain.ScheduleItem{
		{Week: 1, Day: 0, Period: 0, GroupIDs: []string{"g1"}},
		{Week: 1, Day: 0, Period: 1, GroupIDs: []string{"g1"}},
	}

	require.Less(t, Score(snapshot, withGap), Score(snapshot, noGap))
}

func TestScoreRewardsTeacherPreferenceMatches(t *testing.T) {
	snapshot := domain.NewSnapshot(
		domain.Settings{Periods: 6, RespectTeacherPrefs: true},
		nil,
		[]domain.Teacher{{ID: "t1", PreferredWeekdays: map[int]struct{}{0: {}}, PreferredPeriods: map[int]struct{}{1: {}}}},
		nil, nil, nil, nil,
	)
	matching := []domain.ScheduleItem{{Day: 0, Period: 1, TeacherID: "t1"}}
	mismatched := []domain.ScheduleItem{{Day: 4, Period: 5, TeacherID: "t1"}}

	require.Greater(t, Score(snapshot, matching), Score(snapshot, mismatched))
}

func TestScoreRoomFitPenalizesOvercapacity(t *testing.T) {
	snapshot := domain.NewSnapshot(
		domain.Settings{Periods: 6, OptimizeRoomUsage: true},
		nil, nil,
		[]domain.Group{{ID: "g1", Size: 50}},
		[]domain.Room{{ID: "r1", Capacity: 30}},
		nil, nil,
	)
	items := []domain.ScheduleItem{{RoomID: "r1", GroupIDs: []string{"g1"}}}
	withoutRoomFit := snapshot
	withoutRoomFit.Settings.OptimizeRoomUsage = false

	require.Less(t, Score(snapshot, items), Score(withoutRoomFit, items))
}
