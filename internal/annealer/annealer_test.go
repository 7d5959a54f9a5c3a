package annealer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-core/internal/conflictindex"
	"github.com/noah-isme/timetable-core/internal/domain"
	"github.com/noah-isme/timetable-core/internal/objective"
)

func twoItemSnapshot() (domain.Snapshot, []domain.ScheduleItem) {
	items := []domain.ScheduleItem{
		{ID: "i1", Week: 1, Day: 0, Period: 5, TeacherID: "t1", RoomID: "r1", GroupIDs: []string{"g1"}, LessonType: domain.LessonLecture},
		{ID: "i2", Week: 1, Day: 1, Period: 0, TeacherID: "t2", RoomID: "r2", GroupIDs: []string{"g1"}, LessonType: domain.LessonLecture},
	}
	snapshot := domain.NewSnapshot(
		domain.Settings{Weeks: 2, Days: 5, Periods: 6, MaxPerDayGlobal: 6},
		nil,
		[]domain.Teacher{{ID: "t1", MaxPerDay: 6}, {ID: "t2", MaxPerDay: 6}},
		[]domain.Group{{ID: "g1", Size: 20, MaxPerDay: 6}},
		[]domain.Room{{ID: "r1", Capacity: 40, IsLectureHall: true}, {ID: "r2", Capacity: 40, IsLectureHall: true}},
		nil, nil,
	)
	return snapshot, items
}

func buildIndex(items []domain.ScheduleItem) *conflictindex.Index {
	idx := conflictindex.New()
	for _, it := range items {
		idx.Add(it)
	}
	return idx
}

func TestRunReturnsInputUnchangedWithFewerThanTwoItems(t *testing.T) {
	snapshot, items := twoItemSnapshot()
	single := items[:1]
	idx := buildIndex(single)

	out := Run(snapshot, idx, single, Budget{MaxIterations: 10}, func(int) bool { return false }, rand.New(rand.NewSource(1)))

	require.Equal(t, single, out)
}

func TestRunNeverReturnsWorseThanStartingScore(t *testing.T) {
	snapshot, items := twoItemSnapshot()
	idx := buildIndex(items)
	startScore := objective.Score(snapshot, items)

	out := Run(snapshot, idx, items, Budget{MaxIterations: 50}, func(int) bool { return false }, rand.New(rand.NewSource(7)))

	require.Len(t, out, 2)
	require.GreaterOrEqual(t, objective.Score(snapshot, out), startScore)
}

func TestTrySwapPicksTwoDistinctSlotsNotTwoDistinctItems(t *testing.T) {
	// g1 has two parallel subgroup labs at the same slot (week 1, day 0,
	// period 0) plus one item at a distinct slot (week 1, day 1, period 0).
	// Sampling uniformly over items would pick the crowded slot roughly
	// twice as often as the lone one; sampling over slots first must not.
	group := domain.Group{ID: "g1", Size: 20, SubgroupCount: 2, MaxPerDay: 6}
	group.Subgroups = domain.BuildSubgroups(group.ID, group.Size, group.SubgroupCount)
	snapshot := domain.NewSnapshot(
		domain.Settings{Weeks: 2, Days: 5, Periods: 6, MaxPerDayGlobal: 6},
		nil,
		[]domain.Teacher{{ID: "t1", MaxPerDay: 6}, {ID: "t2", MaxPerDay: 6}, {ID: "t3", MaxPerDay: 6}},
		[]domain.Group{group},
		[]domain.Room{{ID: "r1", Capacity: 40, IsLab: true}, {ID: "r2", Capacity: 40, IsLab: true}, {ID: "r3", Capacity: 40, IsLab: true}},
		nil, nil,
	)
	items := []domain.ScheduleItem{
		{ID: "i1", Week: 1, Day: 0, Period: 0, TeacherID: "t1", RoomID: "r1", GroupIDs: []string{"g1"}, SubgroupID: group.Subgroups[0].ID, LessonType: domain.LessonLab},
		{ID: "i2", Week: 1, Day: 0, Period: 0, TeacherID: "t2", RoomID: "r2", GroupIDs: []string{"g1"}, SubgroupID: group.Subgroups[1].ID, LessonType: domain.LessonLab},
		{ID: "i3", Week: 1, Day: 1, Period: 0, TeacherID: "t3", RoomID: "r3", GroupIDs: []string{"g1"}, SubgroupID: group.Subgroups[0].ID, LessonType: domain.LessonLab},
	}
	idx := buildIndex(items)

	seenSlots := make(map[conflictindex.Slot]bool)
	for seed := int64(0); seed < 200; seed++ {
		rng := rand.New(rand.NewSource(seed))
		rec, _, ok := trySwap(snapshot, idx, items, rng)
		if !ok {
			continue
		}
		undoSwap(idx, rec)
		for _, it := range rec.removed {
			seenSlots[conflictindex.Slot{Week: it.Week, Day: it.Day, Period: it.Period}] = true
		}
	}

	require.Contains(t, seenSlots, conflictindex.Slot{Week: 1, Day: 0, Period: 0})
	require.Contains(t, seenSlots, conflictindex.Slot{Week: 1, Day: 1, Period: 0})
}

func TestRunRespectsShouldStop(t *testing.T) {
	snapshot, items := twoItemSnapshot()
	idx := buildIndex(items)

	calls := 0
	Run(snapshot, idx, items, Budget{MaxIterations: 1000}, func(int) bool {
		calls++
		return calls > 3
	}, rand.New(rand.NewSource(1)))

	require.LessOrEqual(t, calls, 5)
}
