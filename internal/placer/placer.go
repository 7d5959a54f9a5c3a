// Package placer performs the greedy slot search of spec 4.4-4.5: order
// candidate (day, period) pairs by preference, commit at the first slot
// passing the constraint check, retry neighbouring weeks on exhaustion.
// Grounded on original_source/scheduler.py's _place_lesson,
// _get_prioritized_days, _get_prioritized_time_slots, _find_suitable_rooms,
// _select_best_room and _check_constraints, generalized from a fixed
// (week,day,slot) dict key to the conflictindex.Index abstraction and from
// Python's module-level random to an injected *rand.Rand for reproducible
// runs.
package placer

import (
	"math"
	"math/rand"
	"sort"

	"github.com/noah-isme/timetable-core/internal/conflictindex"
	"github.com/noah-isme/timetable-core/internal/domain"
	"github.com/noah-isme/timetable-core/internal/expander"
)

// weekRetryOffsets is the neighbour search order of spec 4.4 when the
// target week admits no slot: -1, +1, -2, +2.
var weekRetryOffsets = []int{0, -1, 1, -2, 2}

// Outcome records where a lesson landed, including the signed week offset
// from its original target (0 on first try, else one of -1,+1,-2,+2) per
// the offset-search reporting decision.
type Outcome struct {
	Item   domain.ScheduleItem
	Offset int
}

// Place attempts to commit lesson into idx. On success it adds the new item
// to idx and returns the outcome; on failure idx is left unchanged and ok
// is false.
func Place(idx *conflictindex.Index, snapshot domain.Snapshot, lesson expander.Lesson, nextID func() string, rng *rand.Rand) (Outcome, bool) {
	rooms := suitableRooms(snapshot, lesson)
	if len(rooms) == 0 {
		return Outcome{}, false
	}

	days := prioritizedDays(snapshot, lesson)
	periods := prioritizedPeriods(snapshot, lesson)

	startWeek := courseStartWeek(snapshot, lesson.CourseID)
	for _, offset := range weekRetryOffsets {
		week := lesson.TargetWeek + offset
		if week < startWeek || !weekInBounds(snapshot, week) {
			continue
		}
		for _, day := range days {
			for _, period := range periods {
				slot := conflictindex.Slot{Week: week, Day: day, Period: period}
				if !passesSoft(snapshot, lesson, slot, idx, rng) {
					continue
				}
				if !passesHard(snapshot, lesson, slot, idx, rooms) {
					continue
				}
				room, ok := bestRoom(rooms, idx, slot, lesson.TotalStudents)
				if !ok {
					continue
				}
				item := domain.ScheduleItem{
					ID:         nextID(),
					CourseID:   lesson.CourseID,
					LessonType: lesson.LessonType,
					Week:       week,
					Day:        day,
					Period:     period,
					RoomID:     room.ID,
					TeacherID:  lesson.TeacherID,
					GroupIDs:   lesson.GroupIDs,
					SubgroupID: lesson.SubgroupID,
					Offset:     offset,
				}
				idx.Add(item)
				return Outcome{Item: item, Offset: offset}, true
			}
		}
	}
	return Outcome{}, false
}

func weekInBounds(snapshot domain.Snapshot, week int) bool {
	return week >= 1 && week <= snapshot.Settings.Weeks
}

// suitableRooms implements spec 4.4's room candidate rule: preferred rooms
// filtered by capability+capacity take precedence; fall back to all rooms,
// with computer labs sorted first for lab lessons.
func suitableRooms(snapshot domain.Snapshot, lesson expander.Lesson) []domain.Room {
	filter := func(rooms []domain.Room) []domain.Room {
		out := make([]domain.Room, 0, len(rooms))
		for _, r := range rooms {
			if r.Capacity < lesson.TotalStudents {
				continue
			}
			if !r.SuitsLessonType(lesson.LessonType) {
				continue
			}
			out = append(out, r)
		}
		return out
	}

	preferred := filter(snapshot.RoomsByID(preferredRoomIDs(snapshot, lesson.CourseID)))
	if len(preferred) > 0 {
		return preferred
	}

	all := filter(snapshot.AllRooms())
	if lesson.LessonType == domain.LessonLab {
		sort.SliceStable(all, func(i, j int) bool {
			return all[i].IsComputerLab && !all[j].IsComputerLab
		})
	}
	return all
}

func preferredRoomIDs(snapshot domain.Snapshot, courseID string) []string {
	for _, c := range snapshot.Courses {
		if c.ID == courseID {
			return c.PreferredRoomIDs
		}
	}
	return nil
}

func courseStartWeek(snapshot domain.Snapshot, courseID string) int {
	for _, c := range snapshot.Courses {
		if c.ID == courseID {
			if c.StartWeek < 1 {
				return 1
			}
			return c.StartWeek
		}
	}
	return 1
}

func prioritizedDays(snapshot domain.Snapshot, lesson expander.Lesson) []int {
	days := make([]int, snapshot.Settings.Days)
	for i := range days {
		days[i] = i
	}
	if !snapshot.Settings.RespectTeacherPrefs {
		return days
	}
	teacher, ok := snapshot.Teachers[lesson.TeacherID]
	if !ok || len(teacher.PreferredWeekdays) == 0 {
		return days
	}
	sort.SliceStable(days, func(i, j int) bool {
		return teacher.PrefersDay(days[i]) && !teacher.PrefersDay(days[j])
	})
	return days
}

func prioritizedPeriods(snapshot domain.Snapshot, lesson expander.Lesson) []int {
	periods := make([]int, snapshot.Settings.Periods)
	for i := range periods {
		periods[i] = i
	}

	teacher, hasTeacher := snapshot.Teachers[lesson.TeacherID]
	respectPrefs := snapshot.Settings.RespectTeacherPrefs && hasTeacher

	groupPrefCounts := make(map[int]int)
	for _, gid := range lesson.GroupIDs {
		g, ok := snapshot.Groups[gid]
		if !ok {
			continue
		}
		for p := range g.PreferredPeriods {
			groupPrefCounts[p]++
		}
	}

	score := func(period int) float64 {
		s := 0.0
		switch snapshot.Settings.PreferDistribution {
		case domain.PreferMorning:
			if period < 3 {
				s += 10
			}
		case domain.PreferAfternoon:
			if period > 2 && period < 5 {
				s += 10
			}
		case domain.PreferBalanced:
			s += 5 - math.Abs(float64(period)-3)
		}
		if respectPrefs && teacher.PrefersPeriod(period) {
			s += 15
		}
		if cnt, ok := groupPrefCounts[period]; ok && len(lesson.GroupIDs) > 0 {
			s += 5 * float64(cnt) / float64(len(lesson.GroupIDs))
		}
		return s
	}

	sort.SliceStable(periods, func(i, j int) bool {
		return score(periods[i]) > score(periods[j])
	})
	return periods
}

// passesSoft implements the stochastic pre-filter of spec 4.5. Only Place
// applies it; the annealer checks swaps with its own hard-only checkHard.
func passesSoft(snapshot domain.Snapshot, lesson expander.Lesson, slot conflictindex.Slot, idx *conflictindex.Index, rng *rand.Rand) bool {
	p := snapshot.Settings.Periods
	switch snapshot.Settings.PreferDistribution {
	case domain.PreferMorning:
		if slot.Period > 3 {
			reject := float64(slot.Period-3) / float64(p)
			if rng.Float64() < reject {
				return false
			}
		}
	case domain.PreferAfternoon:
		if slot.Period < 2 || slot.Period > 5 {
			reject := math.Min(math.Abs(float64(slot.Period)-3.5)/float64(p), 0.5)
			if rng.Float64() < reject {
				return false
			}
		}
	}

	if snapshot.Settings.AvoidWindows {
		for _, gid := range lesson.GroupIDs {
			periods := idx.GroupPeriods(gid, slot.Week, slot.Day)
			if len(periods) == 0 {
				continue
			}
			minP, maxP := periods[0], periods[len(periods)-1]
			occupied := false
			for _, p := range periods {
				if p == slot.Period {
					occupied = true
					break
				}
			}
			if minP < slot.Period && slot.Period < maxP && !occupied {
				if rng.Float64() < 0.7 {
					return false
				}
			}
			if (slot.Period < minP && minP-slot.Period > 2) || (slot.Period > maxP && slot.Period-maxP > 2) {
				if rng.Float64() < 0.4 {
					return false
				}
			}
		}
	}
	return true
}

// passesHard implements the mandatory constraints of spec 4.5 for Place.
// The annealer does not call it; it has its own checkHard.
func passesHard(snapshot domain.Snapshot, lesson expander.Lesson, slot conflictindex.Slot, idx *conflictindex.Index, rooms []domain.Room) bool {
	if !idx.TeacherFree(slot, lesson.TeacherID) {
		return false
	}
	if idx.GroupConflict(slot, lesson.GroupIDs, lesson.SubgroupID) {
		return false
	}
	if !anyRoomFree(idx, slot, rooms) {
		return false
	}

	teacher := snapshot.Teachers[lesson.TeacherID]
	maxTeacher := snapshot.Settings.MaxPerDayGlobal
	if teacher.MaxPerDay > 0 && teacher.MaxPerDay < maxTeacher {
		maxTeacher = teacher.MaxPerDay
	}
	if idx.TeacherDailyCount(lesson.TeacherID, slot.Week, slot.Day) >= maxTeacher {
		return false
	}

	for _, gid := range lesson.GroupIDs {
		g, ok := snapshot.Groups[gid]
		if !ok {
			continue
		}
		maxGroup := snapshot.Settings.MaxPerDayGlobal
		if g.MaxPerDay > 0 && g.MaxPerDay < maxGroup {
			maxGroup = g.MaxPerDay
		}
		if idx.GroupDailyCount(gid, slot.Week, slot.Day) >= maxGroup {
			return false
		}
	}
	return true
}

func anyRoomFree(idx *conflictindex.Index, slot conflictindex.Slot, rooms []domain.Room) bool {
	for _, r := range rooms {
		if idx.RoomFree(slot, r.ID) {
			return true
		}
	}
	return false
}

// bestRoom picks, among rooms free at slot, the one with smallest
// non-negative capacity slack, per spec 4.4.
func bestRoom(rooms []domain.Room, idx *conflictindex.Index, slot conflictindex.Slot, totalStudents int) (domain.Room, bool) {
	best, found := domain.Room{}, false
	bestSlack := math.MaxInt64
	for _, r := range rooms {
		if !idx.RoomFree(slot, r.ID) {
			continue
		}
		slack := r.Capacity - totalStudents
		if slack < 0 {
			continue
		}
		if !found || slack < bestSlack {
			best, bestSlack, found = r, slack, true
		}
	}
	return best, found
}
