// Package objective scores a full schedule as a pure function of the
// schedule and domain model, grounded on original_source/scheduler.py's
// _evaluate_schedule, _count_group_windows, _evaluate_teacher_preferences,
// _evaluate_distribution and _evaluate_room_usage.
package objective

import (
	"math"

	"github.com/noah-isme/timetable-core/internal/domain"
)

const baseScore = 100.0

// Score computes the objective of spec 4.6 over items, the non-manual and
// manual union of a schedule, against snapshot.
func Score(snapshot domain.Snapshot, items []domain.ScheduleItem) float64 {
	score := baseScore
	score += inconvenientPeriods(snapshot, items)
	if snapshot.Settings.AvoidWindows {
		score += groupWindows(items)
	}
	if snapshot.Settings.RespectTeacherPrefs {
		score += teacherPreferences(snapshot, items)
	}
	score += distributionEvenness(items)
	if snapshot.Settings.OptimizeRoomUsage {
		score += roomFit(snapshot, items)
	}
	return score
}

func inconvenientPeriods(snapshot domain.Snapshot, items []domain.ScheduleItem) float64 {
	lastPeriod := snapshot.Settings.Periods - 1
	total := 0.0
	for _, it := range items {
		if it.Period == lastPeriod {
			total -= 0.5
		}
	}
	return total
}

type groupDayKey struct {
	group     string
	week, day int
}

func groupWindows(items []domain.ScheduleItem) float64 {
	periods := make(map[groupDayKey][]int)
	for _, it := range items {
		for _, g := range it.GroupIDs {
			k := groupDayKey{group: g, week: it.Week, day: it.Day}
			periods[k] = append(periods[k], it.Period)
		}
	}
	total := 0.0
	for _, ps := range periods {
		sortInts(ps)
		for i := 1; i < len(ps); i++ {
			gap := ps[i] - ps[i-1] - 1
			if gap > 0 {
				total -= 2 * float64(gap)
			}
		}
	}
	return total
}

func teacherPreferences(snapshot domain.Snapshot, items []domain.ScheduleItem) float64 {
	total := 0.0
	for _, it := range items {
		teacher, ok := snapshot.Teachers[it.TeacherID]
		if !ok {
			continue
		}
		if teacher.PrefersDay(it.Day) {
			total += 0.5
		}
		if teacher.PrefersPeriod(it.Period) {
			total += 0.5
		}
	}
	return total
}

type groupWeekDayKey struct {
	group     string
	week, day int
}

func distributionEvenness(items []domain.ScheduleItem) float64 {
	counts := make(map[groupWeekDayKey]int)
	groupSeen := make(map[string]struct{})
	for _, it := range items {
		for _, g := range it.GroupIDs {
			counts[groupWeekDayKey{group: g, week: it.Week, day: it.Day}]++
			groupSeen[g] = struct{}{}
		}
	}
	total := 0.0
	for g := range groupSeen {
		var values []float64
		for k, c := range counts {
			if k.group == g {
				values = append(values, float64(c))
			}
		}
		total += 10 / (1 + stddev(values))
	}
	return total
}

func roomFit(snapshot domain.Snapshot, items []domain.ScheduleItem) float64 {
	total := 0.0
	for _, it := range items {
		room, ok := snapshot.Rooms[it.RoomID]
		if !ok || room.Capacity == 0 {
			continue
		}
		occupants := occupantCount(snapshot, it)
		ratio := float64(occupants) / float64(room.Capacity)
		switch {
		case ratio > 1:
			total -= 1
		case ratio >= 0.7 && ratio <= 0.95:
			total += 0.5
		case ratio < 0.4:
			total -= 0.5
		}
	}
	return total
}

func occupantCount(snapshot domain.Snapshot, it domain.ScheduleItem) int {
	total := 0
	for _, g := range it.GroupIDs {
		total += snapshot.GroupSize(g, it.SubgroupID)
	}
	return total
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j] < xs[j-1]; j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
}
