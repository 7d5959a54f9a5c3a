package scheduler

import (
	"github.com/noah-isme/timetable-core/internal/conflictindex"
	"github.com/noah-isme/timetable-core/internal/domain"
	"github.com/noah-isme/timetable-core/internal/objective"
)

type slotKey struct {
	week, day, period int
}

// checkInvariants verifies teacher/room/group exclusivity per slot, room
// capability and capacity, and the teacher and group daily caps against a
// full item set, returning an InternalInvariantViolation on the first
// broken one. It does not check week/day/period ranges or that an item's
// teacher matches the course's assignment map, and invariants 8-9 (manual
// survival, N-cap) are not re-checked here either.
func checkInvariants(snapshot domain.Snapshot, items []domain.ScheduleItem) error {
	bySlot := make(map[slotKey][]domain.ScheduleItem)
	for _, it := range items {
		k := slotKey{it.Week, it.Day, it.Period}
		bySlot[k] = append(bySlot[k], it)
	}

	idx := conflictindex.New()
	for _, it := range items {
		idx.Add(it)
	}

	for _, slotItems := range bySlot {
		for i := 0; i < len(slotItems); i++ {
			for j := i + 1; j < len(slotItems); j++ {
				a, b := slotItems[i], slotItems[j]
				if a.TeacherID == b.TeacherID {
					return domain.InternalInvariantViolation("two items share a teacher at the same slot")
				}
				if a.RoomID == b.RoomID {
					return domain.InternalInvariantViolation("two items share a room at the same slot")
				}
				for _, g := range a.GroupIDs {
					if !b.HasGroup(g) {
						continue
					}
					if a.LessonType != domain.LessonLab || b.LessonType != domain.LessonLab ||
						a.SubgroupID == "" || b.SubgroupID == "" || a.SubgroupID == b.SubgroupID {
						return domain.InternalInvariantViolation("two items share a group at the same slot without distinct lab subgroups")
					}
				}
			}
		}
	}

	for _, it := range items {
		room, ok := snapshot.Rooms[it.RoomID]
		if !ok || !room.SuitsLessonType(it.LessonType) {
			return domain.InternalInvariantViolation("item placed in a room unsuited to its lesson type")
		}
		if snapshot.GroupSize(firstGroup(it.GroupIDs), it.SubgroupID)+occupantSurplus(snapshot, it) > room.Capacity {
			return domain.InternalInvariantViolation("item occupants exceed room capacity")
		}

		maxTeacher := snapshot.Settings.MaxPerDayGlobal
		if teacher, ok := snapshot.Teachers[it.TeacherID]; ok && teacher.MaxPerDay > 0 && teacher.MaxPerDay < maxTeacher {
			maxTeacher = teacher.MaxPerDay
		}
		if idx.TeacherDailyCount(it.TeacherID, it.Week, it.Day) > maxTeacher {
			return domain.InternalInvariantViolation("teacher daily cap exceeded")
		}

		for _, g := range it.GroupIDs {
			maxGroup := snapshot.Settings.MaxPerDayGlobal
			if group, ok := snapshot.Groups[g]; ok && group.MaxPerDay > 0 && group.MaxPerDay < maxGroup {
				maxGroup = group.MaxPerDay
			}
			// GroupDailyCount collapses parallel same-slot lab subgroups of
			// the same group into one occurrence, per invariant 7.
			if idx.GroupDailyCount(g, it.Week, it.Day) > maxGroup {
				return domain.InternalInvariantViolation("group daily cap exceeded")
			}
		}
	}

	return nil
}

func firstGroup(groups []string) string {
	if len(groups) == 0 {
		return ""
	}
	return groups[0]
}

// occupantSurplus accounts for items carrying more than one group (broad
// lectures/practices), summing the remaining groups' sizes beyond the
// first, which GroupSize already covers.
func occupantSurplus(snapshot domain.Snapshot, it domain.ScheduleItem) int {
	if len(it.GroupIDs) <= 1 {
		return 0
	}
	total := 0
	for _, g := range it.GroupIDs[1:] {
		total += snapshot.GroupSize(g, "")
	}
	return total
}

func scoreOf(snapshot domain.Snapshot, items []domain.ScheduleItem) float64 {
	return objective.Score(snapshot, items)
}
