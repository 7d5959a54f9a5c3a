// Package conflictindex provides constant-time occupancy lookups over the
// (week, day, period) grid for teachers, rooms and groups/subgroups, the
// way schedule_generator_service.go's schedulerState tracks a single
// class/day occupancy grid with maps-of-maps, generalized here to the full
// week/day/period space and to the subgroup-aware group exclusion of
// invariant 3.
package conflictindex

import "github.com/noah-isme/timetable-core/internal/domain"

// Slot identifies a (week, day, period) coordinate.
type Slot struct {
	Week   int
	Day    int
	Period int
}

// Index tracks schedule occupancy for fast constraint checks.
type Index struct {
	bySlot       map[Slot][]domain.ScheduleItem
	teacherDay   map[teacherDayKey]int // distinct lesson count per (teacher,week,day)
	groupDay     map[groupDayKey]int   // distinct lesson count per (group,week,day), subgroup-collapsed
	groupPeriods map[groupDayKey][]int // occupied periods per (group,week,day), for window scoring
}

type teacherDayKey struct {
	TeacherID string
	Week, Day int
}

type groupDayKey struct {
	GroupID   string
	Week, Day int
}

// New builds an empty index.
func New() *Index {
	return &Index{
		bySlot:       make(map[Slot][]domain.ScheduleItem),
		teacherDay:   make(map[teacherDayKey]int),
		groupDay:     make(map[groupDayKey]int),
		groupPeriods: make(map[groupDayKey][]int),
	}
}

// ItemsAt returns the items occupying a slot.
func (idx *Index) ItemsAt(slot Slot) []domain.ScheduleItem {
	return idx.bySlot[slot]
}

// TeacherDailyCount returns how many distinct lessons a teacher has on (week,day).
func (idx *Index) TeacherDailyCount(teacherID string, week, day int) int {
	return idx.teacherDay[teacherDayKey{TeacherID: teacherID, Week: week, Day: day}]
}

// GroupDailyCount returns the distinct-subgroup-collapsed lesson count for a
// group on (week,day), per invariant 7.
func (idx *Index) GroupDailyCount(groupID string, week, day int) int {
	return idx.groupDay[groupDayKey{GroupID: groupID, Week: week, Day: day}]
}

// GroupPeriods returns the sorted occupied periods for a group on (week,day).
func (idx *Index) GroupPeriods(groupID string, week, day int) []int {
	periods := idx.groupPeriods[groupDayKey{GroupID: groupID, Week: week, Day: day}]
	out := make([]int, len(periods))
	copy(out, periods)
	return out
}

// RoomFree reports whether roomID is unoccupied at slot.
func (idx *Index) RoomFree(slot Slot, roomID string) bool {
	for _, it := range idx.bySlot[slot] {
		if it.RoomID == roomID {
			return false
		}
	}
	return true
}

// TeacherFree reports whether teacherID is unoccupied at slot.
func (idx *Index) TeacherFree(slot Slot, teacherID string) bool {
	for _, it := range idx.bySlot[slot] {
		if it.TeacherID == teacherID {
			return false
		}
	}
	return true
}

// GroupConflict reports whether placing a candidate with the given occupants
// and (possibly empty) subgroupID at slot would violate invariant 3: a slot
// may hold a group twice only when both items are labs carrying distinct
// subgroups of that group, and the candidate itself must carry a subgroup.
func (idx *Index) GroupConflict(slot Slot, groupIDs []string, subgroupID string) bool {
	for _, it := range idx.bySlot[slot] {
		for _, g := range groupIDs {
			if !it.HasGroup(g) {
				continue
			}
			if subgroupID == "" || it.LessonType != domain.LessonLab || it.SubgroupID == "" || it.SubgroupID == subgroupID {
				return true
			}
		}
	}
	return false
}

// Add commits item to the index. Callers are responsible for having passed
// the constraint check first; Add performs no validation itself.
func (idx *Index) Add(item domain.ScheduleItem) {
	slot := Slot{Week: item.Week, Day: item.Day, Period: item.Period}
	idx.bySlot[slot] = append(idx.bySlot[slot], item)

	tKey := teacherDayKey{TeacherID: item.TeacherID, Week: item.Week, Day: item.Day}
	idx.teacherDay[tKey]++

	for _, g := range item.GroupIDs {
		gKey := groupDayKey{GroupID: g, Week: item.Week, Day: item.Day}
		if !idx.groupAlreadyCountedAt(gKey, item) {
			idx.groupDay[gKey]++
		}
		idx.groupPeriods[gKey] = insertSorted(idx.groupPeriods[gKey], item.Period)
	}
}

// groupAlreadyCountedAt reports whether the group already has an item at the
// same (week,day,period) as item before item itself was added — used to
// avoid double-counting parallel subgroup labs as two daily occurrences.
func (idx *Index) groupAlreadyCountedAt(key groupDayKey, item domain.ScheduleItem) bool {
	slot := Slot{Week: item.Week, Day: item.Day, Period: item.Period}
	for _, it := range idx.bySlot[slot] {
		if it.ID == item.ID {
			continue
		}
		if it.HasGroup(key.GroupID) {
			return true
		}
	}
	return false
}

// Remove reverses a prior Add, restoring the index to its pre-Add state.
func (idx *Index) Remove(item domain.ScheduleItem) {
	slot := Slot{Week: item.Week, Day: item.Day, Period: item.Period}
	idx.bySlot[slot] = removeItem(idx.bySlot[slot], item.ID)
	if len(idx.bySlot[slot]) == 0 {
		delete(idx.bySlot, slot)
	}

	tKey := teacherDayKey{TeacherID: item.TeacherID, Week: item.Week, Day: item.Day}
	idx.teacherDay[tKey]--
	if idx.teacherDay[tKey] <= 0 {
		delete(idx.teacherDay, tKey)
	}

	for _, g := range item.GroupIDs {
		gKey := groupDayKey{GroupID: g, Week: item.Week, Day: item.Day}
		if !idx.groupStillOccupiesSlot(gKey, slot, item.ID) {
			idx.groupDay[gKey]--
			if idx.groupDay[gKey] <= 0 {
				delete(idx.groupDay, gKey)
			}
			idx.groupPeriods[gKey] = removeInt(idx.groupPeriods[gKey], item.Period)
			if len(idx.groupPeriods[gKey]) == 0 {
				delete(idx.groupPeriods, gKey)
			}
		}
	}
}

func (idx *Index) groupStillOccupiesSlot(key groupDayKey, slot Slot, excludeID string) bool {
	for _, it := range idx.bySlot[slot] {
		if it.ID == excludeID {
			continue
		}
		if it.HasGroup(key.GroupID) {
			return true
		}
	}
	return false
}

func removeItem(items []domain.ScheduleItem, id string) []domain.ScheduleItem {
	out := items[:0]
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

func insertSorted(periods []int, p int) []int {
	for _, existing := range periods {
		if existing == p {
			return periods
		}
	}
	periods = append(periods, p)
	for i := len(periods) - 1; i > 0 && periods[i] < periods[i-1]; i-- {
		periods[i], periods[i-1] = periods[i-1], periods[i]
	}
	return periods
}

func removeInt(periods []int, p int) []int {
	out := periods[:0]
	for _, v := range periods {
		if v != p {
			out = append(out, v)
		}
	}
	return out
}
