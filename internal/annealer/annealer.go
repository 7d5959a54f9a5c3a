// Package annealer improves a placed schedule with pairwise slot swaps
// under a Metropolis acceptance criterion, grounded on
// original_source/scheduler.py's _optimize_schedule/_make_random_swap/
// _undo_last_swap: temperature starts at 1.0, cools by a factor of 0.99 per
// iteration, and a worsening swap is kept with probability
// exp(delta/temperature). Generalized from the original's deep-copy-the-
// whole-schedule undo to explicit remove/insert pairs against a
// conflictindex.Index, since a full snapshot copy per iteration does not
// scale with (week,day,period) cardinality.
package annealer

import (
	"math"
	"math/rand"

	"github.com/noah-isme/timetable-core/internal/conflictindex"
	"github.com/noah-isme/timetable-core/internal/domain"
	"github.com/noah-isme/timetable-core/internal/objective"
)

const (
	initialTemperature = 1.0
	coolingRate        = 0.99
)

// Budget bounds the optimization loop, matching the teacher's dual
// wall-clock/iteration cap. Wall-clock is enforced by the caller through
// shouldStop so this package has no direct time dependency.
type Budget struct {
	MaxIterations int
}

// Run performs the annealing loop against the current set of non-manual
// items, using idx for constraint checks and manual items (already present
// in idx) for exclusion. It returns the best-seen non-manual item set.
//
// deadline is checked by the caller via shouldStop, invoked once per
// iteration so the annealer has no direct time.Now dependency — this keeps
// the package pure with respect to wall-clock and trivially testable.
func Run(snapshot domain.Snapshot, idx *conflictindex.Index, items []domain.ScheduleItem, budget Budget, shouldStop func(iteration int) bool, rng *rand.Rand) []domain.ScheduleItem {
	if len(items) < 2 {
		return items
	}

	current := append([]domain.ScheduleItem(nil), items...)
	currentScore := objective.Score(snapshot, current)
	best := append([]domain.ScheduleItem(nil), current...)
	bestScore := currentScore
	temperature := initialTemperature

	for iteration := 0; iteration < budget.MaxIterations; iteration++ {
		if shouldStop(iteration) {
			break
		}

		swapped, newItems, ok := trySwap(snapshot, idx, current, rng)
		if ok {
			newScore := objective.Score(snapshot, newItems)
			if newScore > currentScore {
				current = newItems
				currentScore = newScore
				if newScore > bestScore {
					best = append([]domain.ScheduleItem(nil), newItems...)
					bestScore = newScore
				}
			} else {
				delta := newScore - currentScore
				acceptance := math.Exp(delta / temperature)
				if rng.Float64() < acceptance {
					current = newItems
					currentScore = newScore
				} else {
					undoSwap(idx, swapped)
				}
			}
		}

		temperature *= coolingRate
	}

	return best
}

type swapRecord struct {
	removed []domain.ScheduleItem
	added   []domain.ScheduleItem
}

// trySwap implements spec 4.7 step 1-2: pick two distinct occupied slots,
// one non-manual item each, tentatively move each into the other's slot,
// and commit only if both placements pass the hard constraint check.
// Slots are sampled uniformly first and an item is picked within each slot
// second, matching the original's random.sample(time_keys, 2) — sampling
// over flat items instead would over-weight slots with more than one
// occupant (parallel subgroup labs).
func trySwap(snapshot domain.Snapshot, idx *conflictindex.Index, items []domain.ScheduleItem, rng *rand.Rand) (swapRecord, []domain.ScheduleItem, bool) {
	if len(items) < 2 {
		return swapRecord{}, nil, false
	}

	bySlot := make(map[conflictindex.Slot][]int)
	for i, it := range items {
		slot := conflictindex.Slot{Week: it.Week, Day: it.Day, Period: it.Period}
		bySlot[slot] = append(bySlot[slot], i)
	}
	if len(bySlot) < 2 {
		return swapRecord{}, nil, false
	}

	slots := make([]conflictindex.Slot, 0, len(bySlot))
	for slot := range bySlot {
		slots = append(slots, slot)
	}
	si := rng.Intn(len(slots))
	sj := rng.Intn(len(slots) - 1)
	if sj >= si {
		sj++
	}

	occupantsA, occupantsB := bySlot[slots[si]], bySlot[slots[sj]]
	i := occupantsA[rng.Intn(len(occupantsA))]
	j := occupantsB[rng.Intn(len(occupantsB))]

	a, b := items[i], items[j]
	if a.Manual || b.Manual {
		return swapRecord{}, nil, false
	}

	idx.Remove(a)
	idx.Remove(b)

	slotA := conflictindex.Slot{Week: a.Week, Day: a.Day, Period: a.Period}
	slotB := conflictindex.Slot{Week: b.Week, Day: b.Day, Period: b.Period}

	roomsForA := roomsSuiting(snapshot, b.LessonType, occupantTotal(snapshot, b))
	roomsForB := roomsSuiting(snapshot, a.LessonType, occupantTotal(snapshot, a))

	canA := len(roomsForA) > 0 && checkHard(snapshot, idx, slotA, b, roomsForA)
	canB := len(roomsForB) > 0 && checkHard(snapshot, idx, slotB, a, roomsForB)

	if !canA || !canB {
		idx.Add(a)
		idx.Add(b)
		return swapRecord{}, nil, false
	}

	roomA, okA := pickRoom(roomsForA, idx, slotA, occupantTotal(snapshot, b))
	roomB, okB := pickRoom(roomsForB, idx, slotB, occupantTotal(snapshot, a))
	if !okA || !okB {
		idx.Add(a)
		idx.Add(b)
		return swapRecord{}, nil, false
	}

	newB := b
	newB.Week, newB.Day, newB.Period, newB.RoomID = a.Week, a.Day, a.Period, roomA.ID
	newA := a
	newA.Week, newA.Day, newA.Period, newA.RoomID = b.Week, b.Day, b.Period, roomB.ID

	idx.Add(newA)
	idx.Add(newB)

	next := append([]domain.ScheduleItem(nil), items...)
	next[i] = newA
	next[j] = newB

	return swapRecord{removed: []domain.ScheduleItem{a, b}, added: []domain.ScheduleItem{newA, newB}}, next, true
}

// undoSwap reverses a committed swap in idx, restoring the pre-swap items.
func undoSwap(idx *conflictindex.Index, rec swapRecord) {
	for _, it := range rec.added {
		idx.Remove(it)
	}
	for _, it := range rec.removed {
		idx.Add(it)
	}
}

func checkHard(snapshot domain.Snapshot, idx *conflictindex.Index, slot conflictindex.Slot, it domain.ScheduleItem, rooms []domain.Room) bool {
	if !idx.TeacherFree(slot, it.TeacherID) {
		return false
	}
	if idx.GroupConflict(slot, it.GroupIDs, it.SubgroupID) {
		return false
	}
	roomFree := false
	for _, r := range rooms {
		if idx.RoomFree(slot, r.ID) {
			roomFree = true
			break
		}
	}
	if !roomFree {
		return false
	}

	teacher := snapshot.Teachers[it.TeacherID]
	maxTeacher := snapshot.Settings.MaxPerDayGlobal
	if teacher.MaxPerDay > 0 && teacher.MaxPerDay < maxTeacher {
		maxTeacher = teacher.MaxPerDay
	}
	if idx.TeacherDailyCount(it.TeacherID, slot.Week, slot.Day) >= maxTeacher {
		return false
	}

	for _, gid := range it.GroupIDs {
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

func roomsSuiting(snapshot domain.Snapshot, lt domain.LessonType, totalStudents int) []domain.Room {
	out := make([]domain.Room, 0)
	for _, r := range snapshot.AllRooms() {
		if r.Capacity >= totalStudents && r.SuitsLessonType(lt) {
			out = append(out, r)
		}
	}
	return out
}

func pickRoom(rooms []domain.Room, idx *conflictindex.Index, slot conflictindex.Slot, totalStudents int) (domain.Room, bool) {
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

func occupantTotal(snapshot domain.Snapshot, it domain.ScheduleItem) int {
	total := 0
	for _, g := range it.GroupIDs {
		total += snapshot.GroupSize(g, it.SubgroupID)
	}
	return total
}
