// Package domain holds the immutable, identifier-keyed entities the
// scheduling core operates on. Entities are plain value records: no
// back-references, no hidden mutation, nothing the core itself owns
// beyond the snapshot it was handed for a single generation run.
package domain

// LessonType enumerates the three kinds of lesson a course can require.
type LessonType string

const (
	LessonLecture  LessonType = "lecture"
	LessonPractice LessonType = "practice"
	LessonLab      LessonType = "lab"
)

// DistributionPolicy governs how a course's lesson count maps onto weeks.
type DistributionPolicy string

const (
	DistributionEven        DistributionPolicy = "even"
	DistributionFrontLoaded DistributionPolicy = "frontLoaded"
	DistributionBackLoaded  DistributionPolicy = "backLoaded"
	DistributionBlock       DistributionPolicy = "block"
)

// PreferDistribution governs the placer/evaluator's period-of-day bias.
type PreferDistribution string

const (
	PreferBalanced  PreferDistribution = "balanced"
	PreferMorning   PreferDistribution = "morning"
	PreferAfternoon PreferDistribution = "afternoon"
)

// Faculty groups courses/teachers under a departmental priority weight.
type Faculty struct {
	ID       string
	Name     string
	Priority int // 1..10
}

// Teacher is an instructor with scheduling preferences and a daily cap.
type Teacher struct {
	ID                string
	Name              string
	PreferredWeekdays map[int]struct{} // subset of 0..D-1
	PreferredPeriods  map[int]struct{} // subset of 0..P-1
	MaxPerDay         int              // 1..P
}

// PrefersDay reports whether the teacher listed day as preferred.
func (t Teacher) PrefersDay(day int) bool {
	_, ok := t.PreferredWeekdays[day]
	return ok
}

// PrefersPeriod reports whether the teacher listed period as preferred.
func (t Teacher) PrefersPeriod(period int) bool {
	_, ok := t.PreferredPeriods[period]
	return ok
}

// LabSubgroup is a fixed partition cell of a Group, used only for labs.
type LabSubgroup struct {
	ID      string
	GroupID string
	Ordinal int // 1..k
	Size    int
}

// Group is a cohort of students, optionally split into lab subgroups.
type Group struct {
	ID               string
	Name             string
	Size             int
	FacultyID        string // empty when no faculty attached
	SubgroupCount    int    // k, 1 when the group has no labs subgroups
	MaxPerDay        int
	PreferredPeriods map[int]struct{}
	Subgroups        []LabSubgroup // len == SubgroupCount when SubgroupCount > 1
}

// HasSubgroups reports whether the group splits into parallel lab subgroups.
func (g Group) HasSubgroups() bool {
	return g.SubgroupCount > 1
}

// BuildSubgroups partitions Size into SubgroupCount cells differing by at
// most one member, per spec: subgroup i receives floor(size/k) + (i<=size%k).
func BuildSubgroups(groupID string, size, k int) []LabSubgroup {
	if k <= 1 {
		return nil
	}
	base := size / k
	extra := size % k
	subgroups := make([]LabSubgroup, 0, k)
	for i := 1; i <= k; i++ {
		sz := base
		if i <= extra {
			sz++
		}
		subgroups = append(subgroups, LabSubgroup{
			ID:      groupSubgroupID(groupID, i),
			GroupID: groupID,
			Ordinal: i,
			Size:    sz,
		})
	}
	return subgroups
}

func groupSubgroupID(groupID string, ordinal int) string {
	return groupID + "#" + itoa(ordinal)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Room is a physical teaching space with capability flags.
type Room struct {
	ID            string
	Name          string
	Capacity      int
	IsLectureHall bool
	IsLab         bool
	IsComputerLab bool
}

// SuitsLessonType reports whether the room's capability matches lessonType.
// Practice lessons have no capability constraint (invariant 4).
func (r Room) SuitsLessonType(lt LessonType) bool {
	switch lt {
	case LessonLecture:
		return r.IsLectureHall
	case LessonLab:
		return r.IsLab
	default:
		return true
	}
}

// TeacherKey identifies the teacher configured for a (lessonType, subgroup?)
// pair on a course. Empty SubgroupID means the generic/broad assignment.
type TeacherKey struct {
	LessonType LessonType
	SubgroupID string
}

// Course is a subject offered to one or more groups over the term.
type Course struct {
	ID                 string
	Name               string
	LectureCount       int
	PracticeCount      int
	LabCount           int
	StartWeek          int
	Distribution       DistributionPolicy
	Priority           int // 1..10
	GroupIDs           []string
	PreferredRoomIDs   []string
	TeacherAssignments map[TeacherKey]string // -> teacher ID
}

// CountFor returns the lesson count for the given lesson type.
func (c Course) CountFor(lt LessonType) int {
	switch lt {
	case LessonLecture:
		return c.LectureCount
	case LessonPractice:
		return c.PracticeCount
	case LessonLab:
		return c.LabCount
	default:
		return 0
	}
}

// TeacherFor resolves the teacher ID for (lessonType, subgroupID). When
// subgroupID is non-empty and no specific mapping exists, it falls back to
// the generic mapping for that lesson type (spec 4.2).
func (c Course) TeacherFor(lt LessonType, subgroupID string) (string, bool) {
	if subgroupID != "" {
		if id, ok := c.TeacherAssignments[TeacherKey{LessonType: lt, SubgroupID: subgroupID}]; ok {
			return id, true
		}
	}
	id, ok := c.TeacherAssignments[TeacherKey{LessonType: lt}]
	return id, ok
}

// Settings are the run-wide scheduling parameters (spec 3).
type Settings struct {
	Weeks               int
	Days                int
	Periods             int
	MaxPerDayGlobal     int
	PreferDistribution  PreferDistribution
	AvoidWindows        bool
	PrioritizeFaculty   bool
	RespectTeacherPrefs bool
	OptimizeRoomUsage   bool
}

// ScheduleItem is one concrete lesson placement (spec 3).
type ScheduleItem struct {
	ID         string
	CourseID   string
	LessonType LessonType
	Week       int
	Day        int
	Period     int
	RoomID     string
	TeacherID  string
	GroupIDs   []string
	SubgroupID string // empty unless this is a subgroup-labeled lab
	Manual     bool
	// Offset is the signed week offset from the lesson's original target
	// week (0, ±1, ±2) that the placer's neighbour search actually used
	// (spec 4.4/9's offset-search reporting decision). Zero for manual
	// items and for any item placed on its first attempt.
	Offset int
}

// HasGroup reports whether g is among the item's occupant groups.
func (s ScheduleItem) HasGroup(g string) bool {
	for _, id := range s.GroupIDs {
		if id == g {
			return true
		}
	}
	return false
}
