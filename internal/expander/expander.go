// Package expander turns a course's lecture/practice/lab counts into a flat
// list of lessons to place, resolving teacher assignment and — for labs on
// groups with subgroups — splitting into one lesson per subgroup. Grounded
// on original_source/scheduler.py's _create_frequency_based_schedule, which
// builds the same lessons_to_schedule list before handing it to placement.
package expander

import (
	"github.com/noah-isme/timetable-core/internal/domain"
	"github.com/noah-isme/timetable-core/internal/planner"
)

// Lesson is one unplaced lesson awaiting a slot.
type Lesson struct {
	CourseID      string
	LessonType    domain.LessonType
	TeacherID     string
	GroupIDs      []string
	TotalStudents int
	TargetWeek    int
	SubgroupID    string // empty unless this is a lab split for a subgroup
}

// Expand builds the full lesson list for course against snapshot. It never
// returns an error itself; unresolved teacher assignments are surfaced as
// GenerationErrors in the warnings slice so the caller can decide whether to
// skip just that lesson type or abort.
func Expand(snapshot domain.Snapshot, course domain.Course) (lessons []Lesson, warnings []*domain.GenerationError) {
	lessons = append(lessons, expandBroad(snapshot, course, domain.LessonLecture, &warnings)...)
	lessons = append(lessons, expandBroad(snapshot, course, domain.LessonPractice, &warnings)...)
	lessons = append(lessons, expandLabs(snapshot, course, &warnings)...)
	return lessons, warnings
}

func expandBroad(snapshot domain.Snapshot, course domain.Course, lt domain.LessonType, warnings *[]*domain.GenerationError) []Lesson {
	if course.CountFor(lt) == 0 {
		return nil
	}
	teacherID, ok := course.TeacherFor(lt, "")
	if !ok {
		*warnings = append(*warnings, domain.MissingTeacherAssignment(course.ID, lt, ""))
		return nil
	}
	weeks := planner.TargetWeeks(snapshot.Settings, course, lt)
	total := totalStudents(snapshot, course.GroupIDs)
	lessons := make([]Lesson, 0, len(weeks))
	for _, week := range weeks {
		lessons = append(lessons, Lesson{
			CourseID:      course.ID,
			LessonType:    lt,
			TeacherID:     teacherID,
			GroupIDs:      course.GroupIDs,
			TotalStudents: total,
			TargetWeek:    week,
		})
	}
	return lessons
}

func expandLabs(snapshot domain.Snapshot, course domain.Course, warnings *[]*domain.GenerationError) []Lesson {
	if course.LabCount == 0 {
		return nil
	}
	weeks := planner.TargetWeeks(snapshot.Settings, course, domain.LessonLab)

	var withSubgroups, without []string
	for _, gid := range course.GroupIDs {
		if g, ok := snapshot.Groups[gid]; ok && g.HasSubgroups() {
			withSubgroups = append(withSubgroups, gid)
		} else {
			without = append(without, gid)
		}
	}

	var lessons []Lesson
	for _, week := range weeks {
		for _, gid := range withSubgroups {
			g := snapshot.Groups[gid]
			for _, sg := range g.Subgroups {
				teacherID, ok := course.TeacherFor(domain.LessonLab, sg.ID)
				if !ok {
					*warnings = append(*warnings, domain.MissingTeacherAssignment(course.ID, domain.LessonLab, sg.ID))
					continue
				}
				lessons = append(lessons, Lesson{
					CourseID:      course.ID,
					LessonType:    domain.LessonLab,
					TeacherID:     teacherID,
					GroupIDs:      []string{gid},
					TotalStudents: sg.Size,
					TargetWeek:    week,
					SubgroupID:    sg.ID,
				})
			}
		}
		if len(without) > 0 {
			teacherID, ok := course.TeacherFor(domain.LessonLab, "")
			if !ok {
				*warnings = append(*warnings, domain.MissingTeacherAssignment(course.ID, domain.LessonLab, ""))
				continue
			}
			lessons = append(lessons, Lesson{
				CourseID:      course.ID,
				LessonType:    domain.LessonLab,
				TeacherID:     teacherID,
				GroupIDs:      without,
				TotalStudents: totalStudents(snapshot, without),
				TargetWeek:    week,
			})
		}
	}
	return lessons
}

func totalStudents(snapshot domain.Snapshot, groupIDs []string) int {
	total := 0
	for _, gid := range groupIDs {
		total += snapshot.GroupSize(gid, "")
	}
	return total
}
