// Package priority computes the effective course priority used to order
// placement attempts, grounded on schedule_generator_service.go's course
// ordering pass which sorts by a single priority field before placement.
package priority

import "github.com/noah-isme/timetable-core/internal/domain"

// facultyWeight and courseWeight are the fixed blend coefficients of spec
// 4.3: effective priority is 70% the course's own weight and 30% the
// average priority of the faculties attached to its groups, when faculty
// prioritization is enabled and at least one group carries a faculty.
const (
	courseWeight  = 0.7
	facultyWeight = 0.3
)

// Effective computes p* for course against snapshot, following spec 4.3.
func Effective(snapshot domain.Snapshot, course domain.Course) float64 {
	if !snapshot.Settings.PrioritizeFaculty {
		return float64(course.Priority)
	}
	avg, ok := snapshot.AvgFacultyPriority(course.GroupIDs)
	if !ok {
		return float64(course.Priority)
	}
	return courseWeight*float64(course.Priority) + facultyWeight*avg
}

// Order returns course indices sorted by descending effective priority,
// stable on input order for ties so that placement order is deterministic
// given a deterministic course slice.
func Order(snapshot domain.Snapshot, courses []domain.Course) []int {
	scores := make([]float64, len(courses))
	for i, c := range courses {
		scores[i] = Effective(snapshot, c)
	}
	order := make([]int, len(courses))
	for i := range order {
		order[i] = i
	}
	// insertion sort: stable, and course slices in practice are small
	// enough (one semester's worth) that O(n^2) never matters.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && scores[order[j]] > scores[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	return order
}
