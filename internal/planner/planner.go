// Package planner maps a course's lesson counts onto target weeks per its
// distribution policy, grounded on original_source/scheduler.py's
// _generate_weeks_with_frequency: even distribution spaces lessons at a
// fractional interval over the available weeks, frontLoaded/backLoaded bias
// the index with a power-1.5 curve, and block packs lessons consecutively
// from the start of the window.
package planner

import (
	"math"

	"github.com/noah-isme/timetable-core/internal/domain"
)

// AvailableWeeks returns the 1-based week numbers from course.StartWeek
// through settings.Weeks, inclusive.
func AvailableWeeks(settings domain.Settings, course domain.Course) []int {
	start := course.StartWeek
	if start < 1 {
		start = 1
	}
	if start > settings.Weeks {
		return nil
	}
	weeks := make([]int, 0, settings.Weeks-start+1)
	for w := start; w <= settings.Weeks; w++ {
		weeks = append(weeks, w)
	}
	return weeks
}

// TargetWeeks computes the target week for each of the count lessons of
// lessonType on course, following course.Distribution.
func TargetWeeks(settings domain.Settings, course domain.Course, lt domain.LessonType) []int {
	count := course.CountFor(lt)
	available := AvailableWeeks(settings, course)
	if count == 0 || len(available) == 0 {
		return nil
	}

	switch course.Distribution {
	case domain.DistributionFrontLoaded:
		return frontLoaded(available, count)
	case domain.DistributionBackLoaded:
		return backLoaded(available, count)
	case domain.DistributionBlock:
		return block(available, count)
	default: // even, and any unrecognized policy
		return even(available, count)
	}
}

func even(available []int, count int) []int {
	interval := float64(len(available)) / float64(count)
	weeks := make([]int, 0, count)
	for i := 0; i < count; i++ {
		idx := int(float64(i) * interval)
		weeks = append(weeks, pick(available, idx))
	}
	return weeks
}

func frontLoaded(available []int, count int) []int {
	weeks := make([]int, 0, count)
	for i := 0; i < count; i++ {
		idx := int(math.Pow(float64(i)/float64(count), 1.5) * float64(len(available)))
		weeks = append(weeks, pick(available, idx))
	}
	return weeks
}

func backLoaded(available []int, count int) []int {
	weeks := make([]int, 0, count)
	for i := 0; i < count; i++ {
		remaining := float64(count-i-1) / float64(count)
		idx := int((1 - math.Pow(remaining, 1.5)) * float64(len(available)))
		weeks = append(weeks, pick(available, idx))
	}
	return weeks
}

func block(available []int, count int) []int {
	n := count
	if n > len(available) {
		n = len(available)
	}
	weeks := make([]int, n)
	copy(weeks, available[:n])
	return weeks
}

func pick(available []int, idx int) int {
	if idx >= len(available) {
		idx = len(available) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return available[idx]
}

// StructuralCapacity returns the maximum number of non-conflicting slots a
// single lesson type can occupy across the run: periods * days * available
// weeks. Used by the pre-flight feasibility check (spec open question:
// reject N > P*D*|A| upfront rather than discover it lesson by lesson).
func StructuralCapacity(settings domain.Settings, course domain.Course) int {
	available := len(AvailableWeeks(settings, course))
	return settings.Periods * settings.Days * available
}
