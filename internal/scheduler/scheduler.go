// Package scheduler orchestrates the full generation pipeline: priority
// ordering, frequency planning, lesson expansion, placement, annealing and
// emission. Grounded on ScheduleGeneratorService.Generate's wiring style
// (schedule_generator_service.go) — construct from narrow reader/writer
// ports, validate, run the pipeline, return a typed result — generalized
// from the teacher's single-class/term proposal flow to spec 6's
// generate(snapshot, settings, rng) -> Result<Schedule, Error> library call.
package scheduler

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-core/internal/annealer"
	"github.com/noah-isme/timetable-core/internal/conflictindex"
	"github.com/noah-isme/timetable-core/internal/domain"
	"github.com/noah-isme/timetable-core/internal/emitter"
	"github.com/noah-isme/timetable-core/internal/expander"
	"github.com/noah-isme/timetable-core/internal/placer"
	"github.com/noah-isme/timetable-core/internal/planner"
	"github.com/noah-isme/timetable-core/internal/ports"
	"github.com/noah-isme/timetable-core/internal/priority"
)

// Budget bounds one generation run, mirroring spec 4.7's "45s / 1500
// iterations" example cutoffs.
type Budget struct {
	MaxDuration   time.Duration
	MaxIterations int
}

// DefaultBudget matches the spec's illustrative cutoffs.
func DefaultBudget() Budget {
	return Budget{MaxDuration: 45 * time.Second, MaxIterations: 1500}
}

// Result is the outcome of one generation run.
type Result struct {
	Items    []domain.ScheduleItem
	Warnings []*domain.GenerationError
	Score    float64
	Partial  bool // true when the wall-clock deadline was hit
}

// Service wires the ports the core depends on and exposes Generate as the
// single library entry point named by spec 6.
type Service struct {
	courses  ports.CourseReader
	rooms    ports.RoomReader
	teachers ports.TeacherReader
	groups   ports.GroupReader
	facs     ports.FacultyReader
	settings ports.SettingsReader
	manual   ports.ManualItemReader
	writer   ports.ScheduleWriter
	logger   *zap.Logger
	budget   Budget
}

// New builds a Service from its ports. A nil logger is replaced with a
// no-op logger, matching the teacher's nil-guard convention.
func New(
	courses ports.CourseReader,
	rooms ports.RoomReader,
	teachers ports.TeacherReader,
	groups ports.GroupReader,
	facs ports.FacultyReader,
	settings ports.SettingsReader,
	manual ports.ManualItemReader,
	writer ports.ScheduleWriter,
	logger *zap.Logger,
	budget Budget,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if budget.MaxIterations <= 0 || budget.MaxDuration <= 0 {
		budget = DefaultBudget()
	}
	return &Service{
		courses: courses, rooms: rooms, teachers: teachers, groups: groups,
		facs: facs, settings: settings, manual: manual, writer: writer,
		logger: logger, budget: budget,
	}
}

// Generate loads a fresh snapshot from the wired ports and runs the full
// pipeline, writing the accepted non-manual schedule through the writer
// port unless a fatal error is encountered.
func (s *Service) Generate(ctx context.Context, rng *rand.Rand) (*Result, error) {
	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	result, genErr := GenerateFromSnapshot(snapshot, s.budget, rng)
	if genErr != nil {
		s.logger.Error("schedule generation failed", zap.Error(genErr))
		return nil, genErr
	}
	for _, w := range result.Warnings {
		s.logger.Warn("schedule generation warning", zap.String("kind", string(w.Kind)), zap.String("message", w.Error()))
	}
	if s.writer != nil {
		if err := emitter.Emit(ctx, s.writer, result.Items); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *Service) loadSnapshot(ctx context.Context) (domain.Snapshot, error) {
	settings, err := s.settings.LoadSettings(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	courses, err := s.courses.ListCourses(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	teachers, err := s.teachers.ListTeachers(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	groups, err := s.groups.ListGroups(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	var faculties []domain.Faculty
	if s.facs != nil {
		faculties, err = s.facs.ListFaculties(ctx)
		if err != nil {
			return domain.Snapshot{}, err
		}
	}
	var manual []domain.ScheduleItem
	if s.manual != nil {
		manual, err = s.manual.ListManualItems(ctx)
		if err != nil {
			return domain.Snapshot{}, err
		}
	}
	return domain.NewSnapshot(settings, faculties, teachers, groups, rooms, courses, manual), nil
}

// GenerateFromSnapshot runs the pipeline purely against an in-memory
// snapshot, with no I/O — the shape named directly in spec 6.
func GenerateFromSnapshot(snapshot domain.Snapshot, budget Budget, rng *rand.Rand) (*Result, error) {
	if len(snapshot.Courses) == 0 || len(snapshot.Rooms) == 0 {
		return nil, domain.EmptyDomain("no courses or no rooms in snapshot")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	idx := conflictindex.New()
	for _, m := range snapshot.ManualItems {
		idx.Add(m)
	}

	var warnings []*domain.GenerationError
	var placed []domain.ScheduleItem
	placed = append(placed, snapshot.ManualItems...)

	seq := 0
	nextID := func() string {
		seq++
		return sequentialID(seq)
	}

	order := priority.Order(snapshot, snapshot.Courses)
	deadline := time.Now().Add(budget.MaxDuration)
	partial := false

	for _, ci := range order {
		course := snapshot.Courses[ci]
		if time.Now().After(deadline) {
			warnings = append(warnings, domain.DeadlineExceeded())
			partial = true
			break
		}

		infeasibleTypes := make(map[domain.LessonType]bool)
		if infeasible := checkStructuralCapacity(snapshot, course); infeasible != nil {
			warnings = append(warnings, infeasible...)
			for _, w := range infeasible {
				infeasibleTypes[w.LessonType] = true
			}
		}

		lessons, expandWarnings := expander.Expand(snapshot, course)
		warnings = append(warnings, expandWarnings...)

		for _, lesson := range lessons {
			if infeasibleTypes[lesson.LessonType] {
				// Rejected up front by checkStructuralCapacity: placing it
				// anyway would only produce the wall of UnplaceableLesson
				// warnings the pre-flight check exists to avoid.
				continue
			}
			outcome, ok := placer.Place(idx, snapshot, lesson, nextID, rng)
			if !ok {
				warnings = append(warnings, domain.UnplaceableLesson(lesson.CourseID, lesson.LessonType, lesson.TargetWeek))
				continue
			}
			placed = append(placed, outcome.Item)
		}
	}

	if err := checkInvariants(snapshot, placed); err != nil {
		return nil, err
	}

	best := annealer.Run(snapshot, idx, placed, annealer.Budget{MaxIterations: budget.MaxIterations}, func(int) bool {
		return time.Now().After(deadline)
	}, rng)

	if err := checkInvariants(snapshot, best); err != nil {
		return nil, err
	}

	return &Result{
		Items:    best,
		Warnings: warnings,
		Score:    scoreOf(snapshot, best),
		Partial:  partial,
	}, nil
}

func checkStructuralCapacity(snapshot domain.Snapshot, course domain.Course) []*domain.GenerationError {
	var errs []*domain.GenerationError
	for _, lt := range []domain.LessonType{domain.LessonLecture, domain.LessonPractice, domain.LessonLab} {
		n := course.CountFor(lt)
		if n == 0 {
			continue
		}
		capacity := planner.StructuralCapacity(snapshot.Settings, course)
		if n > capacity {
			errs = append(errs, domain.StructurallyInfeasible(course.ID, lt, n, capacity))
		}
	}
	return errs
}

func sequentialID(n int) string {
	const alphabet = "0123456789"
	if n == 0 {
		return "item-0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = alphabet[n%10]
		n /= 10
	}
	return "item-" + string(buf[i:])
}
