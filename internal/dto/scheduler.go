package dto

// GenerateScheduleRequest triggers one scheduler.Generate run for a term.
// Seed is the only optional override, primarily for reproducible test runs
// (spec.md §5's seed requirement); grid dimensions always come from the
// term's persisted Settings row.
type GenerateScheduleRequest struct {
	TermID string `json:"termId" validate:"required"`
	Seed   *int64 `json:"seed,omitempty" validate:"omitempty"`
}

// ScheduleItemResponse is the wire shape of one placed lesson.
type ScheduleItemResponse struct {
	ID         string   `json:"id"`
	CourseID   string   `json:"courseId"`
	LessonType string   `json:"lessonType"`
	Week       int      `json:"week"`
	Day        int      `json:"day"`
	Period     int      `json:"period"`
	RoomID     string   `json:"roomId"`
	TeacherID  string   `json:"teacherId"`
	GroupIDs   []string `json:"groupIds"`
	SubgroupID string   `json:"subgroupId,omitempty"`
	Manual     bool     `json:"manual"`
	// Offset is the signed week offset from the lesson's target week that
	// the placer actually used (0, ±1, ±2); see spec.md §9's first open
	// question.
	Offset int `json:"offset,omitempty"`
}

// GenerateScheduleResponse returns the outcome of one generation run.
type GenerateScheduleResponse struct {
	RunID    string                 `json:"runId"`
	Status   string                 `json:"status"`
	Score    float64                `json:"score"`
	Partial  bool                   `json:"partial"`
	Items    []ScheduleItemResponse `json:"items"`
	Warnings []string               `json:"warnings,omitempty"`
}

// GenerationRunSummaryResponse projects one historical run for list views.
type GenerationRunSummaryResponse struct {
	ID        string  `json:"id"`
	TermID    string  `json:"termId"`
	Status    string  `json:"status"`
	Score     float64 `json:"score"`
	CreatedAt string  `json:"createdAt"`
}

// ConflictQueryRequest is spec.md §6's manual-placement conflict predicate
// input: "given (week, day, period, teacherId, roomId, groupIds,
// excludeItemId?), return the list of human-readable conflict
// descriptions".
type ConflictQueryRequest struct {
	TermID        string   `json:"termId" validate:"required"`
	Week          int      `json:"week" validate:"required,min=1"`
	Day           int      `json:"day" validate:"required,min=1,max=7"`
	Period        int      `json:"period" validate:"required,min=1"`
	TeacherID     string   `json:"teacherId"`
	RoomID        string   `json:"roomId"`
	GroupIDs      []string `json:"groupIds"`
	ExcludeItemID string   `json:"excludeItemId,omitempty"`
}

// ConflictQueryResponse reports every hard conflict found for the query.
type ConflictQueryResponse struct {
	Conflicts []string `json:"conflicts"`
	Cached    bool     `json:"cached"`
}

// ExportRequest asks for a rendered timetable view of one term/week.
type ExportRequest struct {
	TermID  string `form:"termId" json:"termId" validate:"required"`
	Week    int    `form:"week" json:"week" validate:"required,min=1"`
	GroupID string `form:"groupId" json:"groupId"`
	Format  string `form:"format" json:"format" validate:"omitempty,oneof=pdf csv"`
}
