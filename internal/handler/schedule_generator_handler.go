package handler

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-core/internal/cache"
	"github.com/noah-isme/timetable-core/internal/conflictindex"
	"github.com/noah-isme/timetable-core/internal/domain"
	"github.com/noah-isme/timetable-core/internal/dto"
	schedulermetrics "github.com/noah-isme/timetable-core/internal/metrics"
	internalmiddleware "github.com/noah-isme/timetable-core/internal/middleware"
	"github.com/noah-isme/timetable-core/internal/models"
	"github.com/noah-isme/timetable-core/internal/ports"
	"github.com/noah-isme/timetable-core/internal/scheduler"
	appErrors "github.com/noah-isme/timetable-core/pkg/errors"
	"github.com/noah-isme/timetable-core/pkg/response"
)

// schedulerFactory builds a Service scoped to one term's ports, grounded
// on the teacher's per-request repository construction: courses, rooms,
// teachers, groups and faculties are shared across terms, but settings and
// the schedule table are term-scoped, so the handler assembles the pair
// fresh per request instead of holding one Service for the process.
type schedulerFactory func(termID string) *scheduler.Service

// runRecorder persists the audit trail of a generation run.
type runRecorder interface {
	Record(ctx context.Context, termID string, seed int64, score float64, partial bool, warnings []*domain.GenerationError) error
	ListByTerm(ctx context.Context, termID string) ([]models.GenerationRunSummary, error)
}

// scheduleReaderFactory builds a ScheduleReader scoped to one term, used by
// the conflict-query and export endpoints.
type scheduleReaderFactory func(termID string) ports.ScheduleReader

// ScheduleGeneratorHandler exposes the scheduling core's HTTP trigger
// surface: generate, list runs, query conflicts. Grounded on
// schedule_generator_handler.go's thin gin-to-service wiring, with the
// class/term/subject request shapes replaced by spec.md §6's
// generate/Result contract.
type ScheduleGeneratorHandler struct {
	newScheduler schedulerFactory
	newReader    scheduleReaderFactory
	runs         runRecorder
	cache        *cache.Service
	metrics      *schedulermetrics.Collector
	logger       *zap.Logger
}

// NewScheduleGeneratorHandler constructs the handler.
func NewScheduleGeneratorHandler(
	newScheduler schedulerFactory,
	newReader scheduleReaderFactory,
	runs runRecorder,
	cacheSvc *cache.Service,
	metricsCollector *schedulermetrics.Collector,
	logger *zap.Logger,
) *ScheduleGeneratorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGeneratorHandler{
		newScheduler: newScheduler,
		newReader:    newReader,
		runs:         runs,
		cache:        cacheSvc,
		metrics:      metricsCollector,
		logger:       logger,
	}
}

// Generate godoc
// @Summary Trigger a schedule generation run for a term
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Generate schedule payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *ScheduleGeneratorHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}

	var seed int64
	if req.Seed != nil {
		seed = *req.Seed
	} else {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	svc := h.newScheduler(req.TermID)
	start := time.Now()
	result, err := svc.Generate(c.Request.Context(), rng)
	duration := time.Since(start)
	if err != nil {
		status := "failed"
		if h.metrics != nil {
			h.metrics.ObserveGeneration(status, duration, 0, 0)
		}
		response.Error(c, err)
		return
	}

	status := "completed"
	if result.Partial {
		status = "partial"
	}
	if h.metrics != nil {
		h.metrics.ObserveGeneration(status, duration, len(result.Items), result.Score)
		h.metrics.ObserveUnplaceableLesson(countUnplaceable(result.Warnings))
	}

	if h.runs != nil {
		if err := h.runs.Record(c.Request.Context(), req.TermID, seed, result.Score, result.Partial, result.Warnings); err != nil {
			h.logger.Warn("record generation run failed", zap.Error(err))
		}
	}
	if h.cache != nil {
		if err := h.cache.InvalidateTerm(c.Request.Context(), req.TermID); err != nil {
			h.logger.Warn("invalidate conflict cache failed", zap.Error(err))
		}
	}

	response.JSON(c, http.StatusOK, toGenerateResponse(status, result), nil)
}

// Runs godoc
// @Summary List generation run history for a term
// @Tags Scheduler
// @Produce json
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/runs [get]
func (h *ScheduleGeneratorHandler) Runs(c *gin.Context) {
	termID := c.Query("termId")
	if termID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "termId is required"))
		return
	}
	if h.runs == nil {
		response.JSON(c, http.StatusOK, []dto.GenerationRunSummaryResponse{}, nil)
		return
	}
	rows, err := h.runs.ListByTerm(c.Request.Context(), termID)
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]dto.GenerationRunSummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.GenerationRunSummaryResponse{
			ID:        r.ID,
			TermID:    r.TermID,
			Status:    string(r.Status),
			Score:     r.Score,
			CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	response.JSON(c, http.StatusOK, out, nil)
}

// Conflicts godoc
// @Summary Check a candidate slot for hard scheduling conflicts
// @Description Backs the manual-placement UI: given a candidate (week, day, period, teacher, room, groups), returns human-readable conflict descriptions against the committed schedule.
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.ConflictQueryRequest true "Conflict query payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/conflicts [post]
func (h *ScheduleGeneratorHandler) Conflicts(c *gin.Context) {
	var req dto.ConflictQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid conflict query payload"))
		return
	}

	query := cache.ConflictQuery{
		Week: req.Week, Day: req.Day, Period: req.Period,
		TeacherID: req.TeacherID, RoomID: req.RoomID,
		GroupIDs: req.GroupIDs, ExcludeItemID: req.ExcludeItemID,
	}

	if h.cache != nil {
		if cached, hit, err := h.cache.Lookup(c.Request.Context(), req.TermID, query); err == nil && hit {
			internalmiddleware.SetCacheHit(c, true)
			response.JSON(c, http.StatusOK, dto.ConflictQueryResponse{Conflicts: cached, Cached: true}, nil, internalmiddleware.ExtractMeta(c))
			return
		}
	}

	if h.newReader == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	items, err := h.newReader(req.TermID).ListSchedule(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	idx := conflictindex.New()
	for _, it := range items {
		idx.Add(it)
	}
	conflicts := idx.ConflictDescriptions(req.Week, req.Day, req.Period, req.TeacherID, req.RoomID, req.GroupIDs, req.ExcludeItemID)
	if conflicts == nil {
		conflicts = []string{}
	}

	if h.cache != nil {
		if err := h.cache.Store(c.Request.Context(), req.TermID, query, conflicts); err != nil {
			h.logger.Warn("store conflict cache entry failed", zap.Error(err))
		}
	}

	internalmiddleware.SetCacheHit(c, false)
	response.JSON(c, http.StatusOK, dto.ConflictQueryResponse{Conflicts: conflicts, Cached: false}, nil, internalmiddleware.ExtractMeta(c))
}

func toGenerateResponse(status string, result *scheduler.Result) dto.GenerateScheduleResponse {
	items := make([]dto.ScheduleItemResponse, 0, len(result.Items))
	for _, it := range result.Items {
		items = append(items, dto.ScheduleItemResponse{
			ID:         it.ID,
			CourseID:   it.CourseID,
			LessonType: string(it.LessonType),
			Week:       it.Week,
			Day:        it.Day,
			Period:     it.Period,
			RoomID:     it.RoomID,
			TeacherID:  it.TeacherID,
			GroupIDs:   it.GroupIDs,
			SubgroupID: it.SubgroupID,
			Manual:     it.Manual,
			Offset:     it.Offset,
		})
	}
	warnings := make([]string, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		warnings = append(warnings, w.Error())
	}
	return dto.GenerateScheduleResponse{
		RunID:    fmt.Sprintf("run-%d", time.Now().UnixNano()),
		Status:   status,
		Score:    result.Score,
		Partial:  result.Partial,
		Items:    items,
		Warnings: warnings,
	}
}

func countUnplaceable(warnings []*domain.GenerationError) int {
	n := 0
	for _, w := range warnings {
		if w.Kind == domain.KindUnplaceableLesson {
			n++
		}
	}
	return n
}
