package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-core/internal/dto"
	"github.com/noah-isme/timetable-core/internal/export"
	appErrors "github.com/noah-isme/timetable-core/pkg/errors"
	"github.com/noah-isme/timetable-core/pkg/response"
)

// ExportHandler renders a term's committed schedule to a printable
// timetable grid, the optional PDF/CSV "downstream report" consumer of
// the emitted schedule.
type ExportHandler struct {
	newReader scheduleReaderFactory
	exporter  *export.TimetableExporter
	days      int
	periods   int
	logger    *zap.Logger
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(newReader scheduleReaderFactory, exporter *export.TimetableExporter, days, periods int, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{newReader: newReader, exporter: exporter, days: days, periods: periods, logger: logger}
}

// Timetable godoc
// @Summary Render a term's week timetable as PDF or CSV
// @Tags Scheduler
// @Produce application/pdf
// @Param termId query string true "Term ID"
// @Param week query int true "Week number"
// @Param groupId query string false "Restrict to one group"
// @Param format query string false "pdf or csv" default(pdf)
// @Success 200 {file} binary
// @Router /schedules/export [get]
func (h *ExportHandler) Timetable(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	if req.Format == "" {
		req.Format = "pdf"
	}

	items, err := h.newReader(req.TermID).ListSchedule(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	var payload []byte
	var contentType, filename string
	switch req.Format {
	case "csv":
		payload, err = h.exporter.RenderCSV(items, req.Week, h.days, h.periods, req.GroupID)
		contentType, filename = "text/csv", "timetable.csv"
	default:
		payload, err = h.exporter.RenderPDF(items, req.Week, h.days, h.periods, req.GroupID, req.TermID)
		contentType, filename = "application/pdf", "timetable.pdf"
	}
	if err != nil {
		h.logger.Warn("render timetable export failed", zap.Error(err))
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to render export"))
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Data(http.StatusOK, contentType, payload)
}
