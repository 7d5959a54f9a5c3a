// Package export renders an accepted schedule to a printable weekly grid,
// grounded on internal/service/export_service.go's dataset-then-render
// pipeline and reusing pkg/export's generic Dataset/PDFExporter/CSVExporter
// rather than duplicating gofpdf cell layout code. Where the teacher built
// datasets from attendance/grade/behavior repositories, this package builds
// one from a committed []domain.ScheduleItem for a single (week, group)
// view — the "downstream report" spec.md scopes out of the core itself.
package export

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-core/internal/domain"
	pkgexport "github.com/noah-isme/timetable-core/pkg/export"
)

var weekdayNames = []string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// pdfRenderer and csvRenderer mirror export_service.go's narrow rendering
// interfaces, letting tests substitute fakes without a real gofpdf call.
type pdfRenderer interface {
	Render(data pkgexport.Dataset, title string) ([]byte, error)
}

type csvRenderer interface {
	Render(data pkgexport.Dataset) ([]byte, error)
}

// TimetableExporter renders a week's schedule for a group into PDF or CSV.
type TimetableExporter struct {
	pdf    pdfRenderer
	csv    csvRenderer
	logger *zap.Logger
}

// NewTimetableExporter constructs a TimetableExporter, defaulting to the
// shared gofpdf/encoding-csv renderers when none are supplied.
func NewTimetableExporter(pdf pdfRenderer, csv csvRenderer, logger *zap.Logger) *TimetableExporter {
	if pdf == nil {
		pdf = pkgexport.NewPDFExporter()
	}
	if csv == nil {
		csv = pkgexport.NewCSVExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableExporter{pdf: pdf, csv: csv, logger: logger}
}

// BuildGrid projects items for one week into a period-by-day Dataset; when
// groupID is non-empty only items occupying that group are included. Cells
// read "<course> <lesson-type-initial> · room <room>".
func BuildGrid(items []domain.ScheduleItem, week int, days, periods int, groupID string) pkgexport.Dataset {
	headers := make([]string, 0, days+1)
	headers = append(headers, "Period")
	dayHeader := make([]string, days)
	for d := 0; d < days; d++ {
		dayHeader[d] = dayName(d + 1)
		headers = append(headers, dayHeader[d])
	}

	type cellKey struct{ day, period int }
	cells := make(map[cellKey]string, len(items))
	for _, it := range items {
		if it.Week != week {
			continue
		}
		if groupID != "" && !it.HasGroup(groupID) {
			continue
		}
		key := cellKey{day: it.Day, period: it.Period}
		label := fmt.Sprintf("%s %s · room %s", it.CourseID, lessonInitial(it.LessonType), it.RoomID)
		if existing, ok := cells[key]; ok {
			cells[key] = existing + " / " + label
		} else {
			cells[key] = label
		}
	}

	rows := make([]map[string]string, 0, periods)
	for p := 0; p < periods; p++ {
		row := map[string]string{"Period": fmt.Sprintf("%d", p+1)}
		for d := 0; d < days; d++ {
			row[dayHeader[d]] = cells[cellKey{day: d, period: p}]
		}
		rows = append(rows, row)
	}

	return pkgexport.Dataset{Headers: headers, Rows: rows}
}

// RenderPDF builds and renders a week/group timetable grid as PDF bytes.
func (e *TimetableExporter) RenderPDF(items []domain.ScheduleItem, week int, days, periods int, groupID, termID string) ([]byte, error) {
	dataset := BuildGrid(items, week, days, periods, groupID)
	title := fmt.Sprintf("Timetable %s — Week %d", termID, week)
	if groupID != "" {
		title = fmt.Sprintf("%s — %s", title, groupID)
	}
	payload, err := e.pdf.Render(dataset, title)
	if err != nil {
		e.logger.Warn("render timetable pdf failed", zap.Int("week", week), zap.Error(err))
		return nil, fmt.Errorf("render timetable pdf: %w", err)
	}
	return payload, nil
}

// RenderCSV builds and renders a week/group timetable grid as CSV bytes.
func (e *TimetableExporter) RenderCSV(items []domain.ScheduleItem, week int, days, periods int, groupID string) ([]byte, error) {
	dataset := BuildGrid(items, week, days, periods, groupID)
	payload, err := e.csv.Render(dataset)
	if err != nil {
		e.logger.Warn("render timetable csv failed", zap.Int("week", week), zap.Error(err))
		return nil, fmt.Errorf("render timetable csv: %w", err)
	}
	return payload, nil
}

// AffectedWeeks returns the sorted, deduplicated set of weeks present in items.
func AffectedWeeks(items []domain.ScheduleItem) []int {
	seen := make(map[int]struct{})
	for _, it := range items {
		seen[it.Week] = struct{}{}
	}
	weeks := make([]int, 0, len(seen))
	for w := range seen {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)
	return weeks
}

func dayName(d int) string {
	if d < 0 || d >= len(weekdayNames) {
		return fmt.Sprintf("Day %d", d)
	}
	if weekdayNames[d] == "" {
		return fmt.Sprintf("Day %d", d)
	}
	return weekdayNames[d]
}

func lessonInitial(lt domain.LessonType) string {
	s := strings.ToUpper(string(lt))
	if len(s) == 0 {
		return ""
	}
	return s[:1]
}
