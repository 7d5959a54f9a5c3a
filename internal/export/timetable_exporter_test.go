package export

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-core/internal/domain"
	pkgexport "github.com/noah-isme/timetable-core/pkg/export"
)

func sampleItems() []domain.ScheduleItem {
	return []domain.ScheduleItem{
		{ID: "i1", CourseID: "c1", LessonType: domain.LessonLecture, Week: 1, Day: 0, Period: 0, RoomID: "r1", GroupIDs: []string{"g1"}},
		{ID: "i2", CourseID: "c2", LessonType: domain.LessonLab, Week: 1, Day: 2, Period: 3, RoomID: "r2", GroupIDs: []string{"g2"}},
		{ID: "i3", CourseID: "c3", LessonType: domain.LessonLecture, Week: 2, Day: 0, Period: 0, RoomID: "r1", GroupIDs: []string{"g1"}},
	}
}

func TestBuildGridPlacesCellsAtZeroBasedDayAndPeriod(t *testing.T) {
	dataset := BuildGrid(sampleItems(), 1, 5, 6, "")

	require.Equal(t, []string{"Period", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}, dataset.Headers)
	require.Len(t, dataset.Rows, 6)
	require.Contains(t, dataset.Rows[0]["Monday"], "c1")
	require.Contains(t, dataset.Rows[3]["Wednesday"], "c2")
	require.Empty(t, dataset.Rows[0]["Tuesday"])
}

func TestBuildGridFiltersByWeekAndGroup(t *testing.T) {
	dataset := BuildGrid(sampleItems(), 1, 5, 6, "g2")

	require.Contains(t, dataset.Rows[3]["Wednesday"], "c2")
	require.Empty(t, dataset.Rows[0]["Monday"])
}

func TestBuildGridMergesOverlappingItemsInOneCell(t *testing.T) {
	items := []domain.ScheduleItem{
		{ID: "i1", CourseID: "c1", LessonType: domain.LessonLecture, Week: 1, Day: 0, Period: 0, RoomID: "r1", GroupIDs: []string{"g1"}},
		{ID: "i2", CourseID: "c2", LessonType: domain.LessonLecture, Week: 1, Day: 0, Period: 0, RoomID: "r2", GroupIDs: []string{"g2"}},
	}

	dataset := BuildGrid(items, 1, 5, 6, "")

	require.Contains(t, dataset.Rows[0]["Monday"], "c1")
	require.Contains(t, dataset.Rows[0]["Monday"], "c2")
	require.Contains(t, dataset.Rows[0]["Monday"], " / ")
}

func TestAffectedWeeksDedupsAndSorts(t *testing.T) {
	weeks := AffectedWeeks(sampleItems())

	require.Equal(t, []int{1, 2}, weeks)
}

type fakePDFRenderer struct {
	payload []byte
	err     error
}

func (f fakePDFRenderer) Render(pkgexport.Dataset, string) ([]byte, error) { return f.payload, f.err }

type fakeCSVRenderer struct {
	payload []byte
	err     error
}

func (f fakeCSVRenderer) Render(pkgexport.Dataset) ([]byte, error) { return f.payload, f.err }

func TestRenderPDFReturnsRendererPayload(t *testing.T) {
	exporter := NewTimetableExporter(fakePDFRenderer{payload: []byte("pdf-bytes")}, nil, nil)

	payload, err := exporter.RenderPDF(sampleItems(), 1, 5, 6, "g1", "term-1")

	require.NoError(t, err)
	require.Equal(t, []byte("pdf-bytes"), payload)
}

func TestRenderPDFPropagatesRendererError(t *testing.T) {
	exporter := NewTimetableExporter(fakePDFRenderer{err: errors.New("render failed")}, nil, nil)

	_, err := exporter.RenderPDF(sampleItems(), 1, 5, 6, "", "term-1")

	require.Error(t, err)
}

func TestRenderCSVReturnsRendererPayload(t *testing.T) {
	exporter := NewTimetableExporter(nil, fakeCSVRenderer{payload: []byte("csv-bytes")}, nil)

	payload, err := exporter.RenderCSV(sampleItems(), 1, 5, 6, "")

	require.NoError(t, err)
	require.Equal(t, []byte("csv-bytes"), payload)
}
