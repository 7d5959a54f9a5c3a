package export

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPDFExporterRendersNonEmptyDocument(t *testing.T) {
	exporter := NewPDFExporter()
	data := Dataset{
		Headers: []string{"Period", "Monday"},
		Rows:    []map[string]string{{"Period": "1", "Monday": "c1 L · room r1"}},
	}

	out, err := exporter.Render(data, "Timetable term-1 — Week 1")

	require.NoError(t, err)
	require.NotEmpty(t, out)
	require.Equal(t, "%PDF", string(out[:4]))
}

func TestPDFExporterRejectsMissingHeaders(t *testing.T) {
	exporter := NewPDFExporter()

	_, err := exporter.Render(Dataset{}, "title")

	require.Error(t, err)
}
