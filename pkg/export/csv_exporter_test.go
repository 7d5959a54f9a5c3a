package export

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSVExporterRendersHeadersAndRows(t *testing.T) {
	exporter := NewCSVExporter()
	data := Dataset{
		Headers: []string{"Period", "Monday"},
		Rows: []map[string]string{
			{"Period": "1", "Monday": "c1"},
			{"Period": "2", "Monday": ""},
		},
	}

	out, err := exporter.Render(data)

	require.NoError(t, err)
	require.Equal(t, "Period,Monday\n1,c1\n2,\n", string(out))
}

func TestCSVExporterRejectsMissingHeaders(t *testing.T) {
	exporter := NewCSVExporter()

	_, err := exporter.Render(Dataset{})

	require.Error(t, err)
}
