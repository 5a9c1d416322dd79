package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Assignments",
		Headers: []string{"Student", "Date", "Tier"},
		Rows: []map[string]string{
			{"Student": "Ada", "Date": "2025-12-01", "Tier": "1"},
			{"Student": "Grace", "Date": "2025-12-02"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Student,Date,Tier\nAda,2025-12-01,1\nGrace,2025-12-02,\n", string(out))

	_, err = NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter("Assignments").Render(sampleDataset())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Assignments"}, f.GetSheetList())
	rows, err := f.GetRows("Assignments")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Student", "Date", "Tier"}, rows[0])
	assert.Equal(t, []string{"Ada", "2025-12-01", "1"}, rows[1])
}
