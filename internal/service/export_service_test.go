package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/clerkship-scheduler/internal/dto"
	"github.com/noah-isme/clerkship-scheduler/internal/models"
	appErrors "github.com/noah-isme/clerkship-scheduler/pkg/errors"
)

func newExportService(w *schedulingWorld) *ExportService {
	svc := NewExportService(w.assignments, w.students, w.preceptors, w.clerkships, nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 12, 10, 8, 30, 0, 0, time.UTC) }
	return svc
}

func TestExportServiceCSV(t *testing.T) {
	w := newSchedulingWorld()
	w.assignments.rows = append(w.assignments.rows, models.Assignment{
		StudentID: "student-1", PreceptorID: "preceptor-2", ClerkshipID: "family-med", Date: "2025-12-01",
		Tier: models.TierSameTeam, FallbackTeamID: strPtr("team-1"), PendingApproval: true,
	})
	svc := newExportService(w)

	file, err := svc.ExportAssignments(context.Background(), dto.ExportQuery{Format: dto.ExportCSV, StartDate: "2025-11-01", ClerkshipID: "family-med"})
	require.NoError(t, err)

	assert.Equal(t, "assignments_2025-11-01_20251210_083000.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)
	lines := strings.Split(strings.TrimSpace(string(file.Body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Student,Preceptor,Clerkship,Tier,Fallback Team,Pending Approval", lines[0])
	assert.Equal(t, "2025-12-01,Ada,Dr Two,Family Medicine,1,team-1,true", lines[2])
	require.Len(t, w.assignments.filters, 1)
	assert.Equal(t, "family-med", w.assignments.filters[0].ClerkshipID)
}

func TestExportServiceBinaryFormats(t *testing.T) {
	svc := newExportService(newSchedulingWorld())

	pdf, err := svc.ExportAssignments(context.Background(), dto.ExportQuery{Format: dto.ExportPDF})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.True(t, strings.HasPrefix(string(pdf.Body), "%PDF"))
	assert.True(t, strings.HasSuffix(pdf.Filename, "_all_20251210_083000.pdf"))

	xlsx, err := svc.ExportAssignments(context.Background(), dto.ExportQuery{Format: dto.ExportXLSX})
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", xlsx.ContentType)
	assert.Equal(t, "PK", string(xlsx.Body[:2]))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := newExportService(newSchedulingWorld())

	_, err := svc.ExportAssignments(context.Background(), dto.ExportQuery{Format: "docx"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
