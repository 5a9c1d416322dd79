package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/clerkship-scheduler/internal/dto"
	"github.com/noah-isme/clerkship-scheduler/internal/models"
	appErrors "github.com/noah-isme/clerkship-scheduler/pkg/errors"
	"github.com/noah-isme/clerkship-scheduler/pkg/export"
)

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type exportStudentReader interface {
	List(ctx context.Context, ids []string) ([]models.Student, error)
}

var exportHeaders = []string{"Date", "Student", "Preceptor", "Clerkship", "Tier", "Fallback Team", "Pending Approval"}

// ExportService renders assignment listings for download.
type ExportService struct {
	assignments assignmentReader
	students    exportStudentReader
	preceptors  teamPreceptorReader
	clerkships  teamClerkshipReader
	renderers   map[dto.ExportFormat]datasetRenderer
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewExportService constructs an ExportService with one renderer per format.
func NewExportService(
	assignments assignmentReader,
	students exportStudentReader,
	preceptors teamPreceptorReader,
	clerkships teamClerkshipReader,
	validate *validator.Validate,
	logger *zap.Logger,
) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		assignments: assignments,
		students:    students,
		preceptors:  preceptors,
		clerkships:  clerkships,
		renderers: map[dto.ExportFormat]datasetRenderer{
			dto.ExportCSV:  export.NewCSVExporter(),
			dto.ExportPDF:  export.NewPDFExporter(),
			dto.ExportXLSX: export.NewXLSXExporter("Assignments"),
		},
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// ExportAssignments renders assignments matching q in the requested format.
func (s *ExportService) ExportAssignments(ctx context.Context, q dto.ExportQuery) (*dto.ExportFile, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export query")
	}
	renderer, ok := s.renderers[q.Format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %s", q.Format))
	}

	dataset, err := s.buildDataset(ctx, q)
	if err != nil {
		return nil, err
	}
	body, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	s.logger.Info("assignments exported", zap.String("format", string(q.Format)), zap.Int("rows", len(dataset.Rows)))
	return &dto.ExportFile{
		Filename:    s.filename(q),
		ContentType: contentType(q.Format),
		Body:        body,
	}, nil
}

func (s *ExportService) buildDataset(ctx context.Context, q dto.ExportQuery) (export.Dataset, error) {
	assignments, err := s.assignments.List(ctx, models.AssignmentFilter{
		StartDate:   q.StartDate,
		EndDate:     q.EndDate,
		StudentID:   q.StudentID,
		PreceptorID: q.PreceptorID,
		ClerkshipID: q.ClerkshipID,
	})
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	students, err := s.students.List(ctx, nil)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	preceptors, err := s.preceptors.List(ctx)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preceptors")
	}
	clerkships, err := s.clerkships.List(ctx, nil)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load clerkships")
	}

	studentNames := make(map[string]string, len(students))
	for _, st := range students {
		studentNames[st.ID] = st.Name
	}
	preceptorNames := make(map[string]string, len(preceptors))
	for _, p := range preceptors {
		preceptorNames[p.ID] = p.Name
	}
	clerkshipNames := make(map[string]string, len(clerkships))
	for _, c := range clerkships {
		clerkshipNames[c.ID] = c.Name
	}

	rows := make([]map[string]string, 0, len(assignments))
	for _, a := range assignments {
		rows = append(rows, map[string]string{
			"Date":             a.Date,
			"Student":          nameOr(studentNames, a.StudentID),
			"Preceptor":        nameOr(preceptorNames, a.PreceptorID),
			"Clerkship":        nameOr(clerkshipNames, a.ClerkshipID),
			"Tier":             strconv.Itoa(a.Tier),
			"Fallback Team":    deref(a.FallbackTeamID),
			"Pending Approval": strconv.FormatBool(a.PendingApproval),
		})
	}

	title := "Clerkship Assignments"
	if q.StartDate != "" || q.EndDate != "" {
		title = fmt.Sprintf("%s %s to %s", title, orDash(q.StartDate), orDash(q.EndDate))
	}
	return export.Dataset{Title: title, Headers: exportHeaders, Rows: rows}, nil
}

func (s *ExportService) filename(q dto.ExportQuery) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	scope := "all"
	if q.StartDate != "" {
		scope = q.StartDate
	}
	return fmt.Sprintf("assignments_%s_%s.%s", sanitizeFilename(scope), timestamp, q.Format)
}

func contentType(format dto.ExportFormat) string {
	switch format {
	case dto.ExportPDF:
		return "application/pdf"
	case dto.ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

func sanitizeFilename(raw string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func nameOr(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
