package dto

// ExportFormat names a supported assignment export encoding.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportPDF  ExportFormat = "pdf"
	ExportXLSX ExportFormat = "xlsx"
)

// ExportQuery captures GET /assignments/export parameters.
type ExportQuery struct {
	Format      ExportFormat `form:"format" validate:"required,oneof=csv pdf xlsx"`
	StartDate   string       `form:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string       `form:"endDate" validate:"omitempty,datetime=2006-01-02"`
	StudentID   string       `form:"studentId"`
	PreceptorID string       `form:"preceptorId"`
	ClerkshipID string       `form:"clerkshipId"`
}

// ExportFile is a rendered export ready for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
