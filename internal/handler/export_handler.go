package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/clerkship-scheduler/internal/dto"
	"github.com/noah-isme/clerkship-scheduler/internal/service"
	appErrors "github.com/noah-isme/clerkship-scheduler/pkg/errors"
	"github.com/noah-isme/clerkship-scheduler/pkg/response"
)

type exportService interface {
	ExportAssignments(ctx context.Context, q dto.ExportQuery) (*dto.ExportFile, error)
}

// ExportHandler streams assignment exports.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// ExportAssignments godoc
// @Summary Export assignments
// @Tags Assignments
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string true "csv, pdf or xlsx"
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD)"
// @Param studentId query string false "Student ID"
// @Param preceptorId query string false "Preceptor ID"
// @Param clerkshipId query string false "Clerkship ID"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /assignments/export [get]
func (h *ExportHandler) ExportAssignments(c *gin.Context) {
	var q dto.ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	if q.Format == "" {
		q.Format = dto.ExportCSV
	}
	file, err := h.service.ExportAssignments(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
