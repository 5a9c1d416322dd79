package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/clerkship-scheduler/internal/dto"
	"github.com/noah-isme/clerkship-scheduler/internal/service"
	appErrors "github.com/noah-isme/clerkship-scheduler/pkg/errors"
	"github.com/noah-isme/clerkship-scheduler/pkg/response"
)

type schedulingService interface {
	GapFill(ctx context.Context, req dto.GapFillRequest) (*dto.GapFillResponse, error)
	Submit(ctx context.Context, req dto.GapFillRequest) (*dto.RunStatus, error)
	GetRun(ctx context.Context, id string) (*dto.RunStatus, error)
	Summary(ctx context.Context, q dto.SummaryQuery) (*dto.RequirementSummary, error)
}

// SchedulingHandler exposes gap-fill runs and requirement summaries.
type SchedulingHandler struct {
	service schedulingService
}

// NewSchedulingHandler constructs the handler.
func NewSchedulingHandler(svc *service.SchedulingService) *SchedulingHandler {
	return &SchedulingHandler{service: svc}
}

// GapFill godoc
// @Summary Fill unmet clerkship requirements
// @Description Runs the gap filler synchronously. Dry runs return proposals without persisting them.
// @Tags Scheduling
// @Accept json
// @Produce json
// @Param payload body dto.GapFillRequest true "Gap-fill request"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /scheduling/gap-fill [post]
func (h *SchedulingHandler) GapFill(c *gin.Context) {
	var req dto.GapFillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid gap-fill payload"))
		return
	}
	result, err := h.service.GapFill(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// SubmitRun godoc
// @Summary Queue a gap-fill run
// @Tags Scheduling
// @Accept json
// @Produce json
// @Param payload body dto.GapFillRequest true "Gap-fill request"
// @Success 202 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /scheduling/runs [post]
func (h *SchedulingHandler) SubmitRun(c *gin.Context) {
	var req dto.GapFillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid gap-fill payload"))
		return
	}
	status, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Location", strings.TrimSuffix(c.Request.URL.Path, "/")+"/"+status.ID)
	response.Accepted(c, status)
}

// GetRun godoc
// @Summary Get a gap-fill run
// @Tags Scheduling
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /scheduling/runs/{id} [get]
func (h *SchedulingHandler) GetRun(c *gin.Context) {
	status, err := h.service.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Summary godoc
// @Summary Requirement summary
// @Description Lists students still needing clerkship days in the range.
// @Tags Scheduling
// @Produce json
// @Param startDate query string true "Start date (YYYY-MM-DD)"
// @Param endDate query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /scheduling/summary [get]
func (h *SchedulingHandler) Summary(c *gin.Context) {
	var q dto.SummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid summary query"))
		return
	}
	summary, err := h.service.Summary(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil, map[string]interface{}{"needing": len(summary.Needing)})
}
