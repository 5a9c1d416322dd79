package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/clerkship-scheduler/internal/dto"
	"github.com/noah-isme/clerkship-scheduler/internal/scheduling"
	"github.com/noah-isme/clerkship-scheduler/internal/service"
	appErrors "github.com/noah-isme/clerkship-scheduler/pkg/errors"
	"github.com/noah-isme/clerkship-scheduler/pkg/response"
)

type teamService interface {
	Validate(ctx context.Context, req dto.TeamRequest) (*scheduling.TeamValidationResult, error)
	Create(ctx context.Context, req dto.TeamRequest) (*dto.TeamResponse, error)
	Fallbacks(ctx context.Context, q dto.FallbackQuery) ([]scheduling.FallbackCandidate, error)
}

// TeamHandler manages preceptor teams.
type TeamHandler struct {
	service teamService
}

// NewTeamHandler constructs the handler.
func NewTeamHandler(svc *service.TeamService) *TeamHandler {
	return &TeamHandler{service: svc}
}

// Validate godoc
// @Summary Validate a proposed team
// @Description Checks team rules without saving. Errors and warnings are returned in the body.
// @Tags Teams
// @Accept json
// @Produce json
// @Param payload body dto.TeamRequest true "Team proposal"
// @Success 200 {object} response.Envelope
// @Router /teams/validate [post]
func (h *TeamHandler) Validate(c *gin.Context) {
	var req dto.TeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid team payload"))
		return
	}
	result, err := h.service.Validate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Create godoc
// @Summary Create a team
// @Tags Teams
// @Accept json
// @Produce json
// @Param payload body dto.TeamRequest true "Team proposal"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /teams [post]
func (h *TeamHandler) Create(c *gin.Context) {
	var req dto.TeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid team payload"))
		return
	}
	team, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if service.IsTeamRejected(err) && team != nil {
			response.ErrorWithData(c, err, team.Validation)
			return
		}
		response.Error(c, err)
		return
	}
	response.Created(c, team)
}

// Fallbacks godoc
// @Summary Preview fallback preceptors
// @Tags Teams
// @Produce json
// @Param clerkshipId query string true "Clerkship ID"
// @Param primaryTeamId query string false "Primary team ID"
// @Param primaryHealthSystemId query string false "Primary health system ID"
// @Param allowCrossSystem query bool false "Include other health systems"
// @Success 200 {object} response.Envelope
// @Router /teams/fallbacks [get]
func (h *TeamHandler) Fallbacks(c *gin.Context) {
	var q dto.FallbackQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid fallback query"))
		return
	}
	candidates, err := h.service.Fallbacks(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, candidates, nil)
}
