package dto

import (
	"time"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
	"github.com/noah-isme/clerkship-scheduler/internal/scheduling"
)

// GapFillRequest asks the scheduler to repair unmet requirements over a date range.
type GapFillRequest struct {
	StartDate    string   `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate      string   `json:"endDate" validate:"required,datetime=2006-01-02"`
	StudentIDs   []string `json:"studentIds" validate:"omitempty,dive,required"`
	ClerkshipIDs []string `json:"clerkshipIds" validate:"omitempty,dive,required"`
	DryRun       bool     `json:"dryRun"`
}

// GapFillResponse reports one gap-fill run.
type GapFillResponse struct {
	RunID                 string                              `json:"runId"`
	DryRun                bool                                `json:"dryRun"`
	Assignments           []models.Assignment                 `json:"assignments"`
	FulfilledRequirements []scheduling.RequirementFulfillment `json:"fulfilledRequirements"`
	PartialFulfillments   []scheduling.RequirementFulfillment `json:"partialFulfillments"`
	StillUnmet            []scheduling.UnmetRequirement       `json:"stillUnmet"`
	TierCounts            map[int]int                         `json:"tierCounts"`
	DurationMs            int64                               `json:"durationMs"`
}

// RunState is the lifecycle of an asynchronous gap-fill run.
type RunState string

const (
	RunQueued   RunState = "QUEUED"
	RunRunning  RunState = "RUNNING"
	RunFinished RunState = "FINISHED"
	RunFailed   RunState = "FAILED"
)

// RunStatus exposes the state of an asynchronous gap-fill run.
type RunStatus struct {
	ID          string           `json:"id"`
	State       RunState         `json:"state"`
	Request     GapFillRequest   `json:"request"`
	Result      *GapFillResponse `json:"result,omitempty"`
	Error       *string          `json:"error,omitempty"`
	SubmittedAt time.Time        `json:"submittedAt"`
	FinishedAt  *time.Time       `json:"finishedAt,omitempty"`
}

// SummaryQuery bounds the requirement summary.
type SummaryQuery struct {
	StartDate string `form:"startDate" json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `form:"endDate" json:"endDate" validate:"required,datetime=2006-01-02"`
}

// StudentNeed is one student's outstanding clerkship days.
type StudentNeed struct {
	StudentID           string         `json:"studentId"`
	StudentName         string         `json:"studentName"`
	MostNeededClerkship string         `json:"mostNeededClerkship"`
	RemainingDays       map[string]int `json:"remainingDays"`
}

// RequirementSummary lists students still needing days in a range.
type RequirementSummary struct {
	StartDate     string                        `json:"startDate"`
	EndDate       string                        `json:"endDate"`
	TotalStudents int                           `json:"totalStudents"`
	Needing       []StudentNeed                 `json:"needing"`
	Unmet         []scheduling.UnmetRequirement `json:"unmet"`
}
