package dto

import (
	"time"

	"marketplace-api/internal/models"

	"github.com/shopspring/decimal"
)

// --- Job Request DTOs ---

// CreateJobRequest defines the structure for posting a new job.
type CreateJobRequest struct {
	Title        string          `json:"title" validate:"required,max=200"`
	Description  string          `json:"description" validate:"omitempty,max=5000"`
	Location     string          `json:"location" validate:"required,max=200"`
	Price        decimal.Decimal `json:"price"`
	MaterialType string          `json:"materialType" validate:"omitempty,max=100"`
	StartDate    time.Time       `json:"startDate" validate:"required"`
	EndDate      *time.Time      `json:"endDate"`
}

// UpdateJobRequest edits the descriptive fields of an open job. Omitted
// fields are left unchanged; at least one must be present.
type UpdateJobRequest struct {
	Title        *string          `json:"title" validate:"omitnil,min=1,max=200"`
	Description  *string          `json:"description" validate:"omitnil,max=5000"`
	Location     *string          `json:"location" validate:"omitnil,min=1,max=200"`
	Price        *decimal.Decimal `json:"price"`
	MaterialType *string          `json:"materialType" validate:"omitnil,max=100"`
	StartDate    *time.Time       `json:"startDate"`
	EndDate      *time.Time       `json:"endDate"`
}

// Empty reports whether no field was supplied.
func (r *UpdateJobRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Location == nil && r.Price == nil &&
		r.MaterialType == nil && r.StartDate == nil && r.EndDate == nil
}

// ListJobsRequest defines query parameters for GET /services.
type ListJobsRequest struct {
	Limit        int    `form:"limit,default=20" validate:"min=1,max=100"`
	Offset       int    `form:"offset,default=0" validate:"min=0"`
	Status       string `form:"status" validate:"omitempty,oneof=open in_progress completed cancelled"`
	MaterialType string `form:"materialType" validate:"omitempty,max=100"`
}

// ListAvailableJobsRequest defines query parameters for GET /services/available.
type ListAvailableJobsRequest struct {
	Limit     int    `form:"limit,default=20" validate:"min=1,max=100"`
	Offset    int    `form:"offset,default=0" validate:"min=0"`
	Specialty string `form:"specialty" validate:"omitempty,max=100"`
}

// ListMyJobsRequest defines query parameters for GET /services/mine.
type ListMyJobsRequest struct {
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
	Offset int    `form:"offset,default=0" validate:"min=0"`
	Status string `form:"status" validate:"omitempty,oneof=open in_progress completed cancelled"`
}

// --- Job Response DTOs ---

// JobListResponse is a page of jobs.
type JobListResponse struct {
	Items  []models.Job `json:"items"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// PendingEvaluationsResponse tells the caller whether ratings are owed.
type PendingEvaluationsResponse struct {
	HasPending bool    `json:"hasPending"`
	JobIDs     []int64 `json:"serviceIds"`
}
