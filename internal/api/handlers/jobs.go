package handlers

import (
	"context"
	"net/http"

	"marketplace-api/internal/models"
	"marketplace-api/internal/services"
	"marketplace-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// JobHandler holds dependencies for service record operations.
type JobHandler struct {
	service   services.JobService
	validator *validator.Validate
	log       logrus.FieldLogger
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(service services.JobService, validate *validator.Validate, logger logrus.FieldLogger) *JobHandler {
	return &JobHandler{service: service, validator: validate, log: logger.WithField("module", "handlers.jobs")}
}

// ListJobs godoc
// @Summary      List jobs
// @Description  Paginated listing with optional status and materialType filters.
// @Tags         services
// @Produce      json
// @Param        limit        query  int     false  "Page size (1-100)"
// @Param        offset       query  int     false  "Offset"
// @Param        status       query  string  false  "open, in_progress, completed or cancelled"
// @Param        materialType query  string  false  "Material type"
// @Success      200 {object}  dto.JobListResponse
// @Failure      400 {object}  map[string]string "Invalid query parameters"
// @Router       /services [get]
// @Security     BearerAuth
func (h *JobHandler) ListJobs(c *gin.Context) {
	var req dto.ListJobsRequest
	if !bindQuery(c, h.validator, &req) {
		return
	}
	jobs, total, err := h.service.ListJobs(c.Request.Context(), models.JobFilter{
		Status:       parseStatus(req.Status),
		MaterialType: req.MaterialType,
		Limit:        req.Limit,
		Offset:       req.Offset,
	})
	if err != nil {
		respondError(c, h.log, "ListJobs", err)
		return
	}
	c.JSON(http.StatusOK, jobPage(jobs, total, req.Limit, req.Offset))
}

// ListAvailableJobs godoc
// @Summary      List open jobs for providers
// @Description  Open jobs, optionally narrowed to a specialty (material type).
// @Tags         services
// @Produce      json
// @Param        specialty query  string  false  "Material type"
// @Success      200 {object}  dto.JobListResponse
// @Failure      403 {object}  map[string]string "Providers only"
// @Router       /services/available [get]
// @Security     BearerAuth
func (h *JobHandler) ListAvailableJobs(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.ListAvailableJobsRequest
	if !bindQuery(c, h.validator, &req) {
		return
	}
	jobs, total, err := h.service.ListAvailableJobs(c.Request.Context(), actor, req.Specialty, req.Limit, req.Offset)
	if err != nil {
		respondError(c, h.log, "ListAvailableJobs", err)
		return
	}
	c.JSON(http.StatusOK, jobPage(jobs, total, req.Limit, req.Offset))
}

// ListMyJobs godoc
// @Summary      List the caller's jobs
// @Description  Jobs posted by the calling requester or assigned to the calling provider.
// @Tags         services
// @Produce      json
// @Success      200 {object}  dto.JobListResponse
// @Router       /services/mine [get]
// @Security     BearerAuth
func (h *JobHandler) ListMyJobs(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.ListMyJobsRequest
	if !bindQuery(c, h.validator, &req) {
		return
	}
	jobs, total, err := h.service.ListMyJobs(c.Request.Context(), actor, parseStatus(req.Status), req.Limit, req.Offset)
	if err != nil {
		respondError(c, h.log, "ListMyJobs", err)
		return
	}
	c.JSON(http.StatusOK, jobPage(jobs, total, req.Limit, req.Offset))
}

// CreateJob godoc
// @Summary      Post a new job
// @Description  Requester only. The job starts open with payment pending.
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        job body      dto.CreateJobRequest true  "Job details"
// @Success      201 {object}  models.Job "Job created"
// @Failure      400 {object}  map[string]string "Bad Request - Invalid input"
// @Failure      403 {object}  map[string]string "Requesters only"
// @Router       /services [post]
// @Security     BearerAuth
func (h *JobHandler) CreateJob(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateJobRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}
	job, err := h.service.CreateJob(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, h.log, "CreateJob", err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// GetJobByID godoc
// @Summary      Get a job by ID
// @Tags         services
// @Produce      json
// @Param        id path      int true  "Job ID"
// @Success      200 {object}  models.Job
// @Failure      404 {object}  map[string]string "Job Not Found"
// @Router       /services/{id} [get]
// @Security     BearerAuth
func (h *JobHandler) GetJobByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	job, err := h.service.GetJob(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "GetJobByID", err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// UpdateJob godoc
// @Summary      Edit an open job
// @Description  Requester who posted the job, only while it is open. Omitted fields are unchanged.
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        id   path  int                   true  "Job ID"
// @Param        job  body  dto.UpdateJobRequest  true  "Fields to change"
// @Success      200 {object}  models.Job
// @Failure      400 {object}  map[string]string "Validation"
// @Failure      403 {object}  map[string]string "Not the job's requester"
// @Failure      409 {object}  map[string]string "JobNotOpen"
// @Router       /services/{id} [patch]
// @Security     BearerAuth
func (h *JobHandler) UpdateJob(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateJobRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}
	job, err := h.service.UpdateJob(c.Request.Context(), actor, id, &req)
	if err != nil {
		respondError(c, h.log, "UpdateJob", err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// CompleteJob godoc
// @Summary      Complete a job
// @Description  Requester or assigned provider. Requires confirmed payment and an in_progress job.
// @Tags         services
// @Produce      json
// @Param        id path      int true  "Job ID"
// @Success      200 {object}  models.Job
// @Failure      403 {object}  map[string]string "Not a participant"
// @Failure      409 {object}  map[string]string "PaymentNotConfirmed, TerminalStateViolation or InvalidTransition"
// @Router       /services/{id}/complete [post]
// @Security     BearerAuth
func (h *JobHandler) CompleteJob(c *gin.Context) {
	h.transition(c, "CompleteJob", h.service.CompleteJob)
}

// CancelJob godoc
// @Summary      Cancel a job
// @Description  Requester only. Pending applications are rejected; messages are kept.
// @Tags         services
// @Produce      json
// @Param        id path      int true  "Job ID"
// @Success      200 {object}  models.Job
// @Failure      409 {object}  map[string]string "TerminalStateViolation"
// @Router       /services/{id}/cancel [post]
// @Security     BearerAuth
func (h *JobHandler) CancelJob(c *gin.Context) {
	h.transition(c, "CancelJob", h.service.CancelJob)
}

func (h *JobHandler) transition(c *gin.Context, funcName string, fn func(context.Context, models.Actor, int64) (*models.Job, error)) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	job, err := fn(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, h.log, funcName, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// PendingEvaluations godoc
// @Summary      Ratings owed by the caller
// @Description  Whether the caller has completed jobs their side has not rated yet.
// @Tags         services
// @Produce      json
// @Success      200 {object}  dto.PendingEvaluationsResponse
// @Router       /services/pending-evaluations [get]
// @Security     BearerAuth
func (h *JobHandler) PendingEvaluations(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	jobs, err := h.service.PendingEvaluations(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.log, "PendingEvaluations", err)
		return
	}
	ids := make([]int64, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	c.JSON(http.StatusOK, dto.PendingEvaluationsResponse{HasPending: len(ids) > 0, JobIDs: ids})
}
