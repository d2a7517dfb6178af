package handlers

import (
	"net/http"

	"marketplace-api/internal/models"
	"marketplace-api/internal/services"
	"marketplace-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// ApplicationHandler holds dependencies for application operations.
type ApplicationHandler struct {
	service   services.ApplicationService
	validator *validator.Validate
	log       logrus.FieldLogger
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(service services.ApplicationService, validate *validator.Validate, logger logrus.FieldLogger) *ApplicationHandler {
	return &ApplicationHandler{service: service, validator: validate, log: logger.WithField("module", "handlers.applications")}
}

// Apply godoc
// @Summary      Apply to an open job
// @Description  Provider only. A provider cannot apply to a job they posted or apply twice while pending.
// @Tags         applications
// @Produce      json
// @Param        id path      int true  "Job ID"
// @Success      201 {object}  models.Application
// @Failure      403 {object}  map[string]string "Forbidden or SelfAssignment"
// @Failure      409 {object}  map[string]string "JobNotOpen or DuplicateApplication"
// @Router       /services/{id}/applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	app, err := h.service.Apply(c.Request.Context(), actor, jobID)
	if err != nil {
		respondError(c, h.log, "Apply", err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// ListJobApplications godoc
// @Summary      List a job's applications
// @Description  The job's requester only.
// @Tags         applications
// @Produce      json
// @Param        id path      int true  "Job ID"
// @Success      200 {array}   models.Application
// @Router       /services/{id}/applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListJobApplications(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	apps, err := h.service.ListByJob(c.Request.Context(), actor, jobID)
	if err != nil {
		respondError(c, h.log, "ListJobApplications", err)
		return
	}
	c.JSON(http.StatusOK, nonNil(apps))
}

// AcceptApplication godoc
// @Summary      Accept an application
// @Description  Assigns the provider, moves the job to in_progress and rejects competing applications.
// @Tags         applications
// @Produce      json
// @Param        id            path  int true  "Job ID"
// @Param        applicationId path  int true  "Application ID"
// @Success      200 {object}  models.Job
// @Failure      409 {object}  map[string]string "JobNotOpen or InvalidState"
// @Router       /services/{id}/applications/{applicationId}/accept [post]
// @Security     BearerAuth
func (h *ApplicationHandler) AcceptApplication(c *gin.Context) {
	actor, jobID, appID, ok := h.applicationParams(c)
	if !ok {
		return
	}
	job, err := h.service.Accept(c.Request.Context(), actor, jobID, appID)
	if err != nil {
		respondError(c, h.log, "AcceptApplication", err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// RejectApplication godoc
// @Summary      Reject an application
// @Description  The job's requester only; the application must be pending.
// @Tags         applications
// @Produce      json
// @Param        id            path  int true  "Job ID"
// @Param        applicationId path  int true  "Application ID"
// @Success      200 {object}  models.Application
// @Router       /services/{id}/applications/{applicationId}/reject [post]
// @Security     BearerAuth
func (h *ApplicationHandler) RejectApplication(c *gin.Context) {
	actor, jobID, appID, ok := h.applicationParams(c)
	if !ok {
		return
	}
	app, err := h.service.Reject(c.Request.Context(), actor, jobID, appID)
	if err != nil {
		respondError(c, h.log, "RejectApplication", err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// ListMyApplications godoc
// @Summary      List the calling provider's applications
// @Tags         applications
// @Produce      json
// @Success      200 {array}   models.Application
// @Router       /applications/mine [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListMyApplications(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.ListMyApplicationsRequest
	if !bindQuery(c, h.validator, &req) {
		return
	}
	apps, err := h.service.ListMine(c.Request.Context(), actor, req.Limit, req.Offset)
	if err != nil {
		respondError(c, h.log, "ListMyApplications", err)
		return
	}
	c.JSON(http.StatusOK, nonNil(apps))
}

func (h *ApplicationHandler) applicationParams(c *gin.Context) (models.Actor, int64, int64, bool) {
	actor, ok := requireActor(c)
	if !ok {
		return models.Actor{}, 0, 0, false
	}
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return models.Actor{}, 0, 0, false
	}
	appID, ok := parseIDParam(c, "applicationId")
	if !ok {
		return models.Actor{}, 0, 0, false
	}
	return actor, jobID, appID, true
}
