package handlers

import (
	"net/http"

	"marketplace-api/internal/services"
	"marketplace-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// RatingHandler serves the rating gate.
type RatingHandler struct {
	service   services.RatingService
	validator *validator.Validate
	log       logrus.FieldLogger
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(service services.RatingService, validate *validator.Validate, logger logrus.FieldLogger) *RatingHandler {
	return &RatingHandler{service: service, validator: validate, log: logger.WithField("module", "handlers.ratings")}
}

// SubmitRating godoc
// @Summary      Rate the other party
// @Description  Participant of a completed job; each side rates once.
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Param        id     path  int                      true  "Job ID"
// @Param        rating body  dto.SubmitRatingRequest  true  "Scores 1-5"
// @Success      201 {object}  map[string]interface{} "rating and updated service"
// @Failure      409 {object}  map[string]string "JobNotEligible or DuplicateRating"
// @Router       /services/{id}/ratings [post]
// @Security     BearerAuth
func (h *RatingHandler) SubmitRating(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.SubmitRatingRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}
	rating, job, err := h.service.SubmitRating(c.Request.Context(), actor, jobID, &req)
	if err != nil {
		respondError(c, h.log, "SubmitRating", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"rating": rating, "service": job})
}

// ListRatings godoc
// @Summary      List a job's ratings
// @Tags         ratings
// @Produce      json
// @Param        id path  int true  "Job ID"
// @Success      200 {array}   models.Rating
// @Router       /services/{id}/ratings [get]
// @Security     BearerAuth
func (h *RatingHandler) ListRatings(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ratings, err := h.service.ListRatings(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, h.log, "ListRatings", err)
		return
	}
	c.JSON(http.StatusOK, nonNil(ratings))
}
