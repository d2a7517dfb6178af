package handlers

import (
	"net/http"

	"marketplace-api/internal/services"
	"marketplace-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// PaymentHandler serves the payment-proof workflow.
type PaymentHandler struct {
	service   services.PaymentService
	validator *validator.Validate
	log       logrus.FieldLogger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service services.PaymentService, validate *validator.Validate, logger logrus.FieldLogger) *PaymentHandler {
	return &PaymentHandler{service: service, validator: validate, log: logger.WithField("module", "handlers.payments")}
}

// SubmitProof godoc
// @Summary      Submit proof of payment
// @Description  The job's requester posts evidence; payment moves to proof_submitted.
// @Tags         payment
// @Accept       json
// @Produce      json
// @Param        id    path  int                      true  "Job ID"
// @Param        proof body  dto.PaymentProofRequest  true  "Proof artifact"
// @Success      200 {object}  models.Job
// @Failure      409 {object}  map[string]string "InvalidState"
// @Router       /services/{id}/payment/proof [post]
// @Security     BearerAuth
func (h *PaymentHandler) SubmitProof(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.PaymentProofRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}
	job, err := h.service.SubmitProof(c.Request.Context(), actor, jobID, &req)
	if err != nil {
		respondError(c, h.log, "SubmitProof", err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// ConfirmPayment godoc
// @Summary      Confirm payment
// @Description  The assigned provider accepts the submitted proof.
// @Tags         payment
// @Accept       json
// @Produce      json
// @Param        id   path  int                         true   "Job ID"
// @Param        note body  dto.PaymentDecisionRequest  false  "Optional note"
// @Success      200 {object}  models.Job
// @Router       /services/{id}/payment/confirm [post]
// @Security     BearerAuth
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	h.decide(c, "ConfirmPayment", true)
}

// RejectPayment godoc
// @Summary      Reject payment proof
// @Description  The assigned provider sends the payment back to pending; the requester may resubmit.
// @Tags         payment
// @Accept       json
// @Produce      json
// @Param        id   path  int                         true   "Job ID"
// @Param        note body  dto.PaymentDecisionRequest  false  "Optional note"
// @Success      200 {object}  models.Job
// @Router       /services/{id}/payment/reject [post]
// @Security     BearerAuth
func (h *PaymentHandler) RejectPayment(c *gin.Context) {
	h.decide(c, "RejectPayment", false)
}

func (h *PaymentHandler) decide(c *gin.Context, funcName string, confirm bool) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.PaymentDecisionRequest
	if !bindOptionalJSON(c, h.validator, &req) {
		return
	}

	decide := h.service.RejectPayment
	if confirm {
		decide = h.service.ConfirmPayment
	}
	job, err := decide(c.Request.Context(), actor, jobID, req.Note)
	if err != nil {
		respondError(c, h.log, funcName, err)
		return
	}
	c.JSON(http.StatusOK, job)
}
