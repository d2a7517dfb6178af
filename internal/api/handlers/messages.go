package handlers

import (
	"net/http"

	"marketplace-api/internal/services"
	"marketplace-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// MessageHandler serves job threads.
type MessageHandler struct {
	service   services.MessageService
	validator *validator.Validate
	log       logrus.FieldLogger
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(service services.MessageService, validate *validator.Validate, logger logrus.FieldLogger) *MessageHandler {
	return &MessageHandler{service: service, validator: validate, log: logger.WithField("module", "handlers.messages")}
}

// ListMessages godoc
// @Summary      Read a job's thread
// @Description  Participants and pending applicants, ordered by sentAt.
// @Tags         messages
// @Produce      json
// @Param        id path  int true  "Job ID"
// @Success      200 {array}   models.Message
// @Router       /services/{id}/messages [get]
// @Security     BearerAuth
func (h *MessageHandler) ListMessages(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	msgs, err := h.service.ListMessages(c.Request.Context(), actor, jobID)
	if err != nil {
		respondError(c, h.log, "ListMessages", err)
		return
	}
	c.JSON(http.StatusOK, nonNil(msgs))
}

// SendMessage godoc
// @Summary      Post a text message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        id      path  int                     true  "Job ID"
// @Param        message body  dto.SendMessageRequest  true  "Message"
// @Success      201 {object}  models.Message
// @Router       /services/{id}/messages [post]
// @Security     BearerAuth
func (h *MessageHandler) SendMessage(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.SendMessageRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}
	msg, err := h.service.SendMessage(c.Request.Context(), actor, jobID, &req)
	if err != nil {
		respondError(c, h.log, "SendMessage", err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// MarkRead godoc
// @Summary      Mark the thread as read
// @Description  Marks every message the caller did not send as read by the caller.
// @Tags         messages
// @Produce      json
// @Param        id path  int true  "Job ID"
// @Success      200 {object}  dto.MarkReadResponse
// @Router       /services/{id}/messages/read [post]
// @Security     BearerAuth
func (h *MessageHandler) MarkRead(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	marked, err := h.service.MarkRead(c.Request.Context(), actor, jobID)
	if err != nil {
		respondError(c, h.log, "MarkRead", err)
		return
	}
	c.JSON(http.StatusOK, dto.MarkReadResponse{Marked: marked})
}
