package handlers

import (
	"net/http"

	"marketplace-api/config"
	"marketplace-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// kindStatus maps each error kind to its HTTP status. Kinds missing here are
// answered with 500.
var kindStatus = map[string]int{
	"InvalidCredentials":     http.StatusBadRequest,
	"Validation":             http.StatusBadRequest,
	"InvalidToken":           http.StatusUnauthorized,
	"Forbidden":              http.StatusForbidden,
	"SelfAssignment":         http.StatusForbidden,
	"NotFound":               http.StatusNotFound,
	"JobNotOpen":             http.StatusConflict,
	"JobNotEligible":         http.StatusConflict,
	"InvalidTransition":      http.StatusConflict,
	"TerminalStateViolation": http.StatusConflict,
	"DuplicateApplication":   http.StatusConflict,
	"DuplicateRating":        http.StatusConflict,
	"PaymentNotConfirmed":    http.StatusConflict,
	"InvalidState":           http.StatusConflict,
	"Conflict":               http.StatusConflict,
}

// StatusForError returns the HTTP status for a service error.
func StatusForError(err error) int {
	if status, ok := kindStatus[services.ErrorKind(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError writes {"error", "kind"} for err. Internal errors are logged
// and never echoed to the client.
func respondError(c *gin.Context, log logrus.FieldLogger, funcName string, err error) {
	kind := services.ErrorKind(err)
	status := StatusForError(err)
	if status == http.StatusInternalServerError {
		config.LogError(log, "handlers", funcName, "request failed", gin.H{"path": c.FullPath()}, err)
		c.JSON(status, gin.H{"error": "Internal server error", "kind": services.KindInternal})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}

func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "kind": services.ErrorKind(services.ErrValidation)})
}

func respondUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "kind": services.ErrorKind(services.ErrInvalidToken)})
}
