package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketplace-api/internal/api/handlers"
	"marketplace-api/internal/api/middleware"
	"marketplace-api/internal/models"
	"marketplace-api/internal/services"
	"marketplace-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	storeActor     = models.Actor{UserID: 1, Role: models.RoleRequester, Username: "store"}
	assemblerActor = models.Actor{UserID: 2, Role: models.RoleProvider, Username: "assembler"}
)

// staticAuth resolves fixed test tokens.
type staticAuth map[string]models.Actor

func (s staticAuth) Authenticate(_ context.Context, token string) (models.Actor, error) {
	if a, ok := s[token]; ok {
		return a, nil
	}
	return models.Actor{}, services.ErrInvalidToken
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testAuth() gin.HandlerFunc {
	return middleware.JWTAuthMiddleware(staticAuth{"store-token": storeActor, "assembler-token": assemblerActor}, quietLogger())
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func doRequest(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, _ := json.Marshal(b)
			reader = bytes.NewBuffer(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{services.ErrInvalidCredentials, http.StatusBadRequest},
		{services.ErrValidation, http.StatusBadRequest},
		{services.ErrInvalidToken, http.StatusUnauthorized},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrSelfAssignment, http.StatusForbidden},
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrJobNotOpen, http.StatusConflict},
		{services.ErrJobNotEligible, http.StatusConflict},
		{services.ErrInvalidTransition, http.StatusConflict},
		{services.ErrTerminalStateViolation, http.StatusConflict},
		{services.ErrDuplicateApplication, http.StatusConflict},
		{services.ErrDuplicateRating, http.StatusConflict},
		{services.ErrPaymentNotConfirmed, http.StatusConflict},
		{services.ErrInvalidState, http.StatusConflict},
		{fmt.Errorf("wrapped: %w", services.ErrJobNotOpen), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, handlers.StatusForError(tt.err), tt.err.Error())
	}
}

func TestAuthHandler_Login(t *testing.T) {
	svc := new(mockUserService)
	h := handlers.NewAuthHandler(svc, validator.New(), quietLogger())
	r := newEngine()
	r.POST("/auth/login", h.Login)

	user := &models.User{ID: 1, Username: "store", UserType: models.RoleRequester}
	exp := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.On("Login", mock.Anything, &dto.LoginRequest{Username: "store", Password: "secret-pass"}).Return(user, "tok", exp, nil)
	svc.On("Login", mock.Anything, &dto.LoginRequest{Username: "store", Password: "wrong"}).Return(nil, "", time.Time{}, services.ErrInvalidCredentials)

	rec := doRequest(r, http.MethodPost, "/auth/login", "", dto.LoginRequest{Username: "store", Password: "secret-pass"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "tok", body["token"])
	assert.Equal(t, "store", body["user"].(map[string]any)["userType"])

	rec = doRequest(r, http.MethodPost, "/auth/login", "", dto.LoginRequest{Username: "store", Password: "wrong"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "InvalidCredentials", body["kind"])
	assert.NotEmpty(t, body["error"])

	rec = doRequest(r, http.MethodPost, "/auth/login", "", `{"username": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertExpectations(t)
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	svc := new(mockUserService)
	h := handlers.NewAuthHandler(svc, validator.New(), quietLogger())
	r := newEngine()
	r.POST("/auth/register", h.Register)

	rec := doRequest(r, http.MethodPost, "/auth/register", "", map[string]any{
		"username": "new-user", "password": "longenough", "userType": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["details"], "UserType")
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestAuthHandler_ValidateAndLogout(t *testing.T) {
	svc := new(mockUserService)
	h := handlers.NewAuthHandler(svc, validator.New(), quietLogger())
	r := newEngine()
	r.GET("/auth/validate", testAuth(), h.Validate)
	r.POST("/auth/logout", testAuth(), h.Logout)

	svc.On("Me", mock.Anything, storeActor).Return(&models.User{ID: 1, Username: "store", UserType: models.RoleRequester}, nil)
	svc.On("Logout", mock.Anything, "store-token").Return(nil)

	rec := doRequest(r, http.MethodGet, "/auth/validate", "store-token", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decodeBody(t, rec)["id"])

	rec = doRequest(r, http.MethodGet, "/auth/validate", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "InvalidToken", decodeBody(t, rec)["kind"])

	rec = doRequest(r, http.MethodPost, "/auth/logout", "store-token", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func TestJobHandler_ListJobs(t *testing.T) {
	svc := new(mockJobService)
	h := handlers.NewJobHandler(svc, validator.New(), quietLogger())
	r := newEngine()
	r.GET("/services", testAuth(), h.ListJobs)

	open := models.JobStatusOpen
	svc.On("ListJobs", mock.Anything, models.JobFilter{Status: &open, MaterialType: "wood", Limit: 5, Offset: 10}).
		Return([]models.Job{{ID: 3, Status: models.JobStatusOpen}}, 11, nil)
	svc.On("ListJobs", mock.Anything, models.JobFilter{Limit: 20}).Return(nil, 0, nil)

	rec := doRequest(r, http.MethodGet, "/services?status=open&materialType=wood&limit=5&offset=10", "store-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 11, body["total"])
	assert.Len(t, body["items"], 1)

	rec = doRequest(r, http.MethodGet, "/services", "store-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, decodeBody(t, rec)["items"])

	rec = doRequest(r, http.MethodGet, "/services?status=archived", "store-token", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(r, http.MethodGet, "/services?limit=500", "store-token", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertExpectations(t)
}

func TestJobHandler_CreateJob(t *testing.T) {
	svc := new(mockJobService)
	h := handlers.NewJobHandler(svc, validator.New(), quietLogger())
	r := newEngine()
	r.POST("/services", testAuth(), h.CreateJob)

	svc.On("CreateJob", mock.Anything, storeActor, mock.AnythingOfType("*dto.CreateJobRequest")).
		Return(&models.Job{ID: 9, RequesterID: 1, Status: models.JobStatusOpen}, nil)
	svc.On("CreateJob", mock.Anything, assemblerActor, mock.Anything).Return(nil, services.ErrForbidden)

	payload := `{"title":"Shelves","location":"Porto","price":"80.00","startDate":"2026-06-01T09:00:00Z"}`
	rec := doRequest(r, http.MethodPost, "/services", "store-token", payload)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "open", decodeBody(t, rec)["status"])

	rec = doRequest(r, http.MethodPost, "/services", "assembler-token", payload)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden", decodeBody(t, rec)["kind"])

	rec = doRequest(r, http.MethodPost, "/services", "store-token", `{"location":"Porto"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJobHandler_CompleteJob(t *testing.T) {
	svc := new(mockJobService)
	h := handlers.NewJobHandler(svc, validator.New(), quietLogger())
	r := newEngine()
	r.POST("/services/:id/complete", testAuth(), h.CompleteJob)

	svc.On("CompleteJob", mock.Anything, assemblerActor, int64(4)).
		Return(nil, fmt.Errorf("%w: payment is pending", services.ErrPaymentNotConfirmed))
	svc.On("CompleteJob", mock.Anything, storeActor, int64(5)).
		Return(nil, errors.New("connection reset"))

	rec := doRequest(r, http.MethodPost, "/services/4/complete", "assembler-token", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "PaymentNotConfirmed", decodeBody(t, rec)["kind"])

	rec = doRequest(r, http.MethodPost, "/services/5/complete", "store-token", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Internal server error", body["error"])
	assert.Equal(t, "Internal", body["kind"])

	rec = doRequest(r, http.MethodPost, "/services/abc/complete", "store-token", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(r, http.MethodPost, "/services/4/complete", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJobHandler_UpdateJob(t *testing.T) {
	svc := new(mockJobService)
	h := handlers.NewJobHandler(svc, validator.New(), quietLogger())
	r := newEngine()
	r.PATCH("/services/:id", testAuth(), h.UpdateJob)

	svc.On("UpdateJob", mock.Anything, storeActor, int64(3), mock.MatchedBy(func(req *dto.UpdateJobRequest) bool {
		return req.Title != nil && *req.Title == "Shelves x2" && req.Location == nil
	})).Return(&models.Job{ID: 3, Title: "Shelves x2", Status: models.JobStatusOpen}, nil)
	svc.On("UpdateJob", mock.Anything, storeActor, int64(4), mock.Anything).
		Return(nil, fmt.Errorf("%w: job 4 is in_progress", services.ErrJobNotOpen))

	rec := doRequest(r, http.MethodPatch, "/services/3", "store-token", `{"title":"Shelves x2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Shelves x2", decodeBody(t, rec)["title"])

	rec = doRequest(r, http.MethodPatch, "/services/4", "store-token", `{"title":"Late edit"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "JobNotOpen", decodeBody(t, rec)["kind"])

	rec = doRequest(r, http.MethodPatch, "/services/3", "store-token", `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNumberOfCalls(t, "UpdateJob", 2)
}

func TestJobHandler_PendingEvaluations(t *testing.T) {
	svc := new(mockJobService)
	h := handlers.NewJobHandler(svc, validator.New(), quietLogger())
	r := newEngine()
	r.GET("/services/pending-evaluations", testAuth(), h.PendingEvaluations)

	svc.On("PendingEvaluations", mock.Anything, storeActor).Return([]models.Job{{ID: 3}, {ID: 8}}, nil)
	svc.On("PendingEvaluations", mock.Anything, assemblerActor).Return(nil, nil)

	rec := doRequest(r, http.MethodGet, "/services/pending-evaluations", "store-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["hasPending"])
	assert.Equal(t, []any{float64(3), float64(8)}, body["serviceIds"])

	rec = doRequest(r, http.MethodGet, "/services/pending-evaluations", "assembler-token", nil)
	body = decodeBody(t, rec)
	assert.Equal(t, false, body["hasPending"])
	assert.Equal(t, []any{}, body["serviceIds"])
}

func TestApplicationHandler(t *testing.T) {
	svc := new(mockApplicationService)
	h := handlers.NewApplicationHandler(svc, validator.New(), quietLogger())
	r := newEngine()
	r.POST("/services/:id/applications", testAuth(), h.Apply)
	r.POST("/services/:id/applications/:applicationId/accept", testAuth(), h.AcceptApplication)

	svc.On("Apply", mock.Anything, assemblerActor, int64(3)).Return(&models.Application{ID: 11, JobID: 3, ProviderID: 2, Status: models.ApplicationStatusPending}, nil)
	svc.On("Apply", mock.Anything, storeActor, int64(3)).Return(nil, services.ErrSelfAssignment)
	svc.On("Accept", mock.Anything, storeActor, int64(3), int64(11)).Return(nil, services.ErrJobNotOpen)

	rec := doRequest(r, http.MethodPost, "/services/3/applications", "assembler-token", nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(r, http.MethodPost, "/services/3/applications", "store-token", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "SelfAssignment", decodeBody(t, rec)["kind"])

	rec = doRequest(r, http.MethodPost, "/services/3/applications/11/accept", "store-token", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "JobNotOpen", decodeBody(t, rec)["kind"])

	rec = doRequest(r, http.MethodPost, "/services/3/applications/0/accept", "store-token", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestPaymentHandler_OptionalNote(t *testing.T) {
	svc := new(mockPaymentService)
	h := handlers.NewPaymentHandler(svc, validator.New(), quietLogger())
	r := newEngine()
	r.POST("/services/:id/payment/confirm", testAuth(), h.ConfirmPayment)
	r.POST("/services/:id/payment/reject", testAuth(), h.RejectPayment)
	r.POST("/services/:id/payment/proof", testAuth(), h.SubmitProof)

	svc.On("ConfirmPayment", mock.Anything, assemblerActor, int64(7), "").Return(&models.Job{ID: 7, PaymentStatus: models.PaymentStatusConfirmed}, nil)
	svc.On("RejectPayment", mock.Anything, assemblerActor, int64(7), "blurry").Return(&models.Job{ID: 7, PaymentStatus: models.PaymentStatusPending}, nil)
	svc.On("SubmitProof", mock.Anything, storeActor, int64(7), &dto.PaymentProofRequest{Content: "ref 1"}).Return(nil, services.ErrInvalidState)

	rec := doRequest(r, http.MethodPost, "/services/7/payment/confirm", "assembler-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "confirmed", decodeBody(t, rec)["paymentStatus"])

	rec = doRequest(r, http.MethodPost, "/services/7/payment/reject", "assembler-token", dto.PaymentDecisionRequest{Note: "blurry"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pending", decodeBody(t, rec)["paymentStatus"])

	rec = doRequest(r, http.MethodPost, "/services/7/payment/proof", "store-token", dto.PaymentProofRequest{Content: "ref 1"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "InvalidState", decodeBody(t, rec)["kind"])

	rec = doRequest(r, http.MethodPost, "/services/7/payment/proof", "store-token", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestRatingHandler_ScoreRange(t *testing.T) {
	svc := new(mockRatingService)
	h := handlers.NewRatingHandler(svc, validator.New(), quietLogger())
	r := newEngine()
	r.POST("/services/:id/ratings", testAuth(), h.SubmitRating)

	rec := doRequest(r, http.MethodPost, "/services/2/ratings", "store-token", `{"score": 6}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(r, http.MethodPost, "/services/2/ratings", "store-token", `{"score": 4, "quality": 0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.On("SubmitRating", mock.Anything, storeActor, int64(2), mock.Anything).
		Return(&models.Rating{ID: 1, Score: 4}, &models.Job{ID: 2, RequesterRatingDone: true}, nil)
	rec = doRequest(r, http.MethodPost, "/services/2/ratings", "store-token", `{"score": 4}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 4, body["rating"].(map[string]any)["score"])
	assert.Equal(t, true, body["service"].(map[string]any)["requesterRatingDone"])
}

func TestMessageHandler(t *testing.T) {
	svc := new(mockMessageService)
	h := handlers.NewMessageHandler(svc, validator.New(), quietLogger())
	r := newEngine()
	r.GET("/services/:id/messages", testAuth(), h.ListMessages)
	r.POST("/services/:id/messages", testAuth(), h.SendMessage)

	svc.On("ListMessages", mock.Anything, storeActor, int64(5)).Return(nil, nil)
	svc.On("SendMessage", mock.Anything, assemblerActor, int64(5), &dto.SendMessageRequest{Content: "hello"}).Return(nil, services.ErrForbidden)

	rec := doRequest(r, http.MethodGet, "/services/5/messages", "store-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())

	rec = doRequest(r, http.MethodPost, "/services/5/messages", "assembler-token", dto.SendMessageRequest{Content: "hello"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMessageHandler_MarkRead(t *testing.T) {
	svc := new(mockMessageService)
	h := handlers.NewMessageHandler(svc, validator.New(), quietLogger())
	r := newEngine()
	r.POST("/services/:id/messages/read", testAuth(), h.MarkRead)

	svc.On("MarkRead", mock.Anything, storeActor, int64(5)).Return(int64(3), nil)
	svc.On("MarkRead", mock.Anything, assemblerActor, int64(5)).Return(int64(0), services.ErrForbidden)

	rec := doRequest(r, http.MethodPost, "/services/5/messages/read", "store-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, decodeBody(t, rec)["marked"])

	rec = doRequest(r, http.MethodPost, "/services/5/messages/read", "assembler-token", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestHealthCheck(t *testing.T) {
	r := newEngine()
	r.GET("/ok", handlers.HealthCheck(pinger{}, quietLogger()))
	r.GET("/down", handlers.HealthCheck(pinger{err: errors.New("no db")}, quietLogger()))

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/ok", "", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, doRequest(r, http.MethodGet, "/down", "", nil).Code)
}
