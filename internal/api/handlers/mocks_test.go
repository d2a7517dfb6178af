package handlers_test

import (
	"context"
	"time"

	"marketplace-api/internal/models"
	"marketplace-api/internal/transport/dto"

	"github.com/stretchr/testify/mock"
)

type mockUserService struct{ mock.Mock }

func (m *mockUserService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserService) Login(ctx context.Context, req *dto.LoginRequest) (*models.User, string, time.Time, error) {
	args := m.Called(ctx, req)
	u, _ := args.Get(0).(*models.User)
	return u, args.String(1), args.Get(2).(time.Time), args.Error(3)
}

func (m *mockUserService) Authenticate(ctx context.Context, token string) (models.Actor, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.Actor), args.Error(1)
}

func (m *mockUserService) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockUserService) Me(ctx context.Context, actor models.Actor) (*models.User, error) {
	args := m.Called(ctx, actor)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, actor models.Actor, req *dto.UpdateProfileRequest) (*models.User, error) {
	args := m.Called(ctx, actor, req)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserService) Reputation(ctx context.Context, userID int64) (*models.Reputation, error) {
	args := m.Called(ctx, userID)
	r, _ := args.Get(0).(*models.Reputation)
	return r, args.Error(1)
}

type mockJobService struct{ mock.Mock }

func (m *mockJobService) CreateJob(ctx context.Context, actor models.Actor, req *dto.CreateJobRequest) (*models.Job, error) {
	args := m.Called(ctx, actor, req)
	j, _ := args.Get(0).(*models.Job)
	return j, args.Error(1)
}

func (m *mockJobService) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	args := m.Called(ctx, id)
	j, _ := args.Get(0).(*models.Job)
	return j, args.Error(1)
}

func (m *mockJobService) ListJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, int, error) {
	args := m.Called(ctx, filter)
	jobs, _ := args.Get(0).([]models.Job)
	return jobs, args.Int(1), args.Error(2)
}

func (m *mockJobService) ListAvailableJobs(ctx context.Context, actor models.Actor, specialty string, limit, offset int) ([]models.Job, int, error) {
	args := m.Called(ctx, actor, specialty, limit, offset)
	jobs, _ := args.Get(0).([]models.Job)
	return jobs, args.Int(1), args.Error(2)
}

func (m *mockJobService) ListMyJobs(ctx context.Context, actor models.Actor, status *models.JobStatus, limit, offset int) ([]models.Job, int, error) {
	args := m.Called(ctx, actor, status, limit, offset)
	jobs, _ := args.Get(0).([]models.Job)
	return jobs, args.Int(1), args.Error(2)
}

func (m *mockJobService) UpdateJob(ctx context.Context, actor models.Actor, id int64, req *dto.UpdateJobRequest) (*models.Job, error) {
	args := m.Called(ctx, actor, id, req)
	j, _ := args.Get(0).(*models.Job)
	return j, args.Error(1)
}

func (m *mockJobService) CompleteJob(ctx context.Context, actor models.Actor, id int64) (*models.Job, error) {
	args := m.Called(ctx, actor, id)
	j, _ := args.Get(0).(*models.Job)
	return j, args.Error(1)
}

func (m *mockJobService) CancelJob(ctx context.Context, actor models.Actor, id int64) (*models.Job, error) {
	args := m.Called(ctx, actor, id)
	j, _ := args.Get(0).(*models.Job)
	return j, args.Error(1)
}

func (m *mockJobService) PendingEvaluations(ctx context.Context, actor models.Actor) ([]models.Job, error) {
	args := m.Called(ctx, actor)
	jobs, _ := args.Get(0).([]models.Job)
	return jobs, args.Error(1)
}

type mockApplicationService struct{ mock.Mock }

func (m *mockApplicationService) Apply(ctx context.Context, actor models.Actor, jobID int64) (*models.Application, error) {
	args := m.Called(ctx, actor, jobID)
	a, _ := args.Get(0).(*models.Application)
	return a, args.Error(1)
}

func (m *mockApplicationService) Accept(ctx context.Context, actor models.Actor, jobID, applicationID int64) (*models.Job, error) {
	args := m.Called(ctx, actor, jobID, applicationID)
	j, _ := args.Get(0).(*models.Job)
	return j, args.Error(1)
}

func (m *mockApplicationService) Reject(ctx context.Context, actor models.Actor, jobID, applicationID int64) (*models.Application, error) {
	args := m.Called(ctx, actor, jobID, applicationID)
	a, _ := args.Get(0).(*models.Application)
	return a, args.Error(1)
}

func (m *mockApplicationService) ListByJob(ctx context.Context, actor models.Actor, jobID int64) ([]models.Application, error) {
	args := m.Called(ctx, actor, jobID)
	apps, _ := args.Get(0).([]models.Application)
	return apps, args.Error(1)
}

func (m *mockApplicationService) ListMine(ctx context.Context, actor models.Actor, limit, offset int) ([]models.Application, error) {
	args := m.Called(ctx, actor, limit, offset)
	apps, _ := args.Get(0).([]models.Application)
	return apps, args.Error(1)
}

type mockPaymentService struct{ mock.Mock }

func (m *mockPaymentService) SubmitProof(ctx context.Context, actor models.Actor, jobID int64, req *dto.PaymentProofRequest) (*models.Job, error) {
	args := m.Called(ctx, actor, jobID, req)
	j, _ := args.Get(0).(*models.Job)
	return j, args.Error(1)
}

func (m *mockPaymentService) ConfirmPayment(ctx context.Context, actor models.Actor, jobID int64, note string) (*models.Job, error) {
	args := m.Called(ctx, actor, jobID, note)
	j, _ := args.Get(0).(*models.Job)
	return j, args.Error(1)
}

func (m *mockPaymentService) RejectPayment(ctx context.Context, actor models.Actor, jobID int64, note string) (*models.Job, error) {
	args := m.Called(ctx, actor, jobID, note)
	j, _ := args.Get(0).(*models.Job)
	return j, args.Error(1)
}

type mockRatingService struct{ mock.Mock }

func (m *mockRatingService) SubmitRating(ctx context.Context, actor models.Actor, jobID int64, req *dto.SubmitRatingRequest) (*models.Rating, *models.Job, error) {
	args := m.Called(ctx, actor, jobID, req)
	r, _ := args.Get(0).(*models.Rating)
	j, _ := args.Get(1).(*models.Job)
	return r, j, args.Error(2)
}

func (m *mockRatingService) ListRatings(ctx context.Context, jobID int64) ([]models.Rating, error) {
	args := m.Called(ctx, jobID)
	r, _ := args.Get(0).([]models.Rating)
	return r, args.Error(1)
}

type mockMessageService struct{ mock.Mock }

func (m *mockMessageService) ListMessages(ctx context.Context, actor models.Actor, jobID int64) ([]models.Message, error) {
	args := m.Called(ctx, actor, jobID)
	msgs, _ := args.Get(0).([]models.Message)
	return msgs, args.Error(1)
}

func (m *mockMessageService) SendMessage(ctx context.Context, actor models.Actor, jobID int64, req *dto.SendMessageRequest) (*models.Message, error) {
	args := m.Called(ctx, actor, jobID, req)
	msg, _ := args.Get(0).(*models.Message)
	return msg, args.Error(1)
}

func (m *mockMessageService) MarkRead(ctx context.Context, actor models.Actor, jobID int64) (int64, error) {
	args := m.Called(ctx, actor, jobID)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}
