package services

import (
	"context"
	"time"

	"marketplace-api/internal/models"
	"marketplace-api/internal/transport/dto"
)

// UserService is the identity gate plus account maintenance.
type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*models.User, string, time.Time, error)
	Authenticate(ctx context.Context, token string) (models.Actor, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, actor models.Actor) (*models.User, error)
	UpdateProfile(ctx context.Context, actor models.Actor, req *dto.UpdateProfileRequest) (*models.User, error)
	Reputation(ctx context.Context, userID int64) (*models.Reputation, error)
}

// JobService defines the job lifecycle operations.
type JobService interface {
	CreateJob(ctx context.Context, actor models.Actor, req *dto.CreateJobRequest) (*models.Job, error)
	GetJob(ctx context.Context, id int64) (*models.Job, error)
	ListJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, int, error)
	ListAvailableJobs(ctx context.Context, actor models.Actor, specialty string, limit, offset int) ([]models.Job, int, error)
	ListMyJobs(ctx context.Context, actor models.Actor, status *models.JobStatus, limit, offset int) ([]models.Job, int, error)
	UpdateJob(ctx context.Context, actor models.Actor, id int64, req *dto.UpdateJobRequest) (*models.Job, error)
	CompleteJob(ctx context.Context, actor models.Actor, id int64) (*models.Job, error)
	CancelJob(ctx context.Context, actor models.Actor, id int64) (*models.Job, error)
	PendingEvaluations(ctx context.Context, actor models.Actor) ([]models.Job, error)
}

// ApplicationService matches providers to open jobs.
type ApplicationService interface {
	Apply(ctx context.Context, actor models.Actor, jobID int64) (*models.Application, error)
	Accept(ctx context.Context, actor models.Actor, jobID, applicationID int64) (*models.Job, error)
	Reject(ctx context.Context, actor models.Actor, jobID, applicationID int64) (*models.Application, error)
	ListByJob(ctx context.Context, actor models.Actor, jobID int64) ([]models.Application, error)
	ListMine(ctx context.Context, actor models.Actor, limit, offset int) ([]models.Application, error)
}

// PaymentService drives the payment-proof workflow.
type PaymentService interface {
	SubmitProof(ctx context.Context, actor models.Actor, jobID int64, req *dto.PaymentProofRequest) (*models.Job, error)
	ConfirmPayment(ctx context.Context, actor models.Actor, jobID int64, note string) (*models.Job, error)
	RejectPayment(ctx context.Context, actor models.Actor, jobID int64, note string) (*models.Job, error)
}

// RatingService is the rating gate.
type RatingService interface {
	SubmitRating(ctx context.Context, actor models.Actor, jobID int64, req *dto.SubmitRatingRequest) (*models.Rating, *models.Job, error)
	ListRatings(ctx context.Context, jobID int64) ([]models.Rating, error)
}

// MessageService reads and appends to job threads.
type MessageService interface {
	ListMessages(ctx context.Context, actor models.Actor, jobID int64) ([]models.Message, error)
	SendMessage(ctx context.Context, actor models.Actor, jobID int64, req *dto.SendMessageRequest) (*models.Message, error)
	MarkRead(ctx context.Context, actor models.Actor, jobID int64) (int64, error)
}
