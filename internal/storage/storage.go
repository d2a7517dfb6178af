package storage

import (
	"context"

	"marketplace-api/internal/models"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, upd models.ProfileUpdate) (*models.User, error)
}

// JobRepository defines read access to jobs plus creation. Every state change
// goes through Store.UpdateJob.
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) (*models.Job, error)
	GetByID(ctx context.Context, id int64) (*models.Job, error)
	List(ctx context.Context, filter models.JobFilter) ([]models.Job, int, error)
	// ListPendingEvaluation returns completed jobs where the given side has not rated yet.
	ListPendingEvaluation(ctx context.Context, userID int64, role models.Role) ([]models.Job, error)
}

// ApplicationRepository defines read access to applications.
type ApplicationRepository interface {
	ListByJob(ctx context.Context, jobID int64) ([]models.Application, error)
	ListByProvider(ctx context.Context, providerID int64, limit, offset int) ([]models.Application, error)
}

// MessageRepository defines read access to job threads, ordered by sent_at.
type MessageRepository interface {
	ListByJob(ctx context.Context, jobID int64) ([]models.Message, error)
	// MarkRead records that userID has read every message of jobID sent by
	// someone else. Returns the number of messages newly marked.
	MarkRead(ctx context.Context, jobID, userID int64) (int64, error)
}

// RatingRepository defines read access to ratings.
type RatingRepository interface {
	ListByJob(ctx context.Context, jobID int64) ([]models.Rating, error)
	Reputation(ctx context.Context, userID int64) (*models.Reputation, error)
}

// JobTx is the write surface available while a job row is held by UpdateJob.
type JobTx interface {
	SaveJob(ctx context.Context, job *models.Job) error
	CreateApplication(ctx context.Context, app *models.Application) (*models.Application, error)
	GetApplication(ctx context.Context, id int64) (*models.Application, error)
	HasPendingApplication(ctx context.Context, jobID, providerID int64) (bool, error)
	SetApplicationStatus(ctx context.Context, id int64, status models.ApplicationStatus) error
	// RejectPendingApplications rejects every pending application of jobID except exceptID (0 for none).
	RejectPendingApplications(ctx context.Context, jobID, exceptID int64) (int64, error)
	AppendMessage(ctx context.Context, msg *models.Message) (*models.Message, error)
	HasRating(ctx context.Context, jobID int64, fromRole models.Role) (bool, error)
	// CreateRating stores the rating as latest and clears is_latest on earlier
	// ratings between the same two users.
	CreateRating(ctx context.Context, rating *models.Rating) (*models.Rating, error)
}

// JobUpdateFunc runs with the job locked. Returning an error discards every write.
type JobUpdateFunc func(ctx context.Context, tx JobTx, job *models.Job) error

// Store bundles the repositories and the per-job atomic transition primitive.
type Store interface {
	Users() UserRepository
	Jobs() JobRepository
	Applications() ApplicationRepository
	Messages() MessageRepository
	Ratings() RatingRepository

	// UpdateJob reads job jobID under an exclusive lock, runs fn and commits
	// only when fn succeeds. Returns ErrNotFound for unknown ids.
	UpdateJob(ctx context.Context, jobID int64, fn JobUpdateFunc) error

	Ping(ctx context.Context) error
}
