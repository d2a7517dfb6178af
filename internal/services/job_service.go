package services

import (
	"context"
	"fmt"
	"time"

	"marketplace-api/internal/metrics"
	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"
	"marketplace-api/internal/transport/dto"

	"github.com/sirupsen/logrus"
)

type jobService struct {
	store storage.Store
	log   logrus.FieldLogger
	now   func() time.Time
}

// NewJobService creates a new instance of JobService.
func NewJobService(store storage.Store, logger logrus.FieldLogger) JobService {
	return &jobService{
		store: store,
		log:   logger.WithField("module", "services.jobs"),
		now:   time.Now,
	}
}

func (s *jobService) CreateJob(ctx context.Context, actor models.Actor, req *dto.CreateJobRequest) (*models.Job, error) {
	if err := requireRole(actor, models.RoleRequester); err != nil {
		return nil, err
	}
	draft := &models.Job{
		RequesterID:   actor.UserID,
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		Price:         req.Price,
		MaterialType:  req.MaterialType,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Status:        models.JobStatusOpen,
		PaymentStatus: models.PaymentStatusPending,
	}
	if err := validateJobFields(draft); err != nil {
		return nil, err
	}

	job, err := s.store.Jobs().Create(ctx, draft)
	if err != nil {
		return nil, mapRepoError(s.log, err, "CreateJob")
	}
	metrics.RecordTransition("created")
	s.log.WithFields(logrus.Fields{"service_id": job.ID, "requester_id": actor.UserID}).Info("job created")
	return job, nil
}

func (s *jobService) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	job, err := s.store.Jobs().GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(s.log, err, "GetJob")
	}
	return job, nil
}

func (s *jobService) ListJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, int, error) {
	filter.Limit, filter.Offset = normalizePage(filter.Limit, filter.Offset)
	jobs, total, err := s.store.Jobs().List(ctx, filter)
	if err != nil {
		return nil, 0, mapRepoError(s.log, err, "ListJobs")
	}
	return jobs, total, nil
}

// ListAvailableJobs lists open jobs for providers. specialty narrows by
// material type; empty means no restriction.
func (s *jobService) ListAvailableJobs(ctx context.Context, actor models.Actor, specialty string, limit, offset int) ([]models.Job, int, error) {
	if err := requireRole(actor, models.RoleProvider); err != nil {
		return nil, 0, err
	}
	open := models.JobStatusOpen
	return s.ListJobs(ctx, models.JobFilter{
		Status:       &open,
		MaterialType: specialty,
		Limit:        limit,
		Offset:       offset,
	})
}

// ListMyJobs lists the jobs a requester posted or a provider is assigned to.
func (s *jobService) ListMyJobs(ctx context.Context, actor models.Actor, status *models.JobStatus, limit, offset int) ([]models.Job, int, error) {
	filter := models.JobFilter{Status: status, Limit: limit, Offset: offset}
	userID := actor.UserID
	switch actor.Role {
	case models.RoleRequester:
		filter.RequesterID = &userID
	case models.RoleProvider:
		filter.ProviderID = &userID
	default:
		return nil, 0, fmt.Errorf("%w: unknown role", ErrForbidden)
	}
	return s.ListJobs(ctx, filter)
}

// UpdateJob edits the descriptive fields of an open job. Only the requester
// who posted it may edit; status and payment fields are never touched here.
func (s *jobService) UpdateJob(ctx context.Context, actor models.Actor, id int64, req *dto.UpdateJobRequest) (*models.Job, error) {
	if req.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	var out *models.Job
	err := updateJob(ctx, s.store, s.log, id, "UpdateJob", "edited", func(ctx context.Context, tx storage.JobTx, job *models.Job) error {
		if err := requireJobRequester(actor, job); err != nil {
			return err
		}
		if err := editJob(job, func(j *models.Job) { applyJobEdit(j, req) }); err != nil {
			return err
		}
		if err := tx.SaveJob(ctx, job); err != nil {
			return err
		}
		out = job
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"service_id": id, "user_id": actor.UserID}).Info("job edited")
	return out, nil
}

func applyJobEdit(job *models.Job, req *dto.UpdateJobRequest) {
	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.Price != nil {
		job.Price = *req.Price
	}
	if req.MaterialType != nil {
		job.MaterialType = *req.MaterialType
	}
	if req.StartDate != nil {
		job.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		end := *req.EndDate
		job.EndDate = &end
	}
}

func (s *jobService) CompleteJob(ctx context.Context, actor models.Actor, id int64) (*models.Job, error) {
	var out *models.Job
	err := updateJob(ctx, s.store, s.log, id, "CompleteJob", "completed", func(ctx context.Context, tx storage.JobTx, job *models.Job) error {
		if _, err := requireParticipant(actor, job); err != nil {
			return err
		}
		if err := completeJob(job, s.now()); err != nil {
			return err
		}
		if err := tx.SaveJob(ctx, job); err != nil {
			return err
		}
		out = job
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"service_id": id, "user_id": actor.UserID}).Info("job completed")
	return out, nil
}

// CancelJob cancels an open or in-progress job and closes its pending
// applications. The message thread is kept.
func (s *jobService) CancelJob(ctx context.Context, actor models.Actor, id int64) (*models.Job, error) {
	var out *models.Job
	err := updateJob(ctx, s.store, s.log, id, "CancelJob", "cancelled", func(ctx context.Context, tx storage.JobTx, job *models.Job) error {
		if err := requireJobRequester(actor, job); err != nil {
			return err
		}
		if err := cancelJob(job); err != nil {
			return err
		}
		if err := tx.SaveJob(ctx, job); err != nil {
			return err
		}
		if _, err := tx.RejectPendingApplications(ctx, job.ID, 0); err != nil {
			return err
		}
		out = job
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"service_id": id, "user_id": actor.UserID}).Info("job cancelled")
	return out, nil
}

// PendingEvaluations returns the completed jobs where the caller's side still
// owes a rating.
func (s *jobService) PendingEvaluations(ctx context.Context, actor models.Actor) ([]models.Job, error) {
	if !actor.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role", ErrForbidden)
	}
	jobs, err := s.store.Jobs().ListPendingEvaluation(ctx, actor.UserID, actor.Role)
	if err != nil {
		return nil, mapRepoError(s.log, err, "PendingEvaluations")
	}
	return jobs, nil
}
