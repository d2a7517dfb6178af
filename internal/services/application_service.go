package services

import (
	"context"
	"errors"
	"fmt"

	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"

	"github.com/sirupsen/logrus"
)

type applicationService struct {
	store storage.Store
	log   logrus.FieldLogger
}

// NewApplicationService creates a new instance of ApplicationService.
func NewApplicationService(store storage.Store, logger logrus.FieldLogger) ApplicationService {
	return &applicationService{
		store: store,
		log:   logger.WithField("module", "services.applications"),
	}
}

// Apply records a pending application of the calling provider.
func (s *applicationService) Apply(ctx context.Context, actor models.Actor, jobID int64) (*models.Application, error) {
	var out *models.Application
	err := updateJob(ctx, s.store, s.log, jobID, "Apply", "applied", func(ctx context.Context, tx storage.JobTx, job *models.Job) error {
		if err := requireApplicant(actor, job); err != nil {
			return err
		}
		if job.Status != models.JobStatusOpen {
			return fmt.Errorf("%w: job %d is %s", ErrJobNotOpen, job.ID, job.Status)
		}
		pending, err := tx.HasPendingApplication(ctx, job.ID, actor.UserID)
		if err != nil {
			return err
		}
		if pending {
			return fmt.Errorf("%w: provider %d already applied to job %d", ErrDuplicateApplication, actor.UserID, job.ID)
		}
		app, err := tx.CreateApplication(ctx, &models.Application{
			JobID:      job.ID,
			ProviderID: actor.UserID,
			Status:     models.ApplicationStatusPending,
		})
		if errors.Is(err, storage.ErrDuplicate) {
			return fmt.Errorf("%w: provider %d already applied to job %d", ErrDuplicateApplication, actor.UserID, job.ID)
		}
		if err != nil {
			return err
		}
		out = app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Accept assigns the application's provider and starts the job. Competing
// pending applications are rejected in the same transition, so of two
// concurrent accepts exactly one wins and the other sees JobNotOpen.
func (s *applicationService) Accept(ctx context.Context, actor models.Actor, jobID, applicationID int64) (*models.Job, error) {
	var out *models.Job
	err := updateJob(ctx, s.store, s.log, jobID, "Accept", "accepted", func(ctx context.Context, tx storage.JobTx, job *models.Job) error {
		if err := requireJobRequester(actor, job); err != nil {
			return err
		}
		if job.Status != models.JobStatusOpen {
			return fmt.Errorf("%w: job %d is %s", ErrJobNotOpen, job.ID, job.Status)
		}
		app, err := s.pendingApplication(ctx, tx, job.ID, applicationID)
		if err != nil {
			return err
		}
		if err := startJob(job, app.ProviderID); err != nil {
			return err
		}
		if err := tx.SaveJob(ctx, job); err != nil {
			return err
		}
		if err := tx.SetApplicationStatus(ctx, app.ID, models.ApplicationStatusAccepted); err != nil {
			return err
		}
		rejected, err := tx.RejectPendingApplications(ctx, job.ID, app.ID)
		if err != nil {
			return err
		}
		s.log.WithFields(logrus.Fields{
			"service_id":     job.ID,
			"provider_id":    app.ProviderID,
			"application_id": app.ID,
			"rejected":       rejected,
		}).Info("application accepted")
		out = job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Reject declines a single pending application. The job stays open.
func (s *applicationService) Reject(ctx context.Context, actor models.Actor, jobID, applicationID int64) (*models.Application, error) {
	var out *models.Application
	err := updateJob(ctx, s.store, s.log, jobID, "RejectApplication", "application_rejected", func(ctx context.Context, tx storage.JobTx, job *models.Job) error {
		if err := requireJobRequester(actor, job); err != nil {
			return err
		}
		app, err := s.pendingApplication(ctx, tx, job.ID, applicationID)
		if err != nil {
			return err
		}
		if err := tx.SetApplicationStatus(ctx, app.ID, models.ApplicationStatusRejected); err != nil {
			return err
		}
		app.Status = models.ApplicationStatusRejected
		out = app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *applicationService) pendingApplication(ctx context.Context, tx storage.JobTx, jobID, applicationID int64) (*models.Application, error) {
	app, err := tx.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.JobID != jobID {
		return nil, fmt.Errorf("%w: application %d does not belong to job %d", ErrNotFound, applicationID, jobID)
	}
	if app.Status != models.ApplicationStatusPending {
		return nil, fmt.Errorf("%w: application %d is %s", ErrInvalidState, app.ID, app.Status)
	}
	return app, nil
}

// ListByJob lists a job's applications for its requester.
func (s *applicationService) ListByJob(ctx context.Context, actor models.Actor, jobID int64) ([]models.Application, error) {
	job, err := s.store.Jobs().GetByID(ctx, jobID)
	if err != nil {
		return nil, mapRepoError(s.log, err, "ListApplications")
	}
	if err := requireJobRequester(actor, job); err != nil {
		return nil, err
	}
	apps, err := s.store.Applications().ListByJob(ctx, jobID)
	if err != nil {
		return nil, mapRepoError(s.log, err, "ListApplications")
	}
	return apps, nil
}

func (s *applicationService) ListMine(ctx context.Context, actor models.Actor, limit, offset int) ([]models.Application, error) {
	if err := requireRole(actor, models.RoleProvider); err != nil {
		return nil, err
	}
	limit, offset = normalizePage(limit, offset)
	apps, err := s.store.Applications().ListByProvider(ctx, actor.UserID, limit, offset)
	if err != nil {
		return nil, mapRepoError(s.log, err, "ListMyApplications")
	}
	return apps, nil
}
