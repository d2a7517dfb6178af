package services

import (
	"context"
	"errors"
	"fmt"

	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"
	"marketplace-api/internal/transport/dto"

	"github.com/sirupsen/logrus"
)

type ratingService struct {
	store storage.Store
	log   logrus.FieldLogger
}

// NewRatingService creates a new instance of RatingService.
func NewRatingService(store storage.Store, logger logrus.FieldLogger) RatingService {
	return &ratingService{
		store: store,
		log:   logger.WithField("module", "services.ratings"),
	}
}

// SubmitRating records the caller's rating of the other party on a completed
// job. The side is derived from the caller's relation to the job.
func (s *ratingService) SubmitRating(ctx context.Context, actor models.Actor, jobID int64, req *dto.SubmitRatingRequest) (*models.Rating, *models.Job, error) {
	var (
		rating *models.Rating
		out    *models.Job
	)
	err := updateJob(ctx, s.store, s.log, jobID, "SubmitRating", "rated", func(ctx context.Context, tx storage.JobTx, job *models.Job) error {
		side, err := requireParticipant(actor, job)
		if err != nil {
			return err
		}
		if err := recordRating(job, side); err != nil {
			return err
		}
		exists, err := tx.HasRating(ctx, job.ID, side)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s already rated job %d", ErrDuplicateRating, side, job.ID)
		}

		target := job.RequesterID
		if side == models.RoleRequester {
			target = *job.ProviderID
		}
		rating, err = tx.CreateRating(ctx, &models.Rating{
			JobID:       job.ID,
			FromUserID:  actor.UserID,
			ToUserID:    target,
			FromRole:    side,
			ToRole:      side.Counterpart(),
			Score:       req.Score,
			Punctuality: subScore(req.Punctuality),
			Quality:     subScore(req.Quality),
			Compliance:  subScore(req.Compliance),
			Comment:     req.Comment,
		})
		if errors.Is(err, storage.ErrDuplicate) {
			return fmt.Errorf("%w: %s already rated job %d", ErrDuplicateRating, side, job.ID)
		}
		if err != nil {
			return err
		}
		if err := tx.SaveJob(ctx, job); err != nil {
			return err
		}
		out = job
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.log.WithFields(logrus.Fields{
		"service_id":        jobID,
		"from_user_id":      rating.FromUserID,
		"both_ratings_done": out.BothRatingsDone,
	}).Info("rating recorded")
	return rating, out, nil
}

func subScore(v *int) int {
	if v == nil {
		return models.DefaultSubScore
	}
	return *v
}

func (s *ratingService) ListRatings(ctx context.Context, jobID int64) ([]models.Rating, error) {
	if _, err := s.store.Jobs().GetByID(ctx, jobID); err != nil {
		return nil, mapRepoError(s.log, err, "ListRatings")
	}
	ratings, err := s.store.Ratings().ListByJob(ctx, jobID)
	if err != nil {
		return nil, mapRepoError(s.log, err, "ListRatings")
	}
	return ratings, nil
}
