package services

import (
	"context"
	"errors"
	"fmt"

	"marketplace-api/config"
	"marketplace-api/internal/metrics"
	"marketplace-api/internal/storage"

	"github.com/sirupsen/logrus"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// normalizePage clamps pagination to sane bounds.
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// mapRepoError maps storage errors to service errors. Errors that already
// belong to the service taxonomy pass through untouched.
func mapRepoError(log logrus.FieldLogger, err error, operation string) error {
	if err == nil {
		return nil
	}
	if ErrorKind(err) != KindInternal {
		return err
	}
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, operation)
	case errors.Is(err, storage.ErrDuplicate), errors.Is(err, storage.ErrConflict):
		return fmt.Errorf("%w: %s (%v)", ErrConflict, operation, err)
	}
	config.LogError(log, "services", operation, "unexpected repository error", nil, err)
	return fmt.Errorf("internal error during %s: %w", operation, err)
}

// updateJob runs fn with job jobID locked and maps its failure. Domain
// rejections are counted by kind; the transition is counted on commit.
func updateJob(ctx context.Context, store storage.Store, log logrus.FieldLogger, jobID int64, operation, transition string, fn storage.JobUpdateFunc) error {
	err := store.UpdateJob(ctx, jobID, fn)
	if err != nil {
		err = mapRepoError(log, err, operation)
		if kind := ErrorKind(err); kind != KindInternal {
			metrics.RecordRejection(kind)
			log.WithFields(logrus.Fields{"service_id": jobID, "kind": kind}).Info(operation + " rejected")
		}
		return err
	}
	if transition != "" {
		metrics.RecordTransition(transition)
	}
	return nil
}
