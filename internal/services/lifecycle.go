package services

import (
	"fmt"
	"time"

	"marketplace-api/internal/models"
)

// The functions below are the job state machine. They only mutate the
// in-memory job; callers persist it inside Store.UpdateJob.
//
//	open -> in_progress -> completed
//	open | in_progress -> cancelled
//	open -> open (edit of descriptive fields)
//	completed, cancelled: terminal
//
// Payment runs on its own axis while the job is in_progress:
//
//	pending -> proof_submitted -> confirmed
//	proof_submitted -> pending (rejected, may be resubmitted any number of times)

// editJob applies edit to an open job and re-validates the result.
func editJob(job *models.Job, edit func(*models.Job)) error {
	if job.Status != models.JobStatusOpen {
		return fmt.Errorf("%w: job %d is %s, only open jobs can be edited", ErrJobNotOpen, job.ID, job.Status)
	}
	edit(job)
	return validateJobFields(job)
}

func validateJobFields(job *models.Job) error {
	if job.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if job.EndDate != nil && job.EndDate.Before(job.StartDate) {
		return fmt.Errorf("%w: endDate is before startDate", ErrValidation)
	}
	return nil
}

func startJob(job *models.Job, providerID int64) error {
	if job.Status.Terminal() {
		return fmt.Errorf("%w: job %d is %s", ErrTerminalStateViolation, job.ID, job.Status)
	}
	if job.Status != models.JobStatusOpen {
		return fmt.Errorf("%w: job %d is %s, expected open", ErrInvalidTransition, job.ID, job.Status)
	}
	job.Status = models.JobStatusInProgress
	job.ProviderID = &providerID
	return nil
}

func completeJob(job *models.Job, now time.Time) error {
	if job.PaymentStatus != models.PaymentStatusConfirmed {
		return fmt.Errorf("%w: payment is %s", ErrPaymentNotConfirmed, job.PaymentStatus)
	}
	if job.Status.Terminal() {
		return fmt.Errorf("%w: job %d is %s", ErrTerminalStateViolation, job.ID, job.Status)
	}
	if job.Status != models.JobStatusInProgress {
		return fmt.Errorf("%w: job %d is %s, expected in_progress", ErrInvalidTransition, job.ID, job.Status)
	}
	completedAt := now.UTC()
	job.Status = models.JobStatusCompleted
	job.CompletedAt = &completedAt
	job.RatingRequired = true
	return nil
}

func cancelJob(job *models.Job) error {
	if job.Status.Terminal() {
		return fmt.Errorf("%w: job %d is %s", ErrTerminalStateViolation, job.ID, job.Status)
	}
	job.Status = models.JobStatusCancelled
	return nil
}

func requireInProgressForPayment(job *models.Job) error {
	if job.Status != models.JobStatusInProgress {
		return fmt.Errorf("%w: payment actions require an in_progress job, job %d is %s", ErrInvalidState, job.ID, job.Status)
	}
	return nil
}

func submitPaymentProof(job *models.Job) error {
	if err := requireInProgressForPayment(job); err != nil {
		return err
	}
	if job.PaymentStatus != models.PaymentStatusPending {
		return fmt.Errorf("%w: payment is %s, expected pending", ErrInvalidState, job.PaymentStatus)
	}
	job.PaymentStatus = models.PaymentStatusProofSubmitted
	return nil
}

func confirmPayment(job *models.Job) error {
	if err := requireInProgressForPayment(job); err != nil {
		return err
	}
	if job.PaymentStatus != models.PaymentStatusProofSubmitted {
		return fmt.Errorf("%w: payment is %s, expected proof_submitted", ErrInvalidState, job.PaymentStatus)
	}
	job.PaymentStatus = models.PaymentStatusConfirmed
	return nil
}

func rejectPayment(job *models.Job) error {
	if err := requireInProgressForPayment(job); err != nil {
		return err
	}
	if job.PaymentStatus != models.PaymentStatusProofSubmitted {
		return fmt.Errorf("%w: payment is %s, expected proof_submitted", ErrInvalidState, job.PaymentStatus)
	}
	job.PaymentStatus = models.PaymentStatusPending
	return nil
}

// recordRating flips the side's flag. bothRatingsDone is always recomputed
// here and never set by anything else.
func recordRating(job *models.Job, side models.Role) error {
	if job.Status != models.JobStatusCompleted {
		return fmt.Errorf("%w: job %d is %s", ErrJobNotEligible, job.ID, job.Status)
	}
	if job.RatingDone(side) {
		return fmt.Errorf("%w: %s already rated job %d", ErrDuplicateRating, side, job.ID)
	}
	if side == models.RoleRequester {
		job.RequesterRatingDone = true
	} else {
		job.ProviderRatingDone = true
	}
	job.RecomputeDerived()
	return nil
}
