package services

import (
	"context"

	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"
	"marketplace-api/internal/transport/dto"

	"github.com/sirupsen/logrus"
)

const (
	defaultConfirmNote = "Payment confirmed"
	defaultRejectNote  = "Payment proof rejected, please resubmit"
)

type paymentService struct {
	store storage.Store
	log   logrus.FieldLogger
}

// NewPaymentService creates a new instance of PaymentService.
func NewPaymentService(store storage.Store, logger logrus.FieldLogger) PaymentService {
	return &paymentService{
		store: store,
		log:   logger.WithField("module", "services.payments"),
	}
}

// SubmitProof posts the requester's payment evidence to the thread and moves
// the payment to proof_submitted.
func (s *paymentService) SubmitProof(ctx context.Context, actor models.Actor, jobID int64, req *dto.PaymentProofRequest) (*models.Job, error) {
	return s.transition(ctx, actor, jobID, "SubmitPaymentProof", "payment_proof_submitted",
		requireJobRequester, submitPaymentProof,
		&models.Message{MessageType: models.MessageTypePaymentProof, Content: req.Content, Attachment: req.Attachment})
}

// ConfirmPayment is the assigned provider acknowledging the proof.
func (s *paymentService) ConfirmPayment(ctx context.Context, actor models.Actor, jobID int64, note string) (*models.Job, error) {
	if note == "" {
		note = defaultConfirmNote
	}
	return s.transition(ctx, actor, jobID, "ConfirmPayment", "payment_confirmed",
		requireAssignedProvider, confirmPayment,
		&models.Message{MessageType: models.MessageTypePaymentConfirmation, Content: note})
}

// RejectPayment sends the payment back to pending. The requester may submit
// a new proof any number of times.
func (s *paymentService) RejectPayment(ctx context.Context, actor models.Actor, jobID int64, note string) (*models.Job, error) {
	if note == "" {
		note = defaultRejectNote
	}
	return s.transition(ctx, actor, jobID, "RejectPayment", "payment_rejected",
		requireAssignedProvider, rejectPayment,
		&models.Message{MessageType: models.MessageTypeText, Content: note})
}

func (s *paymentService) transition(
	ctx context.Context,
	actor models.Actor,
	jobID int64,
	operation, transition string,
	authorize func(models.Actor, *models.Job) error,
	apply func(*models.Job) error,
	msg *models.Message,
) (*models.Job, error) {
	var out *models.Job
	err := updateJob(ctx, s.store, s.log, jobID, operation, transition, func(ctx context.Context, tx storage.JobTx, job *models.Job) error {
		if err := authorize(actor, job); err != nil {
			return err
		}
		if err := apply(job); err != nil {
			return err
		}
		if err := tx.SaveJob(ctx, job); err != nil {
			return err
		}
		msg.JobID = job.ID
		msg.SenderID = actor.UserID
		if _, err := tx.AppendMessage(ctx, msg); err != nil {
			return err
		}
		out = job
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"service_id":     jobID,
		"user_id":        actor.UserID,
		"payment_status": out.PaymentStatus,
	}).Info(operation)
	return out, nil
}
