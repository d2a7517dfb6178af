package services

import (
	"context"

	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"
	"marketplace-api/internal/transport/dto"

	"github.com/sirupsen/logrus"
)

type messageService struct {
	store storage.Store
	log   logrus.FieldLogger
}

// NewMessageService creates a new instance of MessageService.
func NewMessageService(store storage.Store, logger logrus.FieldLogger) MessageService {
	return &messageService{
		store: store,
		log:   logger.WithField("module", "services.messages"),
	}
}

func (s *messageService) ListMessages(ctx context.Context, actor models.Actor, jobID int64) ([]models.Message, error) {
	if err := s.authorizeRead(ctx, actor, jobID, "ListMessages"); err != nil {
		return nil, err
	}
	msgs, err := s.store.Messages().ListByJob(ctx, jobID)
	if err != nil {
		return nil, mapRepoError(s.log, err, "ListMessages")
	}
	return msgs, nil
}

// SendMessage appends a text message. Payment message types only come from
// the payment workflow.
func (s *messageService) SendMessage(ctx context.Context, actor models.Actor, jobID int64, req *dto.SendMessageRequest) (*models.Message, error) {
	var out *models.Message
	err := updateJob(ctx, s.store, s.log, jobID, "SendMessage", "", func(ctx context.Context, tx storage.JobTx, job *models.Job) error {
		err := requireThreadMember(actor, job, func() (bool, error) {
			return tx.HasPendingApplication(ctx, job.ID, actor.UserID)
		})
		if err != nil {
			return err
		}
		msg, err := tx.AppendMessage(ctx, &models.Message{
			JobID:       job.ID,
			SenderID:    actor.UserID,
			MessageType: models.MessageTypeText,
			Content:     req.Content,
		})
		if err != nil {
			return err
		}
		out = msg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead marks every message the caller did not send as read by the caller.
func (s *messageService) MarkRead(ctx context.Context, actor models.Actor, jobID int64) (int64, error) {
	if err := s.authorizeRead(ctx, actor, jobID, "MarkRead"); err != nil {
		return 0, err
	}
	marked, err := s.store.Messages().MarkRead(ctx, jobID, actor.UserID)
	if err != nil {
		return 0, mapRepoError(s.log, err, "MarkRead")
	}
	s.log.WithFields(logrus.Fields{"service_id": jobID, "user_id": actor.UserID, "marked": marked}).Debug("messages marked read")
	return marked, nil
}

func (s *messageService) authorizeRead(ctx context.Context, actor models.Actor, jobID int64, operation string) error {
	job, err := s.store.Jobs().GetByID(ctx, jobID)
	if err != nil {
		return mapRepoError(s.log, err, operation)
	}
	return requireThreadMember(actor, job, func() (bool, error) {
		apps, err := s.store.Applications().ListByJob(ctx, jobID)
		if err != nil {
			return false, mapRepoError(s.log, err, operation)
		}
		for _, app := range apps {
			if app.ProviderID == actor.UserID && app.Status == models.ApplicationStatusPending {
				return true, nil
			}
		}
		return false, nil
	})
}
