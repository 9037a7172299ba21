package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/caremeet/telehealth-api/internal/model"
	"github.com/caremeet/telehealth-api/internal/repository"
	"github.com/caremeet/telehealth-api/internal/service/notification"
	apperrors "github.com/caremeet/telehealth-api/pkg/errors"
	"github.com/caremeet/telehealth-api/pkg/logger"
	"github.com/caremeet/telehealth-api/pkg/messaging"
)

const defaultConversationLimit = 100

// Service stores direct messages and pushes them to the recipient's
// broker channel for realtime delivery. The database row is the source
// of truth; the broker publish is best effort.
type Service struct {
	repo     repository.MessageRepository
	users    repository.UserRepository
	broker   messaging.Broker
	notifier notification.Service
	logger   *logger.Logger
}

func NewService(
	repo repository.MessageRepository,
	users repository.UserRepository,
	broker messaging.Broker,
	notifier notification.Service,
	logger *logger.Logger,
) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		broker:   broker,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *Service) Send(ctx context.Context, senderID uuid.UUID, req *model.SendMessageRequest) (*model.ChatMessage, error) {
	if senderID == req.RecipientID {
		return nil, apperrors.BadRequest("You cannot message yourself")
	}

	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sender: %w", err)
	}
	_, err = s.users.GetByID(ctx, req.RecipientID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Recipient not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipient: %w", err)
	}

	message := &model.ChatMessage{
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Content:     req.Content,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if err := s.broker.Publish(ctx, messaging.UserChannel(req.RecipientID.String()), message); err != nil {
		s.logger.Error(err, "failed to publish chat message", "recipient_id", req.RecipientID.String())
	}

	if _, err := s.notifier.Notify(ctx, model.CreateNotificationInput{
		UserID:  req.RecipientID,
		Title:   "New Message",
		Message: fmt.Sprintf("New message from %s", sender.Username),
		Type:    model.NotificationTypeChat,
	}); err != nil {
		s.logger.Error(err, "failed to send chat notification", "recipient_id", req.RecipientID.String())
	}

	return message, nil
}

// GetConversation returns the recent messages between the caller and the
// other user, oldest first, and marks the caller's unread ones as read.
func (s *Service) GetConversation(ctx context.Context, callerID, otherID uuid.UUID, limit int) ([]*model.ChatMessage, error) {
	if limit <= 0 || limit > defaultConversationLimit {
		limit = defaultConversationLimit
	}

	messages, err := s.repo.ListConversation(ctx, callerID, otherID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation: %w", err)
	}

	if err := s.repo.MarkRead(ctx, callerID, otherID); err != nil {
		s.logger.Error(err, "failed to mark conversation read", "user_id", callerID.String())
	}
	return messages, nil
}
