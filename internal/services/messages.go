package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/messagely/internal/apperr"
	"github.com/sbilibin2017/messagely/internal/logger"
	"github.com/sbilibin2017/messagely/internal/models"
	"github.com/sbilibin2017/messagely/internal/policy"
)

// MessageReader defines read operations for messages.
type MessageReader interface {
	Get(ctx context.Context, id int64) (*models.MessageDetail, error)
	ListFrom(ctx context.Context, username string) ([]models.SentMessage, error)
	ListTo(ctx context.Context, username string) ([]models.ReceivedMessage, error)
}

// MessageWriter defines write operations for messages.
type MessageWriter interface {
	Create(ctx context.Context, fromUsername, toUsername, body string) (*models.Message, error)
	MarkRead(ctx context.Context, id int64) (*models.ReadReceipt, error)
}

// EventPublisher delivers message events to subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event models.MessageEvent) error
}

var newMessageFields = map[string]string{
	"ToUsername": "to_username",
	"Body":       "body",
}

// MessageService creates and retrieves messages. The *As methods apply the
// authorization policy; the others do not and must stay behind it.
type MessageService struct {
	reader MessageReader
	writer MessageWriter
	events EventPublisher
}

// NewMessageService creates a new MessageService. events may be nil.
func NewMessageService(reader MessageReader, writer MessageWriter, events EventPublisher) *MessageService {
	return &MessageService{
		reader: reader,
		writer: writer,
		events: events,
	}
}

// publish delivers an event; failures are logged and never returned.
func (s *MessageService) publish(ctx context.Context, eventType string, id int64, from, to string) {
	if s.events == nil {
		logger.Log.Debugw("event publisher not configured, skipping publishing", "type", eventType, "message_id", id)
		return
	}

	event := models.MessageEvent{
		EventID:      uuid.NewString(),
		Type:         eventType,
		MessageID:    id,
		FromUsername: from,
		ToUsername:   to,
		OccurredAt:   time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		logger.Log.Errorw("failed to publish message event", "type", eventType, "message_id", id, "error", err)
		return
	}
	logger.Log.Infow("message event published", "type", eventType, "message_id", id)
}

// Create stores a message from fromUsername.
func (s *MessageService) Create(ctx context.Context, fromUsername string, newMessage models.NewMessage) (*models.Message, error) {
	if err := validateStruct(newMessage, newMessageFields); err != nil {
		return nil, err
	}

	msg, err := s.writer.Create(ctx, fromUsername, newMessage.ToUsername, newMessage.Body)
	if err != nil {
		logger.Log.Errorw("failed to save message", "from", fromUsername, "to", newMessage.ToUsername, "error", err)
		return nil, err
	}

	s.publish(ctx, models.EventMessageSent, msg.ID, msg.FromUsername, msg.ToUsername)
	return msg, nil
}

// Get returns a message with its sender and recipient.
func (s *MessageService) Get(ctx context.Context, id int64) (*models.MessageDetail, error) {
	msg, err := s.reader.Get(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get message", "id", id, "error", err)
		return nil, err
	}
	return msg, nil
}

// MarkRead stamps read_at once; repeated calls return the original stamp.
func (s *MessageService) MarkRead(ctx context.Context, id int64) (*models.ReadReceipt, error) {
	receipt, err := s.writer.MarkRead(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to mark message read", "id", id, "error", err)
		return nil, err
	}
	return receipt, nil
}

// GetAs returns the message if identity is its sender or recipient.
func (s *MessageService) GetAs(ctx context.Context, identity models.PublicUser, id int64) (*models.MessageDetail, error) {
	msg, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanView(identity, msg); err != nil {
		logger.Log.Warnw("message view denied", "id", id, "username", identity.Username)
		return nil, err
	}
	return msg, nil
}

// MarkReadAs marks the message read if identity is its recipient.
// The check runs before the write.
func (s *MessageService) MarkReadAs(ctx context.Context, identity models.PublicUser, id int64) (*models.ReadReceipt, error) {
	msg, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanMarkRead(identity, msg); err != nil {
		logger.Log.Warnw("mark read denied", "id", id, "username", identity.Username)
		return nil, err
	}

	receipt, err := s.MarkRead(ctx, id)
	if err != nil {
		return nil, err
	}

	if receipt.FirstRead {
		s.publish(ctx, models.EventMessageRead, id, msg.FromUser.Username, msg.ToUser.Username)
	}
	return receipt, nil
}

// MessagesFrom returns the messages sent by username. An empty mailbox is NotFound.
func (s *MessageService) MessagesFrom(ctx context.Context, username string) ([]models.SentMessage, error) {
	msgs, err := s.reader.ListFrom(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to list sent messages", "username", username, "error", err)
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, apperr.NotFoundf("No messages from %s found.", username)
	}
	return msgs, nil
}

// MessagesTo returns the messages received by username. An empty mailbox is NotFound.
func (s *MessageService) MessagesTo(ctx context.Context, username string) ([]models.ReceivedMessage, error) {
	msgs, err := s.reader.ListTo(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to list received messages", "username", username, "error", err)
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, apperr.NotFoundf("No messages for %s found.", username)
	}
	return msgs, nil
}
