package models

import "time"

// Message event types.
const (
	EventMessageSent = "message.sent"
	EventMessageRead = "message.read"
)

// MessageEvent is published after a message is stored or marked read.
type MessageEvent struct {
	EventID      string    `json:"event_id"`
	Type         string    `json:"type"`
	MessageID    int64     `json:"message_id"`
	FromUsername string    `json:"from_username"`
	ToUsername   string    `json:"to_username"`
	OccurredAt   time.Time `json:"occurred_at"`
}
