package models

import "time"

// Message represents a message row as stored.
type Message struct {
	ID           int64      `json:"id" db:"id"`
	FromUsername string     `json:"from_username" db:"from_username"`
	ToUsername   string     `json:"to_username" db:"to_username"`
	Body         string     `json:"body" db:"body"`
	SentAt       time.Time  `json:"sent_at" db:"sent_at"`
	ReadAt       *time.Time `json:"read_at" db:"read_at"` // nil until the recipient reads it
}

// MessageDetail is a message with both endpoints resolved to public profiles.
type MessageDetail struct {
	ID       int64      `json:"id"`
	Body     string     `json:"body"`
	SentAt   time.Time  `json:"sent_at"`
	ReadAt   *time.Time `json:"read_at"`
	FromUser PublicUser `json:"from_user"`
	ToUser   PublicUser `json:"to_user"`
}

// SentMessage is an entry of a sender's mailbox.
type SentMessage struct {
	ID     int64      `json:"id"`
	Body   string     `json:"body"`
	SentAt time.Time  `json:"sent_at"`
	ReadAt *time.Time `json:"read_at"`
	ToUser PublicUser `json:"to_user"`
}

// ReceivedMessage is an entry of a recipient's mailbox.
type ReceivedMessage struct {
	ID       int64      `json:"id"`
	Body     string     `json:"body"`
	SentAt   time.Time  `json:"sent_at"`
	ReadAt   *time.Time `json:"read_at"`
	FromUser PublicUser `json:"from_user"`
}

// ReadReceipt is the result of marking a message read.
type ReadReceipt struct {
	ID        int64     `json:"id" db:"id"`
	ReadAt    time.Time `json:"read_at" db:"read_at"`
	FirstRead bool      `json:"-" db:"first_read"` // this call set read_at
}

// NewMessage carries the caller-supplied part of a message.
type NewMessage struct {
	ToUsername string `validate:"required"`
	Body       string `validate:"required"`
}
