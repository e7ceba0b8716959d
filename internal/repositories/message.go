package repositories

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/messagely/internal/apperr"
	"github.com/sbilibin2017/messagely/internal/models"
)

// MessageWriteRepository handles message write operations
type MessageWriteRepository struct {
	db *sqlx.DB
}

func NewMessageWriteRepository(db *sqlx.DB) *MessageWriteRepository {
	return &MessageWriteRepository{db: db}
}

// Create stores a message sent now. An unknown sender or recipient yields NotFound.
func (r *MessageWriteRepository) Create(ctx context.Context, fromUsername, toUsername, body string) (*models.Message, error) {
	const query = `
		INSERT INTO messages (from_username, to_username, body, sent_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, from_username, to_username, body, sent_at, read_at
	`
	args := []any{fromUsername, toUsername, body}

	var msg models.Message
	err := r.db.GetContext(ctx, &msg, query, args...)
	logQuery(query, args, msg.ID, err)

	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return nil, apperr.NotFoundf("User %s not found.", toUsername)
		}
		return nil, err
	}
	return &msg, nil
}

// MarkRead stamps read_at on the first call and keeps that stamp afterwards.
// FirstRead is true only for the call that set it; the row lock makes
// concurrent callers see the stamp left by the winner.
func (r *MessageWriteRepository) MarkRead(ctx context.Context, id int64) (*models.ReadReceipt, error) {
	const query = `
		WITH prev AS (
			SELECT id, read_at FROM messages WHERE id = $1 FOR UPDATE
		)
		UPDATE messages m
		SET read_at = COALESCE(m.read_at, NOW())
		FROM prev
		WHERE m.id = prev.id
		RETURNING m.id, m.read_at, prev.read_at IS NULL AS first_read
	`

	var receipt models.ReadReceipt
	err := r.db.GetContext(ctx, &receipt, query, id)
	logQuery(query, []any{id}, receipt, err)

	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NotFoundf("Message %d not found.", id)
		}
		return nil, err
	}
	return &receipt, nil
}

// MessageReadRepository handles message read operations
type MessageReadRepository struct {
	db *sqlx.DB
}

func NewMessageReadRepository(db *sqlx.DB) *MessageReadRepository {
	return &MessageReadRepository{db: db}
}

type messageDetailRow struct {
	ID            int64      `db:"id"`
	Body          string     `db:"body"`
	SentAt        time.Time  `db:"sent_at"`
	ReadAt        *time.Time `db:"read_at"`
	FromUsername  string     `db:"from_username"`
	FromFirstName string     `db:"from_first_name"`
	FromLastName  string     `db:"from_last_name"`
	FromPhone     string     `db:"from_phone"`
	ToUsername    string     `db:"to_username"`
	ToFirstName   string     `db:"to_first_name"`
	ToLastName    string     `db:"to_last_name"`
	ToPhone       string     `db:"to_phone"`
}

// Get returns a message with both endpoints joined from users.
func (r *MessageReadRepository) Get(ctx context.Context, id int64) (*models.MessageDetail, error) {
	const query = `
		SELECT m.id, m.body, m.sent_at, m.read_at,
		       f.username AS from_username, f.first_name AS from_first_name,
		       f.last_name AS from_last_name, f.phone AS from_phone,
		       t.username AS to_username, t.first_name AS to_first_name,
		       t.last_name AS to_last_name, t.phone AS to_phone
		FROM messages m
		JOIN users f ON f.username = m.from_username
		JOIN users t ON t.username = m.to_username
		WHERE m.id = $1
	`

	var row messageDetailRow
	err := r.db.GetContext(ctx, &row, query, id)
	logQuery(query, []any{id}, row.ID, err)

	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NotFoundf("Message %d not found.", id)
		}
		return nil, err
	}

	return &models.MessageDetail{
		ID:     row.ID,
		Body:   row.Body,
		SentAt: row.SentAt,
		ReadAt: row.ReadAt,
		FromUser: models.PublicUser{
			Username:  row.FromUsername,
			FirstName: row.FromFirstName,
			LastName:  row.FromLastName,
			Phone:     row.FromPhone,
		},
		ToUser: models.PublicUser{
			Username:  row.ToUsername,
			FirstName: row.ToFirstName,
			LastName:  row.ToLastName,
			Phone:     row.ToPhone,
		},
	}, nil
}

type mailboxRow struct {
	ID     int64      `db:"id"`
	Body   string     `db:"body"`
	SentAt time.Time  `db:"sent_at"`
	ReadAt *time.Time `db:"read_at"`
	models.PublicUser
}

// ListFrom returns the messages sent by username with their recipients.
func (r *MessageReadRepository) ListFrom(ctx context.Context, username string) ([]models.SentMessage, error) {
	const query = `
		SELECT m.id, m.body, m.sent_at, m.read_at,
		       u.username, u.first_name, u.last_name, u.phone
		FROM messages m
		JOIN users u ON u.username = m.to_username
		WHERE m.from_username = $1
		ORDER BY m.sent_at, m.id
	`

	var rows []mailboxRow
	err := r.db.SelectContext(ctx, &rows, query, username)
	logQuery(query, []any{username}, len(rows), err)
	if err != nil {
		return nil, err
	}

	messages := make([]models.SentMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, models.SentMessage{
			ID:     row.ID,
			Body:   row.Body,
			SentAt: row.SentAt,
			ReadAt: row.ReadAt,
			ToUser: row.PublicUser,
		})
	}
	return messages, nil
}

// ListTo returns the messages received by username with their senders.
func (r *MessageReadRepository) ListTo(ctx context.Context, username string) ([]models.ReceivedMessage, error) {
	const query = `
		SELECT m.id, m.body, m.sent_at, m.read_at,
		       u.username, u.first_name, u.last_name, u.phone
		FROM messages m
		JOIN users u ON u.username = m.from_username
		WHERE m.to_username = $1
		ORDER BY m.sent_at, m.id
	`

	var rows []mailboxRow
	err := r.db.SelectContext(ctx, &rows, query, username)
	logQuery(query, []any{username}, len(rows), err)
	if err != nil {
		return nil, err
	}

	messages := make([]models.ReceivedMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, models.ReceivedMessage{
			ID:       row.ID,
			Body:     row.Body,
			SentAt:   row.SentAt,
			ReadAt:   row.ReadAt,
			FromUser: row.PublicUser,
		})
	}
	return messages, nil
}
