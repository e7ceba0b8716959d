package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/messagely/internal/apperr"
	"github.com/sbilibin2017/messagely/internal/middlewares"
	"github.com/sbilibin2017/messagely/internal/models"
)

// MessageViewer fetches a message on behalf of identity.
type MessageViewer interface {
	GetAs(ctx context.Context, identity models.PublicUser, id int64) (*models.MessageDetail, error)
}

// MessageSender stores a message from a user.
type MessageSender interface {
	Create(ctx context.Context, fromUsername string, newMessage models.NewMessage) (*models.Message, error)
}

// MessageMarker marks a message read on behalf of identity.
type MessageMarker interface {
	MarkReadAs(ctx context.Context, identity models.PublicUser, id int64) (*models.ReadReceipt, error)
}

var errUnauthorized = apperr.Unauthorizedf("Unauthorized")

// SendMessageRequest represents the JSON body for sending a message
// swagger:model SendMessageRequest
type SendMessageRequest struct {
	// Recipient username
	// required: true
	// default: jane_doe
	ToUsername string `json:"to_username"`

	// Message text
	// required: true
	// default: hello
	Body string `json:"body"`
}

// SentMessage is a stored message as returned to its sender.
// swagger:model SentMessage
type SentMessage struct {
	ID           int64     `json:"id"`
	FromUsername string    `json:"from_username"`
	ToUsername   string    `json:"to_username"`
	Body         string    `json:"body"`
	SentAt       time.Time `json:"sent_at"`
}

// SendMessageResponse wraps the stored message.
// swagger:model SendMessageResponse
type SendMessageResponse struct {
	Message SentMessage `json:"message"`
}

// MessageResponse wraps a message with both users.
// swagger:model MessageResponse
type MessageResponse struct {
	Message *models.MessageDetail `json:"message"`
}

// ReadReceiptResponse wraps the result of marking a message read.
// swagger:model ReadReceiptResponse
type ReadReceiptResponse struct {
	Message *models.ReadReceipt `json:"message"`
}

func parseMessageID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validationf("Invalid message id %q", raw)
	}
	return id, nil
}

// NewGetMessageHandler returns an HTTP handler for a single message.
// @Summary Get message
// @Description Returns a message if the logged-in user sent or received it
// @Tags messages
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} handlers.MessageResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid id"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.ErrorResponse "Neither sender nor recipient"
// @Failure 404 {object} handlers.ErrorResponse "No such message"
// @Router /messages/{id} [get]
// @Security BearerAuth
func NewGetMessageHandler(svc MessageViewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middlewares.IdentityFromContext(r.Context())
		if !ok {
			writeError(w, errUnauthorized)
			return
		}

		id, err := parseMessageID(r)
		if err != nil {
			writeError(w, err)
			return
		}

		msg, err := svc.GetAs(r.Context(), identity, id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
	}
}

// NewSendMessageHandler returns an HTTP handler for sending a message.
// @Summary Send message
// @Description Sends a message from the logged-in user
// @Tags messages
// @Accept json
// @Produce json
// @Param sendMessageRequest body handlers.SendMessageRequest true "Message"
// @Success 201 {object} handlers.SendMessageResponse
// @Failure 400 {object} handlers.ErrorResponse "Missing fields / invalid request"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Unknown recipient"
// @Router /messages [post]
// @Security BearerAuth
func NewSendMessageHandler(svc MessageSender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middlewares.IdentityFromContext(r.Context())
		if !ok {
			writeError(w, errUnauthorized)
			return
		}

		var req SendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadBody(w)
			return
		}

		msg, err := svc.Create(r.Context(), identity.Username, models.NewMessage{
			ToUsername: req.ToUsername,
			Body:       req.Body,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, SendMessageResponse{Message: SentMessage{
			ID:           msg.ID,
			FromUsername: msg.FromUsername,
			ToUsername:   msg.ToUsername,
			Body:         msg.Body,
			SentAt:       msg.SentAt,
		}})
	}
}

// NewMarkReadHandler returns an HTTP handler marking a message read.
// @Summary Mark message read
// @Description Marks a message read; only its recipient may do so
// @Tags messages
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} handlers.ReadReceiptResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid id"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.ErrorResponse "Not the recipient"
// @Failure 404 {object} handlers.ErrorResponse "No such message"
// @Router /messages/{id}/read [post]
// @Security BearerAuth
func NewMarkReadHandler(svc MessageMarker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middlewares.IdentityFromContext(r.Context())
		if !ok {
			writeError(w, errUnauthorized)
			return
		}

		id, err := parseMessageID(r)
		if err != nil {
			writeError(w, err)
			return
		}

		receipt, err := svc.MarkReadAs(r.Context(), identity, id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ReadReceiptResponse{Message: receipt})
	}
}
