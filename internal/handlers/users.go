package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/messagely/internal/models"
)

// UserLister lists every user.
type UserLister interface {
	ListAll(ctx context.Context) ([]models.PublicUser, error)
}

// UserGetter fetches a single user.
type UserGetter interface {
	Get(ctx context.Context, username string) (*models.UserDetail, error)
}

// MailboxReader lists the messages a user sent or received.
type MailboxReader interface {
	MessagesFrom(ctx context.Context, username string) ([]models.SentMessage, error)
	MessagesTo(ctx context.Context, username string) ([]models.ReceivedMessage, error)
}

// UsersResponse lists users.
// swagger:model UsersResponse
type UsersResponse struct {
	Users []models.PublicUser `json:"users"`
}

// UserResponse wraps a single user.
// swagger:model UserResponse
type UserResponse struct {
	User *models.UserDetail `json:"user"`
}

// SentMessagesResponse lists a sender's messages.
// swagger:model SentMessagesResponse
type SentMessagesResponse struct {
	Messages []models.SentMessage `json:"messages"`
}

// ReceivedMessagesResponse lists a recipient's messages.
// swagger:model ReceivedMessagesResponse
type ReceivedMessagesResponse struct {
	Messages []models.ReceivedMessage `json:"messages"`
}

// NewListUsersHandler returns an HTTP handler listing all users.
// @Summary List users
// @Description Returns username, name and phone of every user
// @Tags users
// @Produce json
// @Success 200 {object} handlers.UsersResponse
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /users [get]
// @Security BearerAuth
func NewListUsersHandler(svc UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.ListAll(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, UsersResponse{Users: users})
	}
}

// NewGetUserHandler returns an HTTP handler for a user's profile.
// @Summary Get user
// @Description Returns the profile of the logged-in user
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} handlers.UserResponse
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.ErrorResponse "Another user's profile"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Router /users/{username} [get]
// @Security BearerAuth
func NewGetUserHandler(svc UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.Get(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, UserResponse{User: user})
	}
}

// NewMessagesFromHandler returns an HTTP handler for a user's sent messages.
// @Summary Sent messages
// @Description Returns messages sent by the logged-in user
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} handlers.SentMessagesResponse
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.ErrorResponse "Another user's mailbox"
// @Failure 404 {object} handlers.ErrorResponse "No messages"
// @Router /users/{username}/from [get]
// @Security BearerAuth
func NewMessagesFromHandler(svc MailboxReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msgs, err := svc.MessagesFrom(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, SentMessagesResponse{Messages: msgs})
	}
}

// NewMessagesToHandler returns an HTTP handler for a user's received messages.
// @Summary Received messages
// @Description Returns messages sent to the logged-in user
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} handlers.ReceivedMessagesResponse
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.ErrorResponse "Another user's mailbox"
// @Failure 404 {object} handlers.ErrorResponse "No messages"
// @Router /users/{username}/to [get]
// @Security BearerAuth
func NewMessagesToHandler(svc MailboxReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msgs, err := svc.MessagesTo(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ReceivedMessagesResponse{Messages: msgs})
	}
}
