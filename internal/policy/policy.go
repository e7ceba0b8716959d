// Package policy decides whether an authenticated identity may act on a
// message or a user's resources. Targets must come from the store, never
// from client input.
package policy

import (
	"github.com/sbilibin2017/messagely/internal/apperr"
	"github.com/sbilibin2017/messagely/internal/models"
)

var (
	ErrCannotView     = apperr.Forbiddenf("You're not allowed to view this message.")
	ErrCannotMarkRead = apperr.Forbiddenf("You're not allowed to mark this message as read.")
	ErrWrongUser      = apperr.Forbiddenf("You're not allowed to access another user's data.")
)

// CanView allows the sender or the recipient to read a message.
func CanView(identity models.PublicUser, msg *models.MessageDetail) error {
	if identity.Username == msg.FromUser.Username || identity.Username == msg.ToUser.Username {
		return nil
	}
	return ErrCannotView
}

// CanMarkRead allows only the recipient to mark a message read.
func CanMarkRead(identity models.PublicUser, msg *models.MessageDetail) error {
	if identity.Username == msg.ToUser.Username {
		return nil
	}
	return ErrCannotMarkRead
}

// CanAccessUser allows a user to see only their own profile and mailboxes.
func CanAccessUser(identity models.PublicUser, username string) error {
	if identity.Username == username {
		return nil
	}
	return ErrWrongUser
}
