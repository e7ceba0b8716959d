package services

import (
	"context"

	"github.com/sbilibin2017/messagely/internal/apperr"
	"github.com/sbilibin2017/messagely/internal/logger"
	"github.com/sbilibin2017/messagely/internal/models"
)

// ErrInvalidCredentials is returned by Login for an unknown user or a wrong password.
var ErrInvalidCredentials = apperr.Unauthorizedf("Invalid username / password")

// CredentialStore defines the user operations the login flow needs.
type CredentialStore interface {
	Register(ctx context.Context, newUser models.NewUser) (*models.PublicUser, error)
	Authenticate(ctx context.Context, username, password string) (bool, error)
	UpdateLoginTimestamp(ctx context.Context, username string) error
	Get(ctx context.Context, username string) (*models.UserDetail, error)
}

// TokenIssuer defines an interface for issuing identity tokens.
type TokenIssuer interface {
	Issue(ctx context.Context, user models.PublicUser) (string, error)
}

// AuthService handles registration and login.
type AuthService struct {
	users  CredentialStore
	tokens TokenIssuer
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(users CredentialStore, tokens TokenIssuer) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
	}
}

// Register creates the user and returns a token for it.
func (svc *AuthService) Register(ctx context.Context, newUser models.NewUser) (string, error) {
	user, err := svc.users.Register(ctx, newUser)
	if err != nil {
		return "", err
	}

	token, err := svc.tokens.Issue(ctx, *user)
	if err != nil {
		logger.Log.Errorw("failed to issue token", "username", user.Username, "error", err)
		return "", err
	}
	return token, nil
}

// Login authenticates a user, records the login and returns a token.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	ok, err := svc.users.Authenticate(ctx, username, password)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !ok {
		logger.Log.Infow("invalid credentials", "username", username)
		return "", ErrInvalidCredentials
	}

	user, err := svc.users.Get(ctx, username)
	if err != nil {
		return "", err
	}

	token, err := svc.tokens.Issue(ctx, user.PublicUser)
	if err != nil {
		logger.Log.Errorw("failed to issue token", "username", username, "error", err)
		return "", err
	}

	if err := svc.users.UpdateLoginTimestamp(ctx, username); err != nil {
		return "", err
	}
	return token, nil
}
