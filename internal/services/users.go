package services

import (
	"context"
	"errors"

	"github.com/sbilibin2017/messagely/internal/apperr"
	"github.com/sbilibin2017/messagely/internal/logger"
	"github.com/sbilibin2017/messagely/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetPasswordHash(ctx context.Context, username string) (string, error)
	Get(ctx context.Context, username string) (*models.UserDetail, error)
	List(ctx context.Context) ([]models.PublicUser, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Create(ctx context.Context, user *models.UserDB) (*models.PublicUser, error)
	UpdateLastLogin(ctx context.Context, username string) error
}

var newUserFields = map[string]string{
	"Username":  "username",
	"Password":  "password",
	"FirstName": "first_name",
	"LastName":  "last_name",
	"Phone":     "phone",
}

// UserService is the credential store: it owns password hashing and
// verification, and never hands a hash to its callers.
type UserService struct {
	reader UserReader
	writer UserWriter
	cost   int // bcrypt work factor
}

// NewUserService creates a new UserService hashing with the given bcrypt cost.
func NewUserService(reader UserReader, writer UserWriter, cost int) *UserService {
	return &UserService{
		reader: reader,
		writer: writer,
		cost:   cost,
	}
}

// Register validates and stores a new user, returning its public fields.
func (s *UserService) Register(ctx context.Context, newUser models.NewUser) (*models.PublicUser, error) {
	if err := validateStruct(newUser, newUserFields); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newUser.Password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperr.Validationf("Password is longer than 72 bytes.")
		}
		logger.Log.Errorw("failed to hash password", "error", err)
		return nil, err
	}

	user, err := s.writer.Create(ctx, &models.UserDB{
		UserDetail: models.UserDetail{PublicUser: models.PublicUser{
			Username:  newUser.Username,
			FirstName: newUser.FirstName,
			LastName:  newUser.LastName,
			Phone:     newUser.Phone,
		}},
		PasswordHash: string(hashed),
	})
	if err != nil {
		logger.Log.Errorw("failed to save user", "username", newUser.Username, "error", err)
		return nil, err
	}
	return user, nil
}

// Authenticate reports whether password matches the stored hash of username.
// It has no side effects; the caller records the login.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	if password == "" {
		return false, apperr.Validationf(`No "password" given.`)
	}

	hash, err := s.reader.GetPasswordHash(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get password hash", "username", username, "error", err)
		return false, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		logger.Log.Errorw("failed to compare password hash", "username", username, "error", err)
		return false, err
	}
}

// UpdateLoginTimestamp records a successful login.
func (s *UserService) UpdateLoginTimestamp(ctx context.Context, username string) error {
	if err := s.writer.UpdateLastLogin(ctx, username); err != nil {
		logger.Log.Errorw("failed to update last login", "username", username, "error", err)
		return err
	}
	return nil
}

// Get returns a user's public profile with timestamps.
func (s *UserService) Get(ctx context.Context, username string) (*models.UserDetail, error) {
	user, err := s.reader.Get(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "username", username, "error", err)
		return nil, err
	}
	return user, nil
}

// ListAll returns basic info on all users.
func (s *UserService) ListAll(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.reader.List(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list users", "error", err)
		return nil, err
	}
	return users, nil
}
