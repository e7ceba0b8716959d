package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/messagely/internal/apperr"
	"github.com/sbilibin2017/messagely/internal/models"
)

// UserReadRepository handles user read operations
type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetPasswordHash returns the stored hash for username.
func (r *UserReadRepository) GetPasswordHash(ctx context.Context, username string) (string, error) {
	const query = `
		SELECT password_hash
		FROM users
		WHERE username = $1
	`

	var hash string
	err := r.db.GetContext(ctx, &hash, query, username)
	logQuery(query, []any{username}, err == nil, err)

	if err != nil {
		if isNoRows(err) {
			return "", apperr.NotFoundf("User %s not found.", username)
		}
		return "", err
	}
	return hash, nil
}

// Get returns the public profile of username together with its timestamps.
func (r *UserReadRepository) Get(ctx context.Context, username string) (*models.UserDetail, error) {
	const query = `
		SELECT username, first_name, last_name, phone, joined_at, last_login_at
		FROM users
		WHERE username = $1
	`

	var user models.UserDetail
	err := r.db.GetContext(ctx, &user, query, username)
	logQuery(query, []any{username}, user, err)

	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NotFoundf("User %s not found.", username)
		}
		return nil, err
	}
	return &user, nil
}

// List returns basic info on all users ordered by username.
func (r *UserReadRepository) List(ctx context.Context) ([]models.PublicUser, error) {
	const query = `
		SELECT username, first_name, last_name, phone
		FROM users
		ORDER BY username
	`

	users := []models.PublicUser{}
	err := r.db.SelectContext(ctx, &users, query)
	logQuery(query, nil, len(users), err)

	if err != nil {
		return nil, err
	}
	return users, nil
}

// UserWriteRepository handles user write operations
type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Create inserts a user with joined_at and last_login_at set to now.
// A taken username yields a Conflict error.
func (r *UserWriteRepository) Create(ctx context.Context, user *models.UserDB) (*models.PublicUser, error) {
	const query = `
		INSERT INTO users (username, password_hash, first_name, last_name, phone, joined_at, last_login_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING username, first_name, last_name, phone
	`

	var created models.PublicUser
	err := r.db.GetContext(ctx, &created, query,
		user.Username, user.PasswordHash, user.FirstName, user.LastName, user.Phone)

	logQuery(query, []any{user.Username, "<redacted>", user.FirstName, user.LastName, user.Phone}, created, err)

	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return nil, apperr.Conflictf("Username %s already exists.", user.Username)
		}
		return nil, err
	}
	return &created, nil
}

// UpdateLastLogin sets last_login_at to now.
func (r *UserWriteRepository) UpdateLastLogin(ctx context.Context, username string) error {
	const query = `
		UPDATE users
		SET last_login_at = NOW()
		WHERE username = $1
	`

	res, err := r.db.ExecContext(ctx, query, username)
	if err != nil {
		logQuery(query, []any{username}, nil, err)
		return err
	}

	rowsAffected, err := res.RowsAffected()
	logQuery(query, []any{username}, rowsAffected, err)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return apperr.NotFoundf("User %s not found.", username)
	}
	return nil
}
