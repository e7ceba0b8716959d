package models

import "time"

// PublicUser holds the user fields safe to expose and to embed in tokens.
type PublicUser struct {
	Username  string `json:"username" db:"username"`     // Unique, immutable username
	FirstName string `json:"first_name" db:"first_name"` // Given name
	LastName  string `json:"last_name" db:"last_name"`   // Family name
	Phone     string `json:"phone" db:"phone"`           // Contact phone
}

// UserDetail is a PublicUser with its lifecycle timestamps.
type UserDetail struct {
	PublicUser
	JoinedAt    time.Time `json:"joined_at" db:"joined_at"`         // Set once at registration
	LastLoginAt time.Time `json:"last_login_at" db:"last_login_at"` // Updated on every successful login
}

// UserDB represents a user record in the database.
// PasswordHash never leaves the repositories and services packages.
type UserDB struct {
	UserDetail
	PasswordHash string `json:"-" db:"password_hash"`
}

// NewUser carries registration input before the password is hashed.
type NewUser struct {
	Username  string `validate:"required"`
	Password  string `validate:"required"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Phone     string `validate:"required"`
}
