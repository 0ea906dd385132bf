package domain

import (
	"errors"
	"time"
)

var (
	// ErrUserNotFound indicates that the user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameRequired indicates an empty username.
	ErrUsernameRequired = errors.New("username is required")
	// ErrUsernameTaken indicates that the user with the given username already exists.
	ErrUsernameTaken = errors.New("username already exists")
)

// User holds user identity data. Users are created on first login.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
