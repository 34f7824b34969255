package server

import (
	"time"

	"github.com/google/uuid"

	"github.com/daniel/scriptstudio/internal/userdir"
)

// CreateUserRequest is the registration payload.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of a user record.
type UserResponse struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Role      userdir.Role `json:"role"`
	CreatedAt time.Time    `json:"created_at"`
}

// LoginResponse carries the authenticated user and their bearer token.
type LoginResponse struct {
	User  *UserResponse `json:"user"`
	Token string        `json:"token"`
}

// SaveKeysRequest carries the raw credential blob: one key per line.
type SaveKeysRequest struct {
	Keys string `json:"keys" validate:"required"`
}

// KeysResponse reports how many usable keys the caller has stored. The keys
// themselves are never echoed back.
type KeysResponse struct {
	KeyCount int `json:"key_count"`
}

// TranslateRequest is the subtitle translation payload.
type TranslateRequest struct {
	SRT      string `json:"srt" validate:"required"`
	Language string `json:"language" validate:"required,min=2,max=60"`
	Notes    string `json:"notes" validate:"max=2000"`
}

// TranslateResponse carries the translated subtitle file.
type TranslateResponse struct {
	SRT string `json:"srt"`
}

// RunRequest is the auto-run payload.
type RunRequest struct {
	Text     string `json:"text" validate:"required"`
	Style    string `json:"style" validate:"max=100"`
	RowCount int    `json:"row_count" validate:"min=0,max=50"`
}

// StyleResponse is one catalog entry in the styles listing.
type StyleResponse struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

func userResponse(u *userdir.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
