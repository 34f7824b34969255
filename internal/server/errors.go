// Package server provides the HTTP REST API for the script studio.
package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrNoStoredKeys indicates the user has never saved API credentials
type ErrNoStoredKeys struct{}

func (e *ErrNoStoredKeys) Error() string {
	return "no API credentials stored for this user"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials:
		return http.StatusUnauthorized
	case *ErrUserNotFound:
		return http.StatusNotFound
	case *ErrNoStoredKeys:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
