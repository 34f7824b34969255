package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"email conflict", &ErrEmailAlreadyExists{Email: "a@b.c"}, http.StatusConflict},
		{"bad credentials", &ErrInvalidCredentials{}, http.StatusUnauthorized},
		{"missing user", &ErrUserNotFound{UserID: uuid.New()}, http.StatusNotFound},
		{"no stored keys", &ErrNoStoredKeys{}, http.StatusNotFound},
		{"validation", &ErrValidation{Field: "email", Message: "required"}, http.StatusBadRequest},
		{"anything else", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
