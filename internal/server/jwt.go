// Package server provides the HTTP REST API for the script studio.
package server

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/daniel/scriptstudio/internal/config"
	"github.com/daniel/scriptstudio/internal/server/middleware"
	"github.com/daniel/scriptstudio/internal/userdir"
)

// Claims represents JWT claims carrying the caller's identity.
type Claims struct {
	UserID uuid.UUID    `json:"user_id"`
	Role   userdir.Role `json:"role"`
	jwt.RegisteredClaims
}

// GetUserID returns the user ID from the claims.
func (c *Claims) GetUserID() uuid.UUID {
	return c.UserID
}

// GetRole returns the role from the claims.
func (c *Claims) GetRole() userdir.Role {
	return c.Role
}

// AsTokenValidator returns a TokenValidator adapter for this JWTService.
// This allows the JWTService to be used with middleware without creating import cycles.
func (s *JWTService) AsTokenValidator() middleware.TokenValidator {
	return &jwtServiceValidator{service: s}
}

type jwtServiceValidator struct {
	service *JWTService
}

func (v *jwtServiceValidator) ValidateToken(tokenString string) (middleware.ClaimsGetter, error) {
	claims, err := v.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// JWTService provides JWT token generation and validation functionality.
type JWTService struct {
	config *config.SessionConfig
}

// NewJWTService creates a new JWT service with the given session configuration.
func NewJWTService(cfg *config.SessionConfig) *JWTService {
	return &JWTService{
		config: cfg,
	}
}

// GenerateToken generates a JWT token for the given user identity.
func (s *JWTService) GenerateToken(userID uuid.UUID, role userdir.Role) (string, error) {
	now := time.Now()
	expiresAt := now.Add(s.config.TTL)

	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})

	if err != nil {
		if err == jwt.ErrSignatureInvalid {
			return nil, fmt.Errorf("invalid token signature: %w", err)
		}
		if err == jwt.ErrTokenExpired {
			return nil, fmt.Errorf("token expired: %w", err)
		}
		if err == jwt.ErrTokenMalformed {
			return nil, fmt.Errorf("malformed token: %w", err)
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}

	return claims, nil
}
