package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Auth settings for the studio console. Session tokens are signed with a
// shared secret and expire after a fixed lifetime; passwords are bcrypt
// hashes, optionally salted server-side with a pepper.

const (
	defaultSessionTTL = 72 * time.Hour
	defaultBcryptCost = 12
)

// SessionConfig signs and bounds console session tokens.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

// LoadSessionConfig reads SESSION_SECRET (required) and SESSION_TTL (a Go
// duration string, default 72h).
func LoadSessionConfig() (*SessionConfig, error) {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return nil, errors.New("SESSION_SECRET must be set")
	}

	ttl := defaultSessionTTL
	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL %q: %w", raw, err)
		}
		if parsed < time.Minute {
			return nil, fmt.Errorf("SESSION_TTL %s is below the one minute floor", parsed)
		}
		ttl = parsed
	}

	return &SessionConfig{Secret: secret, TTL: ttl}, nil
}

// PasswordConfig controls password hashing for the user directory.
type PasswordConfig struct {
	Cost   int
	Pepper string
}

// LoadPasswordConfig reads BCRYPT_COST (default 12, bounded 10..16) and the
// optional PASSWORD_PEPPER.
func LoadPasswordConfig() (*PasswordConfig, error) {
	cost := defaultBcryptCost
	if raw := os.Getenv("BCRYPT_COST"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST %q: %w", raw, err)
		}
		cost = parsed
	}
	if cost < 10 || cost > 16 {
		return nil, fmt.Errorf("BCRYPT_COST %d outside the 10..16 range", cost)
	}

	return &PasswordConfig{Cost: cost, Pepper: os.Getenv("PASSWORD_PEPPER")}, nil
}

func (c *PasswordConfig) peppered(pw string) []byte {
	return []byte(pw + c.Pepper)
}

// Hash derives the stored hash for a password.
func (c *PasswordConfig) Hash(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(c.peppered(pw), c.Cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether a password matches a stored hash.
func (c *PasswordConfig) Verify(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), c.peppered(pw)) == nil
}
