package keystore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists sealed credential blobs in PostgreSQL, one per user.
type Store struct {
	pool   *pgxpool.Pool
	sealer *Sealer
}

// Connect establishes a connection pool and wraps it with the given sealer.
func Connect(ctx context.Context, databaseURL string, sealer *Sealer) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{pool: pool, sealer: sealer}, nil
}

// NewStore wraps an existing pool. The caller keeps ownership of the pool.
func NewStore(pool *pgxpool.Pool, sealer *Sealer) *Store {
	return &Store{pool: pool, sealer: sealer}
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// SaveCredentials seals and upserts a user's raw credential blob. The blob is
// the newline-delimited key list exactly as the user entered it.
func (s *Store) SaveCredentials(ctx context.Context, userID uuid.UUID, raw string) error {
	sealed, err := s.sealer.Seal([]byte(raw))
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO api_credentials (user_id, sealed_blob, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET sealed_blob = $2, updated_at = NOW()`,
		userID, sealed,
	)
	if err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

// LoadCredentials returns a user's decrypted credential blob, or "" when the
// user has never saved one.
func (s *Store) LoadCredentials(ctx context.Context, userID uuid.UUID) (string, error) {
	var sealed []byte
	err := s.pool.QueryRow(ctx,
		`SELECT sealed_blob FROM api_credentials WHERE user_id = $1`,
		userID,
	).Scan(&sealed)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to load credentials: %w", err)
	}

	raw, err := s.sealer.Open(sealed)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// DeleteCredentials removes a user's stored blob. Deleting a blob that does
// not exist is not an error.
func (s *Store) DeleteCredentials(ctx context.Context, userID uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM api_credentials WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}
	return nil
}
