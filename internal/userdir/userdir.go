// Package userdir provides PostgreSQL-backed user records and role checks
// for the server.
package userdir

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Role controls what a user may do. Roles are strictly ordered: each role
// includes everything the roles below it may do.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// rank maps roles to their position in the ordering. Unknown roles rank
// below viewer so a corrupted record never gains access.
func rank(r Role) int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleEditor:
		return 2
	case RoleViewer:
		return 1
	default:
		return 0
	}
}

// Allows reports whether a user holding role r may perform an action that
// requires at least the given role.
func (r Role) Allows(required Role) bool {
	return rank(r) >= rank(required) && rank(r) > 0
}

// User is one directory record. PasswordHash never leaves this package's
// callers toward API responses.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Directory wraps a PostgreSQL connection pool of user records.
type Directory struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*Directory, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Directory{pool: pool}, nil
}

// NewDirectory wraps an existing pool. The caller keeps ownership of the pool.
func NewDirectory(pool *pgxpool.Pool) *Directory {
	return &Directory{pool: pool}
}

// Close closes the connection pool.
func (d *Directory) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
}

// CreateUser inserts a new user and returns its ID.
func (d *Directory) CreateUser(ctx context.Context, name, email, passwordHash string, role Role) (uuid.UUID, error) {
	var id uuid.UUID
	err := d.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		name, email, passwordHash, role,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// GetUser retrieves a user by ID. Returns nil when no such user exists.
func (d *Directory) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return d.scanUser(d.pool.QueryRow(ctx,
		`SELECT id, name, email, role, password_hash, created_at, updated_at
		 FROM users WHERE id = $1`,
		id,
	))
}

// GetUserByEmail retrieves a user by email. Returns nil when no such user exists.
func (d *Directory) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return d.scanUser(d.pool.QueryRow(ctx,
		`SELECT id, name, email, role, password_hash, created_at, updated_at
		 FROM users WHERE email = $1`,
		email,
	))
}

func (d *Directory) scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// CheckEmailExists reports whether a user record with this email exists.
func (d *Directory) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := d.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// UpdatePassword replaces a user's password hash.
func (d *Directory) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result, err := d.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// UpdateRole changes a user's role.
func (d *Directory) UpdateRole(ctx context.Context, id uuid.UUID, role Role) error {
	result, err := d.pool.Exec(ctx,
		`UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`,
		role, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}
