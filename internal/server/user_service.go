package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/daniel/scriptstudio/internal/config"
	"github.com/daniel/scriptstudio/internal/userdir"
)

// UserDirectory is the subset of the user directory the service needs.
type UserDirectory interface {
	CreateUser(ctx context.Context, name, email, passwordHash string, role userdir.Role) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*userdir.User, error)
	GetUserByEmail(ctx context.Context, email string) (*userdir.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// UserService provides business logic for user authentication operations
type UserService struct {
	dir            UserDirectory
	passwordConfig *config.PasswordConfig
}

// NewUserService creates a new UserService with the given dependencies
func NewUserService(dir UserDirectory, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{
		dir:            dir,
		passwordConfig: passwordConfig,
	}
}

// Register creates a new user with password authentication. New users start
// as editors; role changes are an admin operation.
func (s *UserService) Register(ctx context.Context, req *CreateUserRequest) (*userdir.User, error) {
	exists, err := s.dir.CheckEmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	passwordHash, err := s.passwordConfig.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.dir.CreateUser(ctx, req.Name, req.Email, passwordHash, userdir.RoleEditor)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user, err := s.dir.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("created user not found: %s", userID)
	}

	return user, nil
}

// Login authenticates a user and returns the directory record.
func (s *UserService) Login(ctx context.Context, req *LoginRequest) (*userdir.User, error) {
	user, err := s.dir.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	// A missing user and a wrong password produce the same generic error.
	if user == nil {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.Verify(req.Password, user.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	return user, nil
}

// UpdatePassword updates a user's password after verifying the current one.
func (s *UserService) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.dir.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return &ErrUserNotFound{UserID: userID}
	}

	if !s.passwordConfig.Verify(currentPassword, user.PasswordHash) {
		return &ErrInvalidCredentials{}
	}

	newHash, err := s.passwordConfig.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.dir.UpdatePassword(ctx, userID, newHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
