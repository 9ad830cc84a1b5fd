// Package bootstrap handles one-time initialization tasks for the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dukerupert/shopery/internal/auth"
	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/repository"
)

// MinAdminPasswordLength is stricter than the customer minimum.
const MinAdminPasswordLength = 12

// AdminConfig contains configuration for the initial admin user.
type AdminConfig struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Validate checks that the admin configuration is valid.
func (c *AdminConfig) Validate() error {
	if c.Email == "" {
		return errors.New("admin email is required")
	}
	if c.Password == "" {
		return errors.New("admin password is required")
	}
	if len(c.Password) < MinAdminPasswordLength {
		return fmt.Errorf("admin password must be at least %d characters", MinAdminPasswordLength)
	}
	return nil
}

// UserStore is the part of repository.Querier bootstrap needs.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (repository.User, error)
	CreateUser(ctx context.Context, arg repository.CreateUserParams) (repository.User, error)
}

// EnsureAdmin creates the initial admin user if it doesn't exist.
// This function is idempotent - safe to call on every startup.
//
// If a user with the email already exists it returns without error, whatever
// that user's role. An unset email or password skips creation with a warning.
func EnsureAdmin(ctx context.Context, store UserStore, hasher auth.Hasher, cfg *AdminConfig, logger zerolog.Logger) error {
	if cfg == nil || cfg.Email == "" || cfg.Password == "" {
		logger.Warn().
			Str("hint", "Set SHOPERY_ADMIN_EMAIL and SHOPERY_ADMIN_PASSWORD to create an admin user on first startup").
			Msg("bootstrap: skipping admin creation")
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid admin configuration: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(cfg.Email))

	_, err := store.GetUserByEmail(ctx, email)
	if err == nil {
		logger.Info().Str("email", email).Msg("bootstrap: admin user already exists")
		return nil
	}
	if !repository.IsNotFound(err) {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}

	passwordHash, err := hasher.Hash(cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	firstName := cfg.FirstName
	if firstName == "" {
		firstName = "Admin"
	}
	lastName := cfg.LastName
	if lastName == "" {
		lastName = "User"
	}

	user, err := store.CreateUser(ctx, repository.CreateUserParams{
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         string(domain.RoleAdmin),
	})
	if _, unique := repository.IsUniqueViolation(err); unique {
		// Another instance created it concurrently.
		logger.Info().Str("email", email).Msg("bootstrap: admin user already exists (concurrent creation)")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info().
		Str("email", email).
		Str("user_id", user.PublicID.String()).
		Msg("bootstrap: admin user created successfully")
	return nil
}
