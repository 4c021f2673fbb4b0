package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sundevs/user-access-api/internal/core/domain"
	"github.com/sundevs/user-access-api/internal/core/ports"
)

// EnsureAdmin creates an admin account with the given credentials unless a
// user with that email already exists. Registration can never produce an
// admin, so this is the only way the first one comes to be.
// Returns true when an account was created.
func EnsureAdmin(ctx context.Context, directory ports.UserDirectory, hasher ports.PasswordHasher, email, password string, logger zerolog.Logger) (bool, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}

	existing, err := directory.FindByEmail(ctx, email)
	if err == nil {
		logger.Info().Int64("user_id", existing.ID).Msg("admin account present, skipping bootstrap")
		return false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return false, fmt.Errorf("checking admin account: %w", err)
	}

	hash, err := hasher.Hash(ctx, password)
	if err != nil {
		return false, fmt.Errorf("hashing admin password: %w", err)
	}

	now := time.Now().UTC()
	created, err := directory.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return false, nil
		}
		return false, fmt.Errorf("creating admin account: %w", err)
	}

	logger.Warn().Int64("user_id", created.ID).Str("email", email).Msg("bootstrap admin account created")
	return true, nil
}
