package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sundevs/user-access-api/internal/core/domain"
	"github.com/sundevs/user-access-api/internal/core/ports"
	"github.com/sundevs/user-access-api/internal/pkg/metrics"
)

// AuthService implements credential validation, registration and login.
type AuthService struct {
	directory ports.UserDirectory
	hasher    ports.PasswordHasher
	tokens    ports.TokenIssuer
	logger    zerolog.Logger
	now       func() time.Time
}

func NewAuthService(directory ports.UserDirectory, hasher ports.PasswordHasher, tokens ports.TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{
		directory: directory,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
		now:       time.Now,
	}
}

// Validate looks the user up by email and compares the password against the
// stored hash. Unknown email and wrong password both yield (nil, nil).
func (s *AuthService) Validate(ctx context.Context, email, password string) (*domain.Principal, error) {
	user, err := s.directory.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
			return nil, nil
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := s.hasher.Compare(ctx, user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		s.logger.Debug().Int64("user_id", user.ID).Msg("password mismatch")
		return nil, nil
	}

	metrics.LoginAttemptsTotal.WithLabelValues("accepted").Inc()
	return user.Principal(), nil
}

// RegisterIfAbsent creates the user when the email is unused and returns a
// token for it. The role is taken as given; admin requests are rejected by
// the request guards before this is reached.
func (s *AuthService) RegisterIfAbsent(ctx context.Context, input ports.RegistrationInput) (string, error) {
	email := domain.NormalizeEmail(input.Email)

	_, err := s.directory.FindByEmail(ctx, email)
	switch {
	case err == nil:
		metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		s.logger.Debug().Str("email", email).Msg("registration rejected: email in use")
		return "", domain.ErrAlreadyRegistered
	case !errors.Is(err, domain.ErrUserNotFound):
		return "", fmt.Errorf("lookup user: %w", err)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleGuest
	}
	if !role.IsValid() {
		return "", domain.ErrInvalidRole
	}

	hash, err := s.hasher.Hash(ctx, input.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	created, err := s.directory.Create(ctx, &domain.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		}
		return "", err
	}

	token, err := s.tokens.Issue(created.Principal())
	if err != nil {
		return "", err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	metrics.TokensIssuedTotal.Inc()
	s.logger.Info().Int64("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return token, nil
}

// Login mirrors the upstream verification: no principal, no token.
func (s *AuthService) Login(_ context.Context, principal *domain.Principal) (string, error) {
	if principal == nil {
		return "", nil
	}

	token, err := s.tokens.Issue(principal)
	if err != nil {
		return "", err
	}

	metrics.TokensIssuedTotal.Inc()
	s.logger.Info().Int64("user_id", principal.ID).Msg("user logged in")
	return token, nil
}
