package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sundevs/user-access-api/internal/core/domain"
	"github.com/sundevs/user-access-api/internal/core/ports"
	"github.com/sundevs/user-access-api/internal/pkg/metrics"
)

// DefaultPageSize is the number of users per page of the list endpoint.
const DefaultPageSize = 10

type UserService struct {
	directory ports.UserDirectory
	pageSize  int
	logger    zerolog.Logger
	now       func() time.Time
}

func NewUserService(directory ports.UserDirectory, pageSize int, logger zerolog.Logger) *UserService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &UserService{directory: directory, pageSize: pageSize, logger: logger, now: time.Now}
}

// AssignRole sets the role of an existing user. Re-assigning the current role
// returns the record untouched without writing.
func (s *UserService) AssignRole(ctx context.Context, userID int64, role domain.Role) (*domain.User, error) {
	if !role.IsValid() {
		return nil, domain.ErrInvalidRole
	}

	user, err := s.directory.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Role == role {
		return user, nil
	}

	previous := user.Role
	user.Role = role
	user.UpdatedAt = s.now().UTC()

	saved, err := s.directory.Save(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	metrics.RoleAssignmentsTotal.WithLabelValues(string(role)).Inc()
	s.logger.Info().
		Int64("user_id", saved.ID).
		Str("from", string(previous)).
		Str("to", string(role)).
		Msg("role assigned")
	return saved, nil
}

// ListUsers returns a 1-based page of users. Pages below 1 are treated as 1.
func (s *UserService) ListUsers(ctx context.Context, page int) (*ports.ListUsersResult, error) {
	if page < 1 {
		page = 1
	}

	items, total, err := s.directory.List(ctx, page, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	totalPages := int((total + int64(s.pageSize) - 1) / int64(s.pageSize))

	return &ports.ListUsersResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      s.pageSize,
		TotalPages: totalPages,
	}, nil
}
