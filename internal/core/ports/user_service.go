package ports

import (
	"context"

	"github.com/sundevs/user-access-api/internal/core/domain"
)

// ListUsersResult is one page of users plus pagination metadata.
type ListUsersResult struct {
	Items      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserService defines the account management use cases.
type UserService interface {
	AssignRole(ctx context.Context, userID int64, role domain.Role) (*domain.User, error)
	ListUsers(ctx context.Context, page int) (*ListUsersResult, error)
}
