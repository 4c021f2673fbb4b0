package ports

import (
	"context"

	"github.com/sundevs/user-access-api/internal/core/domain"
)

// UserDirectory defines the persistence operations for user accounts.
//
// Lookups return domain.ErrUserNotFound when no live (not soft-deleted) user
// matches. Create returns domain.ErrAlreadyRegistered when the store's unique
// email constraint rejects the insert.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Save overwrites an existing user row and returns the stored record.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	// List returns a 1-based page of users ordered by id and the total count.
	List(ctx context.Context, page, pageSize int) ([]*domain.User, int64, error)
}

// PasswordHasher performs the slow, salted one-way password transform.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	// Compare reports whether password matches hash. A mismatch is not an error.
	Compare(ctx context.Context, hash, password string) (bool, error)
}
