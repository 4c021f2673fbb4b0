package ports

import (
	"context"

	"github.com/sundevs/user-access-api/internal/core/domain"
)

// RegistrationInput carries the candidate account submitted at registration.
// An empty Role means guest.
type RegistrationInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      domain.Role
}

// CredentialVerifier checks an email/password pair. A nil principal with a
// nil error means the credentials were rejected; which factor failed is not
// reported.
type CredentialVerifier interface {
	Validate(ctx context.Context, email, password string) (*domain.Principal, error)
}

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer interface {
	Issue(principal *domain.Principal) (string, error)
	// Verify fails with domain.ErrInvalidToken on bad signature, malformed
	// input or expiry.
	Verify(token string) (*domain.Principal, error)
}

type AuthService interface {
	RegisterIfAbsent(ctx context.Context, input RegistrationInput) (string, error)
	// Login issues a token for an already verified principal. A nil principal
	// yields an empty token and no error.
	Login(ctx context.Context, principal *domain.Principal) (string, error)
	Validate(ctx context.Context, email, password string) (*domain.Principal, error)
}
