package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sundevs/user-access-api/internal/core/domain"
	"github.com/sundevs/user-access-api/internal/core/ports"
)

const principalKey = "principal"

// Authenticate requires a valid bearer token and stores the decoded
// principal on the context for the guards and handler that follow.
func Authenticate(tokens ports.TokenIssuer) Guard {
	return Guard{
		Name: "authenticate",
		Check: func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.ErrUnauthorized
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return domain.ErrUnauthorized
			}

			principal, err := tokens.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				return err
			}

			c.Set(principalKey, principal)
			return nil
		},
	}
}

// PrincipalFromContext returns the principal stored by Authenticate.
func PrincipalFromContext(c echo.Context) (*domain.Principal, bool) {
	p, ok := c.Get(principalKey).(*domain.Principal)
	return p, ok && p != nil
}
