package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/sundevs/user-access-api/internal/core/domain"
)

// RequireRoles allows principals whose role is exactly one of roles. An empty
// set places no restriction. It must run after Authenticate.
func RequireRoles(roles ...domain.Role) Guard {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return Guard{
		Name: "roles",
		Check: func(c echo.Context) error {
			if len(allowed) == 0 {
				return nil
			}
			p, ok := PrincipalFromContext(c)
			if !ok {
				return domain.ErrForbidden
			}
			if _, ok := allowed[p.Role]; !ok {
				return domain.ErrForbidden
			}
			return nil
		},
	}
}
