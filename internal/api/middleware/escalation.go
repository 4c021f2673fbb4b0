package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sundevs/user-access-api/internal/core/domain"
)

// requestedRole decodes the "role" field of the request body with the same
// JSON serializer the handler binds with, then rewinds the body. An empty body
// yields "". A body that is not JSON, or that the serializer rejects, is an
// error so a payload the guard cannot read never reaches the handler.
func requestedRole(c echo.Context) (domain.Role, error) {
	req := c.Request()
	if req.Body == nil || req.ContentLength == 0 {
		return "", nil
	}

	raw, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return "", err
	}
	req.Body = io.NopCloser(bytes.NewReader(raw))
	if len(raw) == 0 {
		return "", nil
	}

	base, _, _ := strings.Cut(req.Header.Get(echo.HeaderContentType), ";")
	if strings.TrimSpace(base) != echo.MIMEApplicationJSON {
		return "", echo.ErrUnsupportedMediaType
	}

	var body struct {
		Role string `json:"role"`
	}
	err = c.Echo().JSONSerializer.Deserialize(c, &body)
	req.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return "", he
		}
		return "", echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return domain.Role(body.Role), nil
}

// AdminRoleAssignment denies a request that asks to grant the admin role
// unless the authenticated actor is an admin. It must run after
// Authenticate.
func AdminRoleAssignment() Guard {
	return Guard{
		Name: "admin_role_assignment",
		Check: func(c echo.Context) error {
			role, err := requestedRole(c)
			if err != nil {
				return err
			}
			if !role.IsAdmin() {
				return nil
			}

			actor, ok := PrincipalFromContext(c)
			if !ok {
				return domain.ErrUnauthorized
			}
			if !actor.Role.IsAdmin() {
				return domain.ErrAdminRoleRequired
			}
			return nil
		},
	}
}

// RegistrationRole denies self-registration with the admin role. There is no
// authenticated actor at registration, so the denial is unconditional.
func RegistrationRole() Guard {
	return Guard{
		Name: "registration_role",
		Check: func(c echo.Context) error {
			role, err := requestedRole(c)
			if err != nil {
				return err
			}
			if role.IsAdmin() {
				return domain.ErrAdminRoleRequired
			}
			return nil
		},
	}
}
