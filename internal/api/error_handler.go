package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sundevs/user-access-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes and fixed messages.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Expected outcomes: normal control flow, not system errors.
	code, msg, known := domainStatus(err)
	if known {
		log.Debug().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Int("status", code).
			Msg("request rejected")
		return code, msg
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

func domainStatus(err error) (int, string, bool) {
	switch {
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return http.StatusConflict, "User already registered", true
	case errors.Is(err, domain.ErrAdminRoleRequired):
		return http.StatusUnauthorized, "Only administrators can assign the admin role.", true
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "Unauthorized", true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Forbidden", true
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User does not exist", true
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, "invalid role", true
	case errors.Is(err, domain.ErrPasswordTooLong):
		return http.StatusBadRequest, "password must be at most 72 bytes", true
	}
	return 0, "", false
}
