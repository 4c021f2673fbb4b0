package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sundevs/user-access-api/internal/core/domain"
	"github.com/sundevs/user-access-api/internal/core/ports"
)

type AuthHandler struct {
	auth ports.AuthService
}

func NewAuthHandler(auth ports.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register creates a new user account and returns an access token for it.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.auth.RegisterIfAbsent(c.Request().Context(), ports.RegistrationInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      domain.Role(req.Role),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, tokenResponse{AccessToken: token})
}

// Login exchanges valid credentials for an access token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	ctx := c.Request().Context()
	principal, err := h.auth.Validate(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	// A rejected credential pair is a nil principal, never an empty success.
	if principal == nil {
		return domain.ErrUnauthorized
	}

	token, err := h.auth.Login(ctx, principal)
	if err != nil {
		return err
	}
	if token == "" {
		return domain.ErrUnauthorized
	}

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token})
}
