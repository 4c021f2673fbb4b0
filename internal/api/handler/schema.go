package handler

import "github.com/sundevs/user-access-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type registerRequest struct {
	FirstName string `json:"first_name" validate:"omitempty,max=40"`
	LastName  string `json:"last_name"  validate:"omitempty,max=40"`
	Email     string `json:"email"      validate:"required,email,max=40"`
	Password  string `json:"password"   validate:"required,maxbytes=72"`
	Role      string `json:"role"       validate:"omitempty,oneof=guest customer agent admin"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type assignRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=guest customer agent admin"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listUsersResponse struct {
	Data       []*domain.User `json:"data"`
	Pagination pagination     `json:"pagination"`
}
