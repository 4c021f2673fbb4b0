package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sundevs/user-access-api/internal/core/domain"
)

func roleContext(role domain.Role) echo.Context {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if role != "" {
		c.Set(principalKey, &domain.Principal{ID: 1, Role: role})
	}
	return c
}

func TestRequireRoles_Allows(t *testing.T) {
	g := RequireRoles(domain.RoleAdmin, domain.RoleAgent, domain.RoleCustomer)
	for _, r := range []domain.Role{domain.RoleAdmin, domain.RoleAgent, domain.RoleCustomer} {
		if err := g.Check(roleContext(r)); err != nil {
			t.Fatalf("role %s: expected allow, got %v", r, err)
		}
	}
}

func TestRequireRoles_Forbids(t *testing.T) {
	g := RequireRoles(domain.RoleAdmin, domain.RoleAgent, domain.RoleCustomer)
	if err := g.Check(roleContext(domain.RoleGuest)); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := g.Check(roleContext("")); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden without principal, got %v", err)
	}
}

func TestRequireRoles_ExactMembership(t *testing.T) {
	// Admin is not implicitly included in a set that omits it.
	if err := RequireRoles(domain.RoleAgent).Check(roleContext(domain.RoleAdmin)); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireRoles_EmptySetAllowsAll(t *testing.T) {
	if err := RequireRoles().Check(roleContext(domain.RoleGuest)); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
}
