package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sundevs/user-access-api/internal/core/domain"
	"github.com/sundevs/user-access-api/internal/core/service"
)

func newIssuer(t *testing.T) *service.JWTIssuer {
	t.Helper()
	issuer, err := service.NewTokenIssuer("secret", time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	return issuer
}

func TestAuthenticate_ValidToken(t *testing.T) {
	issuer := newIssuer(t)
	token, err := issuer.Issue(&domain.Principal{ID: 7, Email: "alice@x.com", Role: domain.RoleAgent})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c := e.NewContext(req, httptest.NewRecorder())

	if err := Authenticate(issuer).Check(c); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}

	p, ok := PrincipalFromContext(c)
	if !ok {
		t.Fatalf("principal not set")
	}
	if p.ID != 7 || p.Email != "alice@x.com" || p.Role != domain.RoleAgent {
		t.Fatalf("unexpected principal %+v", p)
	}
}

func TestAuthenticate_Denials(t *testing.T) {
	issuer := newIssuer(t)
	other, _ := service.NewTokenIssuer("other-secret", time.Hour)
	forged, _ := other.Issue(&domain.Principal{ID: 1, Email: "a@x.com", Role: domain.RoleAdmin})

	cases := map[string]string{
		"missing header":  "",
		"wrong scheme":    "Token abc",
		"empty token":     "Bearer ",
		"malformed token": "Bearer not.a.jwt",
		"bad signature":   "Bearer " + forged,
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			err := Authenticate(issuer).Check(c)
			if !errors.Is(err, domain.ErrUnauthorized) && !errors.Is(err, domain.ErrInvalidToken) {
				t.Fatalf("expected unauthorized, got %v", err)
			}
			if _, ok := PrincipalFromContext(c); ok {
				t.Fatalf("principal must not be set on denial")
			}
		})
	}
}
