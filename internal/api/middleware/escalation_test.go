package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sundevs/user-access-api/internal/core/domain"
)

func jsonContext(body string, actor *domain.Principal) echo.Context {
	return bodyContext(echo.MIMEApplicationJSON, body, actor)
}

func bodyContext(contentType, body string, actor *domain.Principal) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, contentType)
	c := e.NewContext(req, httptest.NewRecorder())
	if actor != nil {
		c.Set(principalKey, actor)
	}
	return c
}

func TestAdminRoleAssignment(t *testing.T) {
	admin := &domain.Principal{ID: 1, Role: domain.RoleAdmin}
	agent := &domain.Principal{ID: 2, Role: domain.RoleAgent}

	cases := []struct {
		name    string
		body    string
		actor   *domain.Principal
		wantErr error
	}{
		{"admin grants admin", `{"role":"admin"}`, admin, nil},
		{"agent grants admin", `{"role":"admin"}`, agent, domain.ErrAdminRoleRequired},
		{"agent grants customer", `{"role":"customer"}`, agent, nil},
		{"admin grants guest", `{"role":"guest"}`, admin, nil},
		{"no role field", `{}`, agent, nil},
		{"trailing data after admin", `{"role":"admin"} x`, agent, domain.ErrAdminRoleRequired},
		{"second value after admin", `{"role":"admin"}{}`, agent, domain.ErrAdminRoleRequired},
		{"case folded key", `{"ROLE":"admin"}`, agent, domain.ErrAdminRoleRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := AdminRoleAssignment().Check(jsonContext(tc.body, tc.actor))
			if tc.wantErr == nil && err != nil {
				t.Fatalf("expected allow, got %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAdminRoleAssignment_RestoresBody(t *testing.T) {
	c := jsonContext(`{"role":"customer"}`, &domain.Principal{Role: domain.RoleAgent})

	if err := AdminRoleAssignment().Check(c); err != nil {
		t.Fatalf("unexpected denial: %v", err)
	}
	raw, _ := io.ReadAll(c.Request().Body)
	if string(raw) != `{"role":"customer"}` {
		t.Fatalf("body not restored, got %q", raw)
	}
}

func TestRegistrationRole(t *testing.T) {
	if err := RegistrationRole().Check(jsonContext(`{"email":"a@x.com","role":"admin"}`, nil)); !errors.Is(err, domain.ErrAdminRoleRequired) {
		t.Fatalf("expected admin registration to be denied, got %v", err)
	}
	// An authenticated admin is irrelevant at registration.
	if err := RegistrationRole().Check(jsonContext(`{"role":"admin"}`, &domain.Principal{Role: domain.RoleAdmin})); !errors.Is(err, domain.ErrAdminRoleRequired) {
		t.Fatalf("expected unconditional denial, got %v", err)
	}
	for _, body := range []string{`{"role":"customer"}`, `{"role":"guest"}`, `{"email":"a@x.com"}`, ``} {
		if err := RegistrationRole().Check(jsonContext(body, nil)); err != nil {
			t.Fatalf("body %q: expected allow, got %v", body, err)
		}
	}
}

func TestEscalationGuards_RejectUnreadableBodies(t *testing.T) {
	agent := &domain.Principal{ID: 2, Role: domain.RoleAgent}

	cases := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
	}{
		{"truncated json", echo.MIMEApplicationJSON, `{"role":`, http.StatusBadRequest},
		{"wrong type", echo.MIMEApplicationJSON, `{"role":1}`, http.StatusBadRequest},
		{"xml body", echo.MIMEApplicationXML, `<r><Role>admin</Role></r>`, http.StatusUnsupportedMediaType},
		{"form body", echo.MIMEApplicationForm, `role=admin`, http.StatusUnsupportedMediaType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			guards := map[string]Guard{
				"admin_role_assignment": AdminRoleAssignment(),
				"registration_role":     RegistrationRole(),
			}
			for name, g := range guards {
				err := g.Check(bodyContext(tc.contentType, tc.body, agent))
				var he *echo.HTTPError
				if !errors.As(err, &he) || he.Code != tc.wantStatus {
					t.Fatalf("%s: expected HTTP %d, got %v", name, tc.wantStatus, err)
				}
			}
		})
	}
}

func TestRegistrationRole_JSONWithCharset(t *testing.T) {
	c := bodyContext(echo.MIMEApplicationJSONCharsetUTF8, `{"role":"admin"}`, nil)
	if err := RegistrationRole().Check(c); !errors.Is(err, domain.ErrAdminRoleRequired) {
		t.Fatalf("expected denial, got %v", err)
	}
}
