package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func callWithRoles(roles []string, mw echo.MiddlewareFunc) error {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if roles != nil {
		req = req.WithContext(context.WithValue(req.Context(), UserRolesKey, roles))
	}
	c := e.NewContext(req, httptest.NewRecorder())
	return mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
}

func TestRequireRole_Matrix(t *testing.T) {
	clinical := RequireRole(RoleDoctor, RoleStaff)
	adminOnly := RequireRole(RoleAdmin)
	shared := RequireRole(RoleDoctor, RoleStaff, RolePatient)

	tests := []struct {
		name    string
		roles   []string
		mw      echo.MiddlewareFunc
		allowed bool
	}{
		{"admin on clinical", []string{RoleAdmin}, clinical, true},
		{"doctor on clinical", []string{RoleDoctor}, clinical, true},
		{"staff on clinical", []string{RoleStaff}, clinical, true},
		{"patient on clinical", []string{RolePatient}, clinical, false},
		{"patient on shared", []string{RolePatient}, shared, true},
		{"doctor on admin", []string{RoleDoctor}, adminOnly, false},
		{"admin on admin", []string{RoleAdmin}, adminOnly, true},
		{"no roles", []string{}, shared, false},
		{"no identity", nil, shared, false},
		{"unknown role", []string{"billing"}, shared, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := callWithRoles(tt.roles, tt.mw)
			if tt.allowed && err != nil {
				t.Errorf("expected access, got %v", err)
			}
			if !tt.allowed {
				he, ok := err.(*echo.HTTPError)
				if !ok || he.Code != http.StatusForbidden {
					t.Errorf("expected 403, got %v", err)
				}
			}
		})
	}
}

func TestAuthSkipper(t *testing.T) {
	e := echo.New()
	cfg := JWTConfig{SigningKey: []byte("k"), Skipper: AuthSkipper}

	for path, public := range map[string]bool{
		"/health":              true,
		"/api/v1/capabilities": true,
		"/api/v1/patients":     false,
	} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, path, nil), httptest.NewRecorder())
		c.SetPath(path)
		err := JWTMiddleware(cfg)(func(echo.Context) error { return nil })(c)
		if public && err != nil {
			t.Errorf("%s: expected public access, got %v", path, err)
		}
		if !public && err == nil {
			t.Errorf("%s: expected 401 without a token", path)
		}
		if IsPublicPath(path) != public {
			t.Errorf("IsPublicPath(%q) = %v", path, !public)
		}
	}
}

func TestUserIDFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), UserIDKey, "user-123")
	if uid := UserIDFromContext(ctx); uid != "user-123" {
		t.Errorf("expected user-123, got %s", uid)
	}
	if empty := UserIDFromContext(context.Background()); empty != "" {
		t.Errorf("expected empty string, got %s", empty)
	}
}
