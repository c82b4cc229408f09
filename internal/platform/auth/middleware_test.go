package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

var testCfg = JWTConfig{Issuer: "dermai", SigningKey: []byte("0123456789abcdef0123456789abcdef")}

func newCtx(authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	return he.Code
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	tok, err := IssueToken(testCfg, "doc-1", "hospital_dermai_01", []string{RoleDoctor}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	c, _ := newCtx("Bearer " + tok)

	var uid string
	var roles []string
	h := JWTMiddleware(testCfg)(func(c echo.Context) error {
		uid = UserIDFromContext(c.Request().Context())
		roles = RolesFromContext(c.Request().Context())
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uid != "doc-1" {
		t.Errorf("expected doc-1, got %q", uid)
	}
	if len(roles) != 1 || roles[0] != RoleDoctor {
		t.Errorf("unexpected roles %v", roles)
	}
	if hid, _ := c.Get("jwt_hospital_id").(string); hid != "hospital_dermai_01" {
		t.Errorf("expected hospital claim on context, got %q", hid)
	}
}

func TestJWTMiddleware_Rejects(t *testing.T) {
	expired, _ := IssueToken(testCfg, "u", "h", nil, -time.Minute)
	otherKey, _ := IssueToken(JWTConfig{Issuer: "dermai", SigningKey: []byte("another-key-another-key-another!!")}, "u", "h", nil, time.Hour)
	otherIssuer, _ := IssueToken(JWTConfig{Issuer: "someone", SigningKey: testCfg.SigningKey}, "u", "h", nil, time.Hour)

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc",
		"garbage":        "Bearer not.a.token",
		"expired":        "Bearer " + expired,
		"wrong key":      "Bearer " + otherKey,
		"wrong issuer":   "Bearer " + otherIssuer,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newCtx(header)
			err := JWTMiddleware(testCfg)(func(echo.Context) error { return nil })(c)
			if code := statusOf(t, err); code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", code)
			}
		})
	}
}

func TestDevAuthMiddleware_Defaults(t *testing.T) {
	c, _ := newCtx("")
	var uid string
	h := DevAuthMiddleware(testCfg)(func(c echo.Context) error {
		uid = UserIDFromContext(c.Request().Context())
		if !HasRole(c.Request().Context(), RoleDoctor) {
			t.Error("dev admin should satisfy any role")
		}
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uid != "dev-user" {
		t.Errorf("expected dev-user, got %q", uid)
	}
}

func TestDevAuthMiddleware_VerifiesProvidedToken(t *testing.T) {
	c, _ := newCtx("Bearer forged")
	err := DevAuthMiddleware(testCfg)(func(echo.Context) error { return nil })(c)
	if code := statusOf(t, err); code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", code)
	}
}

func TestRequireRole(t *testing.T) {
	patientTok, _ := IssueToken(testCfg, "p-1", "h", []string{RolePatient}, time.Hour)

	c, _ := newCtx("Bearer " + patientTok)
	chain := JWTMiddleware(testCfg)(RequireRole(RoleDoctor, RoleStaff)(func(echo.Context) error { return nil }))
	if code := statusOf(t, chain(c)); code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", code)
	}

	c, _ = newCtx("Bearer " + patientTok)
	chain = JWTMiddleware(testCfg)(RequireRole(RolePatient)(func(echo.Context) error { return nil }))
	if err := chain(c); err != nil {
		t.Errorf("expected patient to pass, got %v", err)
	}
}
