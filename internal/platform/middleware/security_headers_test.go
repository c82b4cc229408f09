package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSecurityHeaders(t *testing.T, path string, handler echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, path, nil), rec)
	return rec, SecurityHeaders()(handler)(c)
}

func TestSecurityHeaders(t *testing.T) {
	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }

	tests := []struct {
		path      string
		wantCache string
	}{
		{"/api/v1/patients", "no-store"},
		{"/api/v1/patients/export", "no-store"},
		{"/health", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec, err := runSecurityHeaders(t, tt.path, ok)
			require.NoError(t, err)
			for _, kv := range securityHeaders {
				assert.Equal(t, kv[1], rec.Header().Get(kv[0]), kv[0])
			}
			assert.Equal(t, tt.wantCache, rec.Header().Get("Cache-Control"))
		})
	}
}

func TestSecurityHeaders_SetOnHandlerError(t *testing.T) {
	rec, err := runSecurityHeaders(t, "/api/v1/reports/x", func(echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "report not found")
	})

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusNotFound, he.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}
