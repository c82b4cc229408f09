package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLimit(t *testing.T) {
	tests := map[string]int64{
		"1M":      1 << 20,
		"10MB":    10 << 20,
		"512k":    512 << 10,
		"1G":      1 << 30,
		"1024":    1024,
		"64B":     64,
		"":        defaultBodyLimit,
		"invalid": defaultBodyLimit,
		"-5K":     defaultBodyLimit,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLimit(in), in)
	}
}

func readAll(c echo.Context) error {
	_, err := io.ReadAll(c.Request().Body)
	return err
}

func TestBodyLimit(t *testing.T) {
	tests := []struct {
		name      string
		size      int
		chunked   bool
		limit     string
		wantCode  int
		wantCalls int
	}{
		{name: "small body", size: 16, limit: "1M", wantCalls: 1},
		{name: "exact size", size: 512, limit: "512", wantCalls: 1},
		{name: "declared too large", size: 2048, limit: "1K", wantCode: http.StatusRequestEntityTooLarge},
		{name: "chunked too large", size: 1024, chunked: true, limit: "512", wantCode: http.StatusRequestEntityTooLarge, wantCalls: 1},
		{name: "chunked exact", size: 512, chunked: true, limit: "512", wantCalls: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", bytes.NewReader(bytes.Repeat([]byte("a"), tt.size)))
			if tt.chunked {
				req.ContentLength = -1
			}
			c := echo.New().NewContext(req, httptest.NewRecorder())

			calls := 0
			err := BodyLimit(tt.limit)(func(c echo.Context) error {
				calls++
				return readAll(c)
			})(c)

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantCode == 0 {
				require.NoError(t, err)
				return
			}
			var he *echo.HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, tt.wantCode, he.Code)
		})
	}
}

func TestBodyLimit_NoBody(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil), httptest.NewRecorder())

	called := false
	err := BodyLimit("1")(func(echo.Context) error {
		called = true
		return nil
	})(c)
	require.NoError(t, err)
	assert.True(t, called)
}
