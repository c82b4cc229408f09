package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dermai/clinic/internal/platform/capability"
	"github.com/dermai/clinic/internal/platform/store"
)

func TestFrom(t *testing.T) {
	gate := capability.New("ai:openai", "sk", false)
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"not found", fmt.Errorf("get patient: %w", store.ErrNotFound), http.StatusNotFound, "not found"},
		{"invalid", store.Invalid("name is required"), http.StatusBadRequest, "name is required"},
		{"conflict", fmt.Errorf("%w: insufficient stock", store.ErrConflict), http.StatusConflict, "insufficient stock"},
		{"no hospital", store.ErrNoHospital, http.StatusBadRequest, "hospital scope required"},
		{"capability", gate.Wrap(errors.New("status 503")), http.StatusBadGateway, "ai:openai unavailable"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var he *echo.HTTPError
			require.ErrorAs(t, From(tt.err), &he)
			assert.Equal(t, tt.wantCode, he.Code)
			assert.Equal(t, tt.wantMsg, he.Message)
		})
	}
}

func TestFrom_PassesHTTPErrors(t *testing.T) {
	orig := echo.NewHTTPError(http.StatusTeapot, "short and stout")
	assert.Same(t, orig, From(orig))
	assert.NoError(t, From(nil))
}
