package capability

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_Truth(t *testing.T) {
	tests := []struct {
		name       string
		credential string
		testMode   bool
		wantMock   bool
		wantReason string
	}{
		{"credential and no override", "sk-123", false, false, ReasonCredentialPresent},
		{"credential with override", "sk-123", true, true, ReasonTestMode},
		{"no credential", "", false, true, ReasonCredentialMissing},
		{"blank credential", "   ", false, true, ReasonCredentialMissing},
		{"no credential with override", "", true, true, ReasonTestMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New("ai:openai", tt.credential, tt.testMode)
			assert.Equal(t, tt.wantMock, g.IsMock())
			if tt.wantMock {
				assert.Equal(t, ModeMock, g.Mode())
			} else {
				assert.Equal(t, ModeLive, g.Mode())
			}
			st := g.Status()
			assert.Equal(t, "ai:openai", st.Capability)
			assert.Equal(t, tt.wantReason, st.Reason)
		})
	}
}

func TestGate_NilIsMock(t *testing.T) {
	var g *Gate
	assert.True(t, g.IsMock())
}

func TestGate_MockConstructor(t *testing.T) {
	g := Mock("cache:redis")
	assert.True(t, g.IsMock())
	assert.False(t, g.Available())
	assert.Equal(t, "cache:redis", g.Capability())
}

func TestGate_Wrap(t *testing.T) {
	g := New("ai:anthropic", "key", false)
	assert.NoError(t, g.Wrap(nil))

	base := errors.New("status 500")
	err := g.Wrap(base)
	require.Error(t, err)
	assert.Equal(t, "ai:anthropic: status 500", err.Error())
	assert.ErrorIs(t, err, base)
	assert.True(t, IsCapabilityError(err))

	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "ai:anthropic", ce.Capability)

	assert.False(t, IsCapabilityError(base))
}

func TestResolveTestMode(t *testing.T) {
	tests := []struct {
		raw           string
		wantEnabled   bool
		wantMalformed bool
	}{
		{"", false, false},
		{"  ", false, false},
		{"true", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"yes", true, false},
		{"on", true, false},
		{"false", false, false},
		{"0", false, false},
		{"off", false, false},
		{"sometimes", true, true},
		{"2", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			enabled, malformed := ResolveTestMode(tt.raw)
			assert.Equal(t, tt.wantEnabled, enabled)
			assert.Equal(t, tt.wantMalformed, malformed)
		})
	}
}

func TestGate_Degraded(t *testing.T) {
	live := New("cache:redis", "redis://localhost:6379", false)
	require.False(t, live.IsMock())

	d := live.Degraded()
	assert.True(t, d.IsMock())
	assert.True(t, d.Available())
	assert.Equal(t, Status{Capability: "cache:redis", Mode: ModeMock, Reason: ReasonUnreachable}, d.Status())
	assert.False(t, live.IsMock(), "original gate unchanged")

	r := NewRegistry()
	r.Add(live)
	r.Add(d)
	got := r.Statuses()
	require.Len(t, got, 1)
	assert.Equal(t, ModeMock, got[0].Mode)
}

func TestRegistry_StatusesSortedAndServed(t *testing.T) {
	r := NewRegistry()
	r.Add(New("store:postgres", "postgres://x", false))
	r.Add(New("ai:openai", "", false))

	got := r.Statuses()
	require.Len(t, got, 2)
	assert.Equal(t, "ai:openai", got[0].Capability)
	assert.Equal(t, ModeMock, got[0].Mode)
	assert.Equal(t, ModeLive, got[1].Mode)

	g, ok := r.Get("store:postgres")
	require.True(t, ok)
	assert.False(t, g.IsMock())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/capabilities", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, r.Handler()(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Capabilities []Status `json:"capabilities"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, got, body.Capabilities)
}
