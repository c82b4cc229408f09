// Package capability decides, once per service instance, whether an
// external capability (an LLM provider, a storage backend, a cache) runs
// against the real dependency or against its deterministic stand-in.
package capability

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Mode is the decided execution path of a gate.
type Mode string

const (
	ModeLive Mode = "live"
	ModeMock Mode = "mock"
)

// Reasons reported by Status.
const (
	ReasonCredentialPresent = "credential present"
	ReasonCredentialMissing = "credential missing"
	ReasonTestMode          = "test mode override"
	ReasonUnreachable       = "unreachable at startup"
)

// Gate holds the availability decision for one capability. The decision is
// made in New and never changes; a Gate is safe for concurrent use.
type Gate struct {
	capability string
	available  bool
	testMode   bool
	degraded   bool
}

// New builds a gate for capability. The capability is available when
// credential is non-empty after trimming. testMode forces mock behaviour
// regardless of the credential.
func New(capability, credential string, testMode bool) *Gate {
	return &Gate{
		capability: capability,
		available:  strings.TrimSpace(credential) != "",
		testMode:   testMode,
	}
}

// Mock returns a gate that is always in mock mode.
func Mock(capability string) *Gate {
	return &Gate{capability: capability, testMode: true}
}

// Degraded returns a mock-mode copy of g for a capability whose credential
// was present but whose backend could not be reached.
func (g *Gate) Degraded() *Gate {
	return &Gate{capability: g.capability, available: g.available, degraded: true}
}

// Capability returns the name the gate was built with.
func (g *Gate) Capability() string { return g.capability }

// Available reports whether the credential was present.
func (g *Gate) Available() bool { return g.available }

// IsMock reports whether callers must take the mock path. A nil gate is
// treated as unavailable.
func (g *Gate) IsMock() bool {
	if g == nil {
		return true
	}
	return !g.available || g.testMode || g.degraded
}

func (g *Gate) Mode() Mode {
	if g.IsMock() {
		return ModeMock
	}
	return ModeLive
}

// Status is a serialisable snapshot of a gate decision.
type Status struct {
	Capability string `json:"capability"`
	Mode       Mode   `json:"mode"`
	Reason     string `json:"reason"`
}

func (g *Gate) Status() Status {
	s := Status{Capability: g.capability, Mode: g.Mode()}
	switch {
	case g.testMode:
		s.Reason = ReasonTestMode
	case g.degraded:
		s.Reason = ReasonUnreachable
	case !g.available:
		s.Reason = ReasonCredentialMissing
	default:
		s.Reason = ReasonCredentialPresent
	}
	return s
}

// Wrap tags a live-path failure with the capability name. A nil err stays
// nil.
func (g *Gate) Wrap(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Capability: g.capability, Err: err}
}

// Error is a failure of a live capability call.
type Error struct {
	Capability string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Capability, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsCapabilityError reports whether err came from a live capability call.
func IsCapabilityError(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}

// ResolveTestMode parses the raw override value. Empty means off. A value
// that cannot be parsed as a boolean enables test mode and is reported as
// malformed so the caller can log it.
func ResolveTestMode(raw string) (enabled bool, malformed bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	switch strings.ToLower(raw) {
	case "yes", "on":
		return true, false
	case "no", "off":
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true, true
	}
	return v, false
}
