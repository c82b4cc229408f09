package capability

import (
	"net/http"
	"sort"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Registry collects the gates built at startup so their decisions can be
// logged and served.
type Registry struct {
	mu    sync.RWMutex
	gates map[string]*Gate
}

func NewRegistry() *Registry {
	return &Registry{gates: make(map[string]*Gate)}
}

// Add registers g and returns it, replacing any gate with the same name.
func (r *Registry) Add(g *Gate) *Gate {
	r.mu.Lock()
	r.gates[g.Capability()] = g
	r.mu.Unlock()
	return g
}

// Get returns the gate registered under name.
func (r *Registry) Get(name string) (*Gate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.gates[name]
	return g, ok
}

// Statuses returns a snapshot sorted by capability name.
func (r *Registry) Statuses() []Status {
	r.mu.RLock()
	out := make([]Status, 0, len(r.gates))
	for _, g := range r.gates {
		out = append(out, g.Status())
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Capability < out[j].Capability })
	return out
}

// Log writes one line per gate.
func (r *Registry) Log(logger zerolog.Logger) {
	for _, s := range r.Statuses() {
		ev := logger.Info()
		if s.Mode == ModeMock {
			ev = logger.Warn()
		}
		ev.Str("capability", s.Capability).
			Str("mode", string(s.Mode)).
			Str("reason", s.Reason).
			Msg("capability gate")
	}
}

// Handler serves the current gate decisions.
func (r *Registry) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"capabilities": r.Statuses(),
		})
	}
}
