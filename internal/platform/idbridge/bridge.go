// Package idbridge maps identifiers issued by the previous storage backend
// to the identifiers used by the current one.
//
// A Bridge is built once at startup from a static artifact and never
// changes afterwards, so it can be shared by every request goroutine
// without locking.
package idbridge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a mapping artifact.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Bridge is an immutable legacy-id to current-id table.
type Bridge struct {
	table map[string]string
}

// New copies table into a new Bridge. Later changes to table are not seen.
func New(table map[string]string) *Bridge {
	b := &Bridge{table: make(map[string]string, len(table))}
	for k, v := range table {
		b.table[k] = v
	}
	return b
}

// Empty returns a bridge that resolves every identifier to itself.
func Empty() *Bridge {
	return &Bridge{table: map[string]string{}}
}

// Load reads a mapping artifact from path. The format follows the file
// extension: .yaml and .yml are YAML, everything else is JSON. An empty
// path yields an empty bridge.
func Load(path string) (*Bridge, error) {
	if path == "" {
		return Empty(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read id map: %w", err)
	}
	b, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("id map %s: %w", filepath.Base(path), err)
	}
	return b, nil
}

// FormatFromPath picks the artifact format from a file name.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes a flat string-to-string mapping. Nested values, numbers and
// empty keys are rejected.
func Parse(data []byte, format Format) (*Bridge, error) {
	raw := map[string]interface{}{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	table := make(map[string]string, len(raw))
	for k, v := range raw {
		if k == "" {
			return nil, fmt.Errorf("empty legacy id")
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("legacy id %q: value must be a string, got %T", k, v)
		}
		if s == "" {
			return nil, fmt.Errorf("legacy id %q: empty target id", k)
		}
		table[k] = s
	}
	return &Bridge{table: table}, nil
}

// Resolve returns the current identifier for id, or id itself when the
// table has no entry. It performs exactly one lookup: a mapped value is
// never resolved again.
func (b *Bridge) Resolve(id string) string {
	if b == nil {
		return id
	}
	if mapped, ok := b.table[id]; ok {
		return mapped
	}
	return id
}

// Len reports the number of entries.
func (b *Bridge) Len() int {
	if b == nil {
		return 0
	}
	return len(b.table)
}

// Chains lists legacy ids whose target is itself a legacy id. Resolve does
// not follow such chains; the list is only for startup diagnostics.
func (b *Bridge) Chains() []string {
	if b == nil {
		return nil
	}
	var out []string
	for k, v := range b.table {
		if _, ok := b.table[v]; ok && v != k {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
