// Package tools defines the functions the assistant may invoke during a
// conversation and the registry the engine resolves them from.
package tools

import (
	"context"
	"strings"
	"sync"
)

type Tool interface {
	Name() string
	Description() string
	// ParameterSchema returns the tool's JSON-schema parameter object as
	// a JSON string.
	ParameterSchema() string
	Execute(ctx context.Context, params map[string]any) (string, error)
}

type Registry struct {
	mu     sync.RWMutex
	order  []string
	byName map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Tool)}
}

// Register adds a tool; a later registration with the same name replaces
// the earlier one.
func (r *Registry) Register(t Tool) {
	if t == nil {
		return
	}
	name := strings.TrimSpace(t.Name())
	if name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[name]; !exists {
		r.order = append(r.order, name)
	}
	r.byName[name] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[strings.TrimSpace(name)]
	return t, ok
}

// All returns the registered tools in registration order.
func (r *Registry) All() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}
