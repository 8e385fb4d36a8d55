package rpc

import (
	"fmt"
	"sync"
)

// Registry manages RPC method handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates a new handler registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register adds a handler for an RPC method.
func (r *Registry) Register(h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := h.Name()
	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("handler already registered for method: %s", name)
	}

	r.handlers[name] = h
	return nil
}

// MustRegister adds a handler and panics if registration fails.
func (r *Registry) MustRegister(h Handler) {
	if err := r.Register(h); err != nil {
		panic(err)
	}
}

// Get returns the handler for an RPC method, nil when unknown.
func (r *Registry) Get(method string) Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handlers[method]
}

// Methods returns all registered method names.
func (r *Registry) Methods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	methods := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		methods = append(methods, name)
	}
	return methods
}

// AdminMethods returns all admin method names.
func (r *Registry) AdminMethods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	methods := make([]string, 0)
	for name, h := range r.handlers {
		if h.RequiresAdmin() {
			methods = append(methods, name)
		}
	}
	return methods
}
