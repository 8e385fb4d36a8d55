// Package rpc provides the HTTP JSON-RPC surface of the marketplace.
package rpc

import (
	"context"

	"github.com/geomarket/geomarketd/internal/core/market"
)

// Handler defines the interface for RPC method handlers.
type Handler interface {
	// Name returns the RPC method name.
	Name() string

	// Handle processes the RPC request and returns a response.
	Handle(ctx context.Context, params map[string]interface{}, services *Services) (interface{}, error)

	// RequiresAdmin returns true if the method requires admin privileges.
	RequiresAdmin() bool
}

// Services provides access to everything RPC handlers need.
type Services struct {
	// Engine is the transactional market core.
	Engine *market.Engine
}
