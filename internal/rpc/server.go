package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Request is the wire form of an RPC call: a method name and a single
// params object carried in a one-element array.
type Request struct {
	Method string                   `json:"method"`
	Params []map[string]interface{} `json:"params,omitempty"`
}

// Response wraps every reply. Result always carries a "status" field:
// "success", or "error" with "error" and "error_message" alongside.
type Response struct {
	Result map[string]interface{} `json:"result"`
}

// Server is the HTTP JSON-RPC server.
type Server struct {
	registry *Registry
	services *Services
	timeout  time.Duration

	// AdminEnabled gates the admin method set. Deployments that front the
	// daemon with a public proxy leave it off and submit admin
	// transactions over a private listener.
	AdminEnabled bool
}

// NewServer creates an RPC server over the given services.
func NewServer(services *Services, timeout time.Duration) *Server {
	registry := NewRegistry()
	RegisterMarketMethods(registry)
	return &Server{
		registry: registry,
		services: services,
		timeout:  timeout,
	}
}

// Registry exposes the method registry, for installing extra handlers.
func (s *Server) Registry() *Registry {
	return s.registry
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResult(w, errorResult("invalidRequest", fmt.Sprintf("parse request: %v", err)))
		return
	}

	handler := s.registry.Get(req.Method)
	if handler == nil {
		writeResult(w, errorResult("unknownMethod", fmt.Sprintf("unknown method: %s", req.Method)))
		return
	}
	if handler.RequiresAdmin() && !s.AdminEnabled {
		writeResult(w, errorResult("forbidden", fmt.Sprintf("method %s requires admin", req.Method)))
		return
	}

	params := map[string]interface{}{}
	if len(req.Params) > 0 && req.Params[0] != nil {
		params = req.Params[0]
	}

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := handler.Handle(ctx, params, s.services)
	if err != nil {
		writeResult(w, errorResult("failed", err.Error()))
		return
	}
	writeResult(w, successResult(result))
}

// HealthHandler answers liveness probes.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"geomarketd"}`))
	})
}

func successResult(result interface{}) map[string]interface{} {
	out := map[string]interface{}{"status": "success"}
	if m, ok := result.(map[string]interface{}); ok {
		for k, v := range m {
			out[k] = v
		}
		return out
	}
	out["data"] = result
	return out
}

func errorResult(code, message string) map[string]interface{} {
	return map[string]interface{}{
		"status":        "error",
		"error":         code,
		"error_message": message,
	}
}

func writeResult(w http.ResponseWriter, result map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{Result: result})
}
