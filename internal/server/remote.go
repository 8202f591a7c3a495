package server

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// ErrUnknownMethod is returned when invoking an unregistered remote method.
var ErrUnknownMethod = errors.New("unknown remote method")

// RemoteMethodHandler handles an invocation from the host's internal RPC
// mechanism.
type RemoteMethodHandler func(ctx context.Context, params map[string]any) error

// RemoteMethodRegistry binds method names to handlers.
type RemoteMethodRegistry struct {
	mu      sync.RWMutex
	methods map[string]RemoteMethodHandler
	logger  zerolog.Logger
}

// NewRemoteMethodRegistry creates an empty registry.
func NewRemoteMethodRegistry(logger zerolog.Logger) *RemoteMethodRegistry {
	return &RemoteMethodRegistry{
		methods: make(map[string]RemoteMethodHandler),
		logger:  logger,
	}
}

// Register binds a handler to a method name. Rebinding a name is an error.
func (r *RemoteMethodRegistry) Register(name string, handler RemoteMethodHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.methods[name]; exists {
		return fmt.Errorf("remote method %q already registered", name)
	}
	r.methods[name] = handler
	return nil
}

// Invoke dispatches a method by name.
func (r *RemoteMethodRegistry) Invoke(ctx context.Context, name string, params map[string]any) error {
	r.mu.RLock()
	handler, ok := r.methods[name]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}

	r.logger.Debug().Str("method", name).Msg("invoking remote method")
	return handler(ctx, params)
}

// paramString extracts a parameter and renders it as a string, matching the
// facade's pass-through handling of request values.
func paramString(params map[string]any, key string) (string, error) {
	value, ok := params[key]
	if !ok || value == nil {
		return "", fmt.Errorf("missing parameter: %s", key)
	}
	return fmt.Sprintf("%v", value), nil
}
