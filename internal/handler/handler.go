// Package handler defines the create/delete contract each resource type implements.
package handler

import (
	"context"
	"fmt"

	"github.com/yairfalse/awsres/pkg/resource"
)

// Handler is the create/delete routine pair for one resource type.
// Implementations classify cloud errors themselves and never panic on them:
// every call returns an Outcome.
type Handler interface {
	Create(ctx context.Context, spec resource.Spec) resource.Outcome
	Delete(ctx context.Context, spec resource.Spec) resource.Outcome
}

// Registry maps type tags to handlers.
type Registry struct {
	handlers map[resource.Type]Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[resource.Type]Handler)}
}

// Register installs h for t, replacing any earlier handler.
func (r *Registry) Register(t resource.Type, h Handler) {
	r.handlers[t] = h
}

// Get returns the handler for t.
func (r *Registry) Get(t resource.Type) (Handler, bool) {
	h, ok := r.handlers[t]
	return h, ok
}

// Validate checks that every recognized type has a handler.
func (r *Registry) Validate() error {
	for _, t := range resource.Types() {
		if _, ok := r.handlers[t]; !ok {
			return fmt.Errorf("no handler registered for type %q", t)
		}
	}
	return nil
}
