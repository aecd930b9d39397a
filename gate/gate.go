// Package gate is a small Gate/Policy authorization registry. Each Policy
// decides, for one resource type, whether a subject may perform an action on
// a resource. The package knows nothing about the domain models.
//
// The subject type is generic:
//   - Gate[uint] for user-ID based auth
//   - Gate[*Claims] for token-claims based auth
package gate

import (
	"context"
	"sync"
)

// Gate is the central authorization checkpoint.
// U is the subject type; its zero value means "nobody is logged in".
type Gate[U comparable] struct {
	mu       sync.RWMutex
	policies map[string]Policy[U]
}

// NewGate creates an empty Gate ready to register policies.
func NewGate[U comparable]() *Gate[U] {
	return &Gate[U]{policies: make(map[string]Policy[U])}
}

// Register adds a policy for a given resource type (e.g., "quote").
// Overwrites any existing policy for that type.
func (g *Gate[U]) Register(resourceType string, p Policy[U]) {
	g.mu.Lock()
	g.policies[resourceType] = p
	g.mu.Unlock()
}

// Registered reports whether resourceType has a policy.
func (g *Gate[U]) Registered(resourceType string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.policies[resourceType]
	return ok
}

// Authorize returns nil when the subject may act on the resource.
// It returns ErrUnauthenticated for the zero subject, ErrNoPolicyDefined for
// an unknown resource type and ErrForbidden when the policy denies.
func (g *Gate[U]) Authorize(ctx context.Context, user U, action Action, resourceType string, resource any) error {
	var zero U
	if user == zero {
		return ErrUnauthenticated
	}
	g.mu.RLock()
	p, ok := g.policies[resourceType]
	g.mu.RUnlock()
	if !ok {
		return ErrNoPolicyDefined
	}
	if !p.Can(ctx, user, action, resource) {
		return ErrForbidden
	}
	return nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *Gate[U]) Can(ctx context.Context, user U, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, user, action, resourceType, resource) == nil
}
