package policy

import (
	"context"

	"github.com/diewo77/offermaster/auth"
	"github.com/diewo77/offermaster/gate"
)

// Resource types registered on the gate.
const (
	ResourceQuote         = "quote"
	ResourceProject       = "project"
	ResourceCalendarEvent = "calendar_event"
)

// AuthGate resolves the current user from the context and checks ownership.
type AuthGate struct {
	Gate *gate.Gate[uint]
}

// NewAuthGate returns a gate with the ownership policy registered for every
// user-owned resource.
func NewAuthGate() *AuthGate {
	g := gate.NewGate[uint]()
	owner := NewOwnershipPolicy()
	for _, rt := range []string{ResourceQuote, ResourceProject, ResourceCalendarEvent} {
		g.Register(rt, owner)
	}
	return &AuthGate{Gate: g}
}

// Authorize checks if the current user can perform an action on a resource.
// Returns gate.ErrUnauthenticated without a user and gate.ErrForbidden when
// someone else owns the resource.
func (ag *AuthGate) Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error {
	userID, _ := auth.UserIDFromContext(ctx)
	return ag.Gate.Authorize(ctx, userID, action, resourceType, resource)
}

// Can is a convenience method that returns bool instead of error.
func (ag *AuthGate) Can(ctx context.Context, action gate.Action, resourceType string, resource any) bool {
	return ag.Authorize(ctx, action, resourceType, resource) == nil
}
