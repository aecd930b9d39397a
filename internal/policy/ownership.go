package policy

import (
	"context"

	"github.com/diewo77/offermaster/gate"
)

// Ownable is implemented by models that belong to a single user.
type Ownable interface {
	GetUserID() uint
}

// OwnershipPolicy allows a user to act only on resources they own.
type OwnershipPolicy struct{}

// NewOwnershipPolicy creates a new ownership policy.
func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

// Can checks if the user owns the resource.
// A nil resource (list/create) is allowed: the owner is the caller.
func (p *OwnershipPolicy) Can(_ context.Context, userID uint, _ gate.Action, resource any) bool {
	if resource == nil {
		return true
	}
	ownable, ok := resource.(Ownable)
	if !ok {
		// resources without an owner are never reachable through an owned route
		return false
	}
	return ownable.GetUserID() == userID
}
