// Package services holds the business operations behind the HTTP handlers.
// Every method is scoped to the user found in the request context.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/diewo77/offermaster/auth"
	"github.com/diewo77/offermaster/gate"
	"github.com/diewo77/offermaster/validation"
)

var (
	ErrNotFound         = errors.New("not_found")
	ErrConflict         = errors.New("conflict")
	ErrInvalidReference = errors.New("invalid_reference")
	ErrBadCredentials   = errors.New("bad_credentials")
	ErrInvalidToken     = errors.New("invalid_token")
	ErrTokenExpired     = errors.New("token_expired")

	// Ownership failures come straight from the gate.
	ErrUnauthenticated = gate.ErrUnauthenticated
	ErrForbidden       = gate.ErrForbidden
)

// ValidationError carries field violations back to the handler.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	return "validation failed: " + strings.Join(fields, ",")
}

func invalid(v validation.Violations) error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Violations: v}
}

// ConflictError is a uniqueness violation. Code is an i18n message code.
type ConflictError struct {
	Code string
}

func (e *ConflictError) Error() string { return "conflict: " + e.Code }

// Is makes errors.Is(err, ErrConflict) match.
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// ReferenceError names the missing entity behind ErrInvalidReference.
type ReferenceError struct {
	Field string
	Code  string
}

func (e *ReferenceError) Error() string { return "invalid reference: " + e.Field }

// Is makes errors.Is(err, ErrInvalidReference) match.
func (e *ReferenceError) Is(target error) bool { return target == ErrInvalidReference }

func currentUser(ctx context.Context) (uint, error) {
	uid, ok := auth.UserIDFromContext(ctx)
	if !ok || uid == 0 {
		return 0, ErrUnauthenticated
	}
	return uid, nil
}
