// Package guard enforces single-flight submission: while a submit is in
// progress, further attempts are turned away without error and the guard
// always returns to Idle once the submit finishes, whether it failed or not.
package guard

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// State is the submission state of a guard.
type State int

const (
	Idle State = iota
	Submitting
)

func (s State) String() string {
	if s == Submitting {
		return "submitting"
	}
	return "idle"
}

// Guard is a single-slot submission guard. The zero value is Idle.
type Guard struct {
	mu    sync.Mutex
	state State
}

// State returns the current state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Guard) enter() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == Submitting {
		return false
	}
	g.state = Submitting
	return true
}

func (g *Guard) leave() {
	g.mu.Lock()
	g.state = Idle
	g.mu.Unlock()
}

// Do runs fn unless a previous call is still running. It reports whether fn
// ran; a rejected call returns (false, nil).
func (g *Guard) Do(ctx context.Context, fn func(context.Context) error) (bool, error) {
	if !g.enter() {
		return false, nil
	}
	defer g.leave()
	return true, fn(ctx)
}

// Locker is a set of guards addressed by key, such as one per user.
type Locker interface {
	// Acquire claims the slot for key. It returns false if the slot is taken.
	// The token identifies this claim and must be passed back to Release.
	Acquire(ctx context.Context, key string) (token string, ok bool, err error)
	// Release frees the slot for key if token still holds it.
	Release(ctx context.Context, key, token string) error
}

// Run executes fn while holding key's slot. It reports whether fn ran.
func Run(ctx context.Context, l Locker, key string, fn func(context.Context) error) (bool, error) {
	token, ok, err := l.Acquire(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	defer func() { _ = l.Release(context.WithoutCancel(ctx), key, token) }()
	return true, fn(ctx)
}

// Keyed is an in-process Locker.
type Keyed struct {
	mu       sync.Mutex
	inFlight map[string]string
}

// NewKeyed returns an empty in-process Locker.
func NewKeyed() *Keyed {
	return &Keyed{inFlight: make(map[string]string)}
}

// Acquire implements Locker.
func (k *Keyed) Acquire(_ context.Context, key string) (string, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, busy := k.inFlight[key]; busy {
		return "", false, nil
	}
	token := uuid.NewString()
	k.inFlight[key] = token
	return token, true, nil
}

// Release implements Locker.
func (k *Keyed) Release(_ context.Context, key, token string) error {
	k.mu.Lock()
	if k.inFlight[key] == token {
		delete(k.inFlight, key)
	}
	k.mu.Unlock()
	return nil
}
