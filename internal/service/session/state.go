// Package session provides the session data model, id generation and the
// session lifecycle state machine.
package session

import (
	"errors"
	"fmt"
	"sync"
)

// State represents the lifecycle state of a session.
type State int

const (
	// StateCreated - caller opened the stream, backend not configured yet.
	StateCreated State = iota
	// StateConfigured - the backend received its configuration message.
	StateConfigured
	// StateStreaming - audio is flowing.
	StateStreaming
	// StateDraining - caller ended input, backend responses still pending.
	StateDraining
	// StateClosed - clean termination. Terminal.
	StateClosed
	// StateFailed - unrecoverable error or caller cancellation. Terminal.
	StateFailed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "CREATED"
	case StateConfigured:
		return "CONFIGURED"
	case StateStreaming:
		return "STREAMING"
	case StateDraining:
		return "DRAINING"
	case StateClosed:
		return "CLOSED"
	case StateFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// IsTerminal returns true if the state is terminal (CLOSED or FAILED).
func (s State) IsTerminal() bool {
	return s == StateClosed || s == StateFailed
}

// Errors for invalid state transitions.
var (
	ErrTerminal          = errors.New("session is in a terminal state")
	ErrInvalidTransition = errors.New("invalid session state transition")
)

// Lifecycle manages the state machine for a single session.
// Thread-safe for concurrent access.
//
// State transitions:
//
//	CREATED → CONFIGURED → STREAMING → DRAINING → CLOSED
//	   │           │            │           │
//	   └───────────┴────────────┴───────────┴──→ CLOSED | FAILED
//
// Rules:
//   - Configure, StartStreaming and Drain only move forward one step
//     (Drain is also allowed straight from CONFIGURED).
//   - Close and Fail are accepted from any non-terminal state.
//   - CLOSED and FAILED are final: every later transition is rejected.
type Lifecycle struct {
	mu        sync.RWMutex
	sessionId string
	state     State
	reason    string
}

// NewLifecycle creates a new session lifecycle in CREATED state.
func NewLifecycle(sessionId string) *Lifecycle {
	return &Lifecycle{
		sessionId: sessionId,
		state:     StateCreated,
	}
}

// SessionId returns the session ID.
func (l *Lifecycle) SessionId() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sessionId
}

// SetSessionId replaces the session ID. Only allowed before configuration,
// when the caller supplies its own identifier.
func (l *Lifecycle) SetSessionId(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateCreated {
		return fmt.Errorf("%w: set id in %s", ErrInvalidTransition, l.state)
	}
	l.sessionId = id
	return nil
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Reason returns the failure or close reason, if any.
func (l *Lifecycle) Reason() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.reason
}

// IsTerminal returns true if the session is CLOSED or FAILED.
func (l *Lifecycle) IsTerminal() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.IsTerminal()
}

// Configure transitions CREATED → CONFIGURED.
func (l *Lifecycle) Configure() error {
	return l.advance(StateConfigured, StateCreated)
}

// StartStreaming transitions CONFIGURED → STREAMING.
func (l *Lifecycle) StartStreaming() error {
	return l.advance(StateStreaming, StateConfigured)
}

// Drain transitions STREAMING (or CONFIGURED) → DRAINING.
func (l *Lifecycle) Drain() error {
	return l.advance(StateDraining, StateStreaming, StateConfigured)
}

func (l *Lifecycle) advance(to State, from ...State) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.IsTerminal() {
		return ErrTerminal
	}
	for _, f := range from {
		if l.state == f {
			l.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, l.state, to)
}

// Close transitions the session to CLOSED.
// Returns true if the session was closed, false if already terminal.
func (l *Lifecycle) Close(reason string) bool {
	return l.terminate(StateClosed, reason)
}

// Fail transitions the session to FAILED.
// Returns true if the session failed now, false if already terminal.
func (l *Lifecycle) Fail(reason string) bool {
	return l.terminate(StateFailed, reason)
}

func (l *Lifecycle) terminate(to State, reason string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state.IsTerminal() {
		return false
	}
	l.state = to
	l.reason = reason
	return true
}
