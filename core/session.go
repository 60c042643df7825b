package orchestration

import (
	"sync"
)

// SessionState is the controller's position in the customer exchange.
type SessionState string

const (
	StateIdle        SessionState = "idle"
	StateRegistering SessionState = "registering"
	StateGreeting    SessionState = "greeting"
	StateOrdering    SessionState = "ordering"
	StateCompleted   SessionState = "completed"
)

// Status is the coarse presentation-facing value. It is one-way: the
// presentation layer never feeds it back.
type Status string

const (
	StatusIdle       Status = "Idle"
	StatusListening  Status = "Listening"
	StatusProcessing Status = "Processing"
	StatusCompleted  Status = "Completed"
)

// sessionContext owns the session state. All mutation goes through the named
// transition methods; nothing else in the package writes the state directly.
type sessionContext struct {
	mu    sync.Mutex
	state SessionState
}

func newSessionContext() *sessionContext {
	return &sessionContext{state: StateIdle}
}

func (s *sessionContext) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// transition moves to next only when the current state is one of the allowed
// origins. It reports whether the move happened.
func (s *sessionContext) transition(next SessionState, from ...SessionState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, origin := range from {
		if s.state == origin {
			s.state = next
			return true
		}
	}
	return false
}

func (s *sessionContext) beginRegistration() bool {
	return s.transition(StateRegistering, StateIdle)
}

func (s *sessionContext) beginGreeting() bool {
	return s.transition(StateGreeting, StateIdle)
}

func (s *sessionContext) beginOrdering() bool {
	return s.transition(StateOrdering, StateGreeting, StateRegistering)
}

func (s *sessionContext) completeOrdering() bool {
	return s.transition(StateCompleted, StateOrdering)
}

func (s *sessionContext) backToIdle() bool {
	return s.transition(StateIdle, StateCompleted, StateRegistering)
}

// forceIdle is the reset path. It applies from any state.
func (s *sessionContext) forceIdle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
}
