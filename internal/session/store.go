package session

import (
	"sync"

	"github.com/gitscrub/gitscrub/pkg/shared/errors"
)

// Store holds the current session state and serializes mutations. Scans and
// rewrite preparations both mutate session-scoped state, so at most one such
// operation may be in flight; a second request is rejected, never interleaved.
type Store struct {
	mu          sync.Mutex
	state       State
	subscribers []func(State)

	opMu       sync.Mutex
	inFlightOp string
}

// NewStore creates a store seeded with the given state.
func NewStore(initial State) *Store {
	return &Store{state: initial}
}

// State returns the current state value.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies an event through Reduce and notifies subscribers with the
// resulting state.
func (s *Store) Dispatch(event Event) State {
	s.mu.Lock()
	s.state = Reduce(s.state, event)
	next := s.state
	subscribers := make([]func(State), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	for _, notify := range subscribers {
		notify(next)
	}
	return next
}

// Subscribe registers a callback invoked after every dispatched event.
func (s *Store) Subscribe(notify func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, notify)
}

// BeginOperation claims the single in-flight operation slot. It returns a
// release function on success and ErrOperationInFlight when another operation
// holds the slot. In-flight operations run to completion or failure; there is
// no cancellation of a half-done history rewrite.
func (s *Store) BeginOperation(name string) (func(), error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.inFlightOp != "" {
		return nil, errors.ErrOperationInFlight
	}
	s.inFlightOp = name

	var once sync.Once
	release := func() {
		once.Do(func() {
			s.opMu.Lock()
			s.inFlightOp = ""
			s.opMu.Unlock()
		})
	}
	return release, nil
}

// InFlight reports the name of the operation currently holding the slot.
func (s *Store) InFlight() (string, bool) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.inFlightOp, s.inFlightOp != ""
}
