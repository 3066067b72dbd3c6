package authstate

import "sync"

// watcherBuffer is the channel capacity for each watcher. A watcher that
// falls this far behind misses intermediate transitions, never the current
// value obtained at Watch time.
const watcherBuffer = 16

// Store holds a single observable State and notifies watchers of every
// change in the order the changes occur. It is the Go rendition of the
// user-session store the gate subscribes to: the authentication subsystem
// writes it, everything else only observes.
type Store struct {
	mu       sync.Mutex
	state    State
	watchers map[int]chan State
	nextID   int
}

// NewStore creates a Store starting at StateUnknown.
func NewStore() *Store {
	return &Store{
		state:    StateUnknown,
		watchers: make(map[int]chan State),
	}
}

// Current returns the state at the time of the call.
func (s *Store) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Set updates the state and delivers the new value to every watcher.
// Setting the same value again is not re-delivered.
func (s *Store) Set(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state == s.state {
		return
	}
	s.state = state
	for _, ch := range s.watchers {
		select {
		case ch <- state:
		default:
			// Watcher is not keeping up; it still holds earlier events
			// and can re-check Current after draining.
		}
	}
}

// Watch registers a watcher and returns its id, the channel change events
// arrive on and the state current at registration time. The caller must
// call Unwatch with the returned id exactly once.
func (s *Store) Watch() (int, <-chan State, State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	ch := make(chan State, watcherBuffer)
	s.watchers[id] = ch
	return id, ch, s.state
}

// Unwatch removes a watcher. Unknown ids are ignored.
func (s *Store) Unwatch(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watchers, id)
}
