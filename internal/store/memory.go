package store

import (
	"errors"
	"sync"

	"github.com/i474232898/weather-lookup/internal/weather"
)

var (
	// ErrNotFound is returned when no weather has been fetched yet.
	ErrNotFound = errors.New("no weather snapshot yet")
)

// State is a point-in-time copy of what the display shows.
type State struct {
	Query    string
	Snapshot weather.Snapshot
}

// Listener is called after a change, outside the store's data lock.
// Deliveries are serialized and never go backwards: a state older than one
// already delivered is dropped. Listeners may read the store but must not
// write to it.
type Listener func(State)

type subscription struct {
	id int
	fn Listener
}

// DisplayState is a concurrency-safe holder of the location query and the
// current weather snapshot. Writers are last-writer-wins.
type DisplayState struct {
	mu sync.RWMutex

	query    string
	snapshot weather.Snapshot
	hasSnap  bool

	listeners []subscription
	nextID    int
	version   uint64

	notifyMu  sync.Mutex
	delivered uint64
}

// NewDisplayState creates an empty DisplayState: no query, no snapshot.
func NewDisplayState() *DisplayState {
	return &DisplayState{}
}

func (s *DisplayState) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// SetQuery replaces the query. Listeners are only told when it actually changed.
func (s *DisplayState) SetQuery(query string) {
	s.mu.Lock()
	if s.query == query {
		s.mu.Unlock()
		return
	}
	s.query = query
	s.version++
	version, state, listeners := s.version, s.currentLocked(), s.listenersLocked()
	s.mu.Unlock()

	s.notify(version, listeners, state)
}

// Snapshot returns the latest snapshot, or ErrNotFound before the first
// successful fetch.
func (s *DisplayState) Snapshot() (weather.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasSnap {
		return weather.Snapshot{}, ErrNotFound
	}
	return s.snapshot, nil
}

// ReplaceSnapshot swaps in a new snapshot as a whole.
func (s *DisplayState) ReplaceSnapshot(snapshot weather.Snapshot) {
	s.mu.Lock()
	s.snapshot = snapshot
	s.hasSnap = true
	s.version++
	version, state, listeners := s.version, s.currentLocked(), s.listenersLocked()
	s.mu.Unlock()

	s.notify(version, listeners, state)
}

// Current returns both fields read under a single lock.
func (s *DisplayState) Current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentLocked()
}

// Subscribe registers fn for change notifications. The returned function
// removes it and is safe to call more than once.
func (s *DisplayState) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *DisplayState) currentLocked() State {
	return State{Query: s.query, Snapshot: s.snapshot}
}

func (s *DisplayState) listenersLocked() []Listener {
	if len(s.listeners) == 0 {
		return nil
	}
	out := make([]Listener, len(s.listeners))
	for i, l := range s.listeners {
		out[i] = l.fn
	}
	return out
}

func (s *DisplayState) notify(version uint64, listeners []Listener, state State) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	if version <= s.delivered {
		return
	}
	s.delivered = version
	for _, fn := range listeners {
		fn(state)
	}
}
