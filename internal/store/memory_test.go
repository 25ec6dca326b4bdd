package store

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-lookup/internal/normalize"
	"github.com/i474232898/weather-lookup/internal/weather"
)

func snapshotNamed(name string) weather.Snapshot {
	return weather.Snapshot{
		Coordinates: weather.Coordinates{Lat: 1, Lon: 2},
		FetchedAt:   time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC),
		Payload: normalize.RecordOf(
			normalize.Field{Key: "main", Value: normalize.RecordOf()},
			normalize.Field{Key: "name", Value: normalize.StringValue(name)},
		),
	}
}

func TestDisplayState_Empty(t *testing.T) {
	s := NewDisplayState()

	_, err := s.Snapshot()
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "", s.Query())
	assert.False(t, s.Current().Snapshot.Ready())
}

func TestDisplayState_ReplaceSnapshot(t *testing.T) {
	s := NewDisplayState()

	s.ReplaceSnapshot(snapshotNamed("London"))
	s.ReplaceSnapshot(snapshotNamed("Paris"))

	got, err := s.Snapshot()
	require.NoError(t, err)
	name, _ := got.Payload.Get("name")
	text, _ := name.Text()
	assert.Equal(t, "Paris", text)
	assert.True(t, got.Ready())
}

func TestDisplayState_Subscribe(t *testing.T) {
	s := NewDisplayState()

	var seen []State
	unsubscribe := s.Subscribe(func(st State) { seen = append(seen, st) })

	s.SetQuery("Lon")
	s.SetQuery("Lon") // unchanged, no notification
	s.SetQuery("London")
	s.ReplaceSnapshot(snapshotNamed("London"))
	s.SetQuery("")

	require.Len(t, seen, 4)
	assert.Equal(t, "Lon", seen[0].Query)
	assert.Equal(t, "London", seen[1].Query)
	assert.True(t, seen[2].Snapshot.Ready())
	assert.Equal(t, "London", seen[2].Query)
	assert.Equal(t, "", seen[3].Query)

	unsubscribe()
	unsubscribe()
	s.SetQuery("Paris")
	assert.Len(t, seen, 4)
}

func TestDisplayState_ListenerMayReadState(t *testing.T) {
	s := NewDisplayState()

	var query string
	s.Subscribe(func(State) { query = s.Query() })

	s.SetQuery("Berlin")
	assert.Equal(t, "Berlin", query)
}

func TestDisplayState_ConcurrentWriters(t *testing.T) {
	s := NewDisplayState()

	var mu sync.Mutex
	calls := 0
	var last State
	s.Subscribe(func(st State) {
		mu.Lock()
		calls++
		last = st
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.ReplaceSnapshot(snapshotNamed(strconv.Itoa(i)))
			_ = s.Current()
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, calls, 1)
	assert.LessOrEqual(t, calls, 50)

	// Whatever was skipped, listeners end on what the store holds.
	current := s.Current()
	assert.True(t, normalize.Equal(current.Snapshot.Payload, last.Snapshot.Payload))
}

func TestDisplayState_DropsStaleDelivery(t *testing.T) {
	s := NewDisplayState()

	var seen []string
	s.Subscribe(func(st State) { seen = append(seen, st.Query) })

	s.SetQuery("London")
	s.SetQuery("Paris")
	require.Equal(t, []string{"London", "Paris"}, seen)

	// A writer that lost the race to deliver arrives with an older version.
	s.mu.RLock()
	listeners := s.listenersLocked()
	stale := s.version - 1
	s.mu.RUnlock()
	s.notify(stale, listeners, State{Query: "London"})

	assert.Equal(t, []string{"London", "Paris"}, seen)
	assert.Equal(t, "Paris", s.Query())
}
