package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/weather"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
	hit   chan struct{}
}

func (c *countingRefresher) Refresh(ctx context.Context) (weather.Snapshot, error) {
	c.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return weather.Snapshot{}, fmt.Errorf("refresh called without a deadline")
	}
	if c.hit != nil {
		select {
		case c.hit <- struct{}{}:
		default:
		}
	}
	return weather.Snapshot{}, c.err
}

func TestScheduler_Disabled(t *testing.T) {
	r := &countingRefresher{}
	s := New(0, time.Second, r, zerolog.Nop())

	require.NoError(t, s.Start())
	s.Stop()

	assert.Equal(t, int32(0), r.calls.Load())
}

func TestScheduler_RunsRefresh(t *testing.T) {
	r := &countingRefresher{hit: make(chan struct{}, 1)}
	s := New(time.Hour, time.Second, r, zerolog.Nop())

	require.NoError(t, s.Start())
	defer s.Stop()

	select {
	case <-r.hit:
	case <-time.After(3 * time.Second):
		t.Fatal("refresh job did not run")
	}
}

func TestScheduler_RunToleratesEmptyDisplay(t *testing.T) {
	r := &countingRefresher{err: store.ErrNotFound}
	s := New(time.Minute, time.Second, r, zerolog.Nop())

	s.run()
	s.run()

	assert.Equal(t, int32(2), r.calls.Load())
}
