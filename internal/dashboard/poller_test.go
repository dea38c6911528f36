package dashboard

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPollerFetchesImmediatelyOnStart(t *testing.T) {
	var calls atomic.Int64
	p := NewPoller(time.Hour, func(ctx context.Context) {
		calls.Add(1)
	})

	p.Start()
	defer p.Stop()

	assert.Eventually(t, func() bool {
		return calls.Load() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestPollerRepeatsOnInterval(t *testing.T) {
	var calls atomic.Int64
	p := NewPoller(10*time.Millisecond, func(ctx context.Context) {
		calls.Add(1)
	})

	p.Start()
	defer p.Stop()

	assert.Eventually(t, func() bool {
		return calls.Load() >= 3
	}, time.Second, 5*time.Millisecond)
}

func TestPollerStopPreventsFurtherFetches(t *testing.T) {
	var calls atomic.Int64
	p := NewPoller(5*time.Millisecond, func(ctx context.Context) {
		calls.Add(1)
	})

	p.Start()
	time.Sleep(20 * time.Millisecond)
	p.Stop()

	// No invocation may start after Stop returns.
	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, calls.Load())
}

func TestPollerStopCancelsContext(t *testing.T) {
	started := make(chan struct{})
	cancelled := make(chan struct{})
	p := NewPoller(time.Hour, func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(cancelled)
	})

	p.Start()
	<-started
	p.Stop()

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("Stop did not cancel the in-flight fetch context")
	}
}

func TestPollerStopIdempotent(t *testing.T) {
	p := NewPoller(time.Hour, func(ctx context.Context) {})

	// Safe even when never started
	p.Stop()

	p.Start()
	p.Stop()
	p.Stop()
}

func TestPollerRestartAfterStop(t *testing.T) {
	var calls atomic.Int64
	p := NewPoller(time.Hour, func(ctx context.Context) {
		calls.Add(1)
	})

	p.Start()
	p.Stop()
	p.Start()
	defer p.Stop()

	assert.Eventually(t, func() bool {
		return calls.Load() == 2
	}, time.Second, 5*time.Millisecond)
}

func TestPollerDoubleStartIsNoop(t *testing.T) {
	var calls atomic.Int64
	p := NewPoller(time.Hour, func(ctx context.Context) {
		calls.Add(1)
	})

	p.Start()
	p.Start()
	defer p.Stop()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(1), calls.Load())
}
