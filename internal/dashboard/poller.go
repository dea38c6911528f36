package dashboard

import (
	"context"
	"sync"
	"time"
)

// Poller owns the periodic background refresh: an immediate fetch on Start,
// then one per interval until Stop. It is the owned, cancellable form of the
// refresh loop rather than an ambient timer side effect.
type Poller struct {
	interval time.Duration
	fn       func(ctx context.Context)

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce *sync.Once
}

// NewPoller creates a poller that invokes fn. The function receives a
// context cancelled by Stop.
func NewPoller(interval time.Duration, fn func(ctx context.Context)) *Poller {
	return &Poller{interval: interval, fn: fn}
}

// Start launches the polling loop: one immediate invocation, then one per
// interval. Calling Start on a running poller is a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	p.stopOnce = &sync.Once{}

	go p.run(ctx, p.done)
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	p.fn(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Re-check cancellation: a tick racing Stop must not start
			// another fetch.
			select {
			case <-ctx.Done():
				return
			default:
			}
			p.fn(ctx)
		}
	}
}

// Stop cancels the loop and waits for it to finish, so no invocation starts
// after Stop returns. Idempotent and safe to call on a poller that was
// never started.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	once := p.stopOnce
	p.mu.Unlock()

	if cancel == nil {
		return
	}

	once.Do(func() {
		cancel()
		<-done
	})

	p.mu.Lock()
	if p.stopOnce == once {
		p.cancel = nil
		p.done = nil
	}
	p.mu.Unlock()
}
