package playlist

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultInterval is the delay between a settled fetch and the next one.
const DefaultInterval = time.Second

// Observer receives every non-empty [Change] together with the state after it.
type Observer func(change Change, state State)

// Poller repeatedly ticks a [Reconciler] until stopped.
//
// The next tick is scheduled only after the previous fetch settled, so ticks never overlap and the effective
// period is fetch latency plus the interval.
type Poller struct {
	reconciler *Reconciler
	interval   time.Duration
	logger     *log.Logger

	mu        sync.Mutex
	observers []Observer
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewPoller creates a poller for r. A non-positive interval falls back to [DefaultInterval].
func NewPoller(r *Reconciler, interval time.Duration, logger *log.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Poller{reconciler: r, interval: interval, logger: logger}
}

// OnChange registers fn to be called after each tick that changed the state.
func (p *Poller) OnChange(fn Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, fn)
}

// Run ticks until ctx is done and returns ctx's error.
func (p *Poller) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		resp, err := p.reconciler.Fetch(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if change := p.reconciler.Apply(resp, err); change != NoChange {
			p.logger.Debug("queue reconciled", "change", change)
			p.notify(change, p.reconciler.Snapshot())
		}

		timer.Reset(p.interval)
	}
}

func (p *Poller) notify(change Change, state State) {
	p.mu.Lock()
	observers := append([]Observer(nil), p.observers...)
	p.mu.Unlock()

	for _, fn := range observers {
		fn(change, state)
	}
}

// Start runs the poller on a new goroutine. Calling Start on a running poller does nothing.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		p.Run(ctx)
	}(p.done)
}

// Stop cancels a started poller and waits for its goroutine to exit. It is safe to call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
