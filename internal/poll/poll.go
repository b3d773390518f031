// Package poll refreshes read-heavy views (notification badge, recent chats)
// on a fixed interval, immediately on start, and on demand when the owner
// wakes it (tab became visible again, dropdown opened). Every fetch carries a
// monotonically increasing sequence; a commit is applied only when its
// sequence is still the latest issued for the poller, so a slow response can
// never overwrite the result of a later fetch or a confirmed mutation.
package poll

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Observed refresh intervals.
const (
	NotificationsInterval = 10 * time.Second
	RecentChatsInterval   = 30 * time.Second
)

// Fetch loads the resource and calls Poller.Commit with the sequence it was
// handed to publish the result. The context is cancelled when the poller
// stops.
type Fetch func(ctx context.Context, seq uint64)

type Poller struct {
	interval time.Duration
	fetch    Fetch
	log      *zap.Logger

	seq     atomic.Uint64 // latest issued sequence
	wake    chan struct{}
	cancel  context.CancelFunc
	mu      sync.Mutex
	stopped bool
	started bool
}

func New(interval time.Duration, fetch Fetch, log *zap.Logger) *Poller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{
		interval: interval,
		fetch:    fetch,
		log:      log,
		wake:     make(chan struct{}, 1),
	}
}

// Start begins polling: one immediate fetch, then one per interval, plus one
// per Wake. Fetches run in their own goroutine so a slow response never
// delays the next tick.
func (p *Poller) Start() {
	p.mu.Lock()
	if p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.started = true
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.mu.Unlock()

	go p.loop(ctx)
}

func (p *Poller) loop(ctx context.Context) {
	p.issue(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.issue(ctx)
		case <-p.wake:
			p.issue(ctx)
		}
	}
}

func (p *Poller) issue(ctx context.Context) {
	seq := p.seq.Add(1)
	go p.fetch(ctx, seq)
}

// Wake forces a refresh outside the regular interval. Coalesces when a wake
// is already pending.
func (p *Poller) Wake() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Supersede marks every in-flight fetch stale and returns a fresh sequence
// the caller may commit with. Used after a confirmed mutation so that a poll
// whose snapshot predates the mutation cannot win.
func (p *Poller) Supersede() uint64 {
	return p.seq.Add(1)
}

// Commit runs apply only when seq is still the latest issued and the poller
// has not stopped. Returns whether apply ran.
func (p *Poller) Commit(seq uint64, apply func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return false
	}
	if seq != p.seq.Load() {
		p.log.Debug("discarding stale poll result",
			zap.Uint64("seq", seq), zap.Uint64("latest", p.seq.Load()))
		return false
	}
	apply()
	return true
}

// Stop tears the poller down. No commit is applied afterwards, so an unmounted
// view can never be written to by a fetch that was still in flight.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.stopped = true
	if p.cancel != nil {
		p.cancel()
	}
}
