// Package poll re-fetches a list on a fixed interval and keeps the latest
// result for a screen to render.
package poll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Sam414141/Digital-MenuCard-sub001/logger"
)

// FetchFunc loads a fresh value
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Snapshot is what a screen renders. On a failed fetch Value keeps the last
// good result and Err carries the failure.
type Snapshot[T any] struct {
	Value     T
	HasValue  bool
	Err       error
	UpdatedAt time.Time
	FailedAt  time.Time
	Fetches   int
	Failures  int
}

// Stale reports whether the value shown is older than the latest attempt
func (s Snapshot[T]) Stale() bool { return s.Err != nil && s.HasValue }

// Poller runs FetchFunc every interval. Ticks never wait for the previous
// fetch: overlapping fetches race and whichever resolves last wins.
type Poller[T any] struct {
	name     string
	interval time.Duration
	fetch    FetchFunc[T]
	log      *logger.Logger

	mu        sync.Mutex
	snap      Snapshot[T]
	listeners []func(Snapshot[T])

	// dispatchMu serializes listener calls; each call sees the snapshot
	// current when it starts, so the last call always carries the newest.
	dispatchMu sync.Mutex

	pokes chan struct{}
	wg    sync.WaitGroup
}

func New[T any](name string, interval time.Duration, fetch FetchFunc[T]) *Poller[T] {
	return &Poller[T]{
		name:     name,
		interval: interval,
		fetch:    fetch,
		log:      logger.New("poll"),
		pokes:    make(chan struct{}, 1),
	}
}

func (p *Poller[T]) Name() string { return p.name }

func (p *Poller[T]) Interval() time.Duration { return p.interval }

// OnUpdate registers fn to be called after every resolved fetch
func (p *Poller[T]) OnUpdate(fn func(Snapshot[T])) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}

func (p *Poller[T]) Snapshot() Snapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

// Refresh fetches once and waits for the result
func (p *Poller[T]) Refresh(ctx context.Context) error {
	v, err := p.fetch(ctx)
	p.apply(v, err)
	return err
}

// Poke asks a running loop for an extra fetch now. Pokes arriving while
// one is pending are merged.
func (p *Poller[T]) Poke() {
	select {
	case p.pokes <- struct{}{}:
	default:
	}
}

// Run fetches immediately and then on every tick or poke until ctx is
// done. It returns once every fetch it started has finished.
func (p *Poller[T]) Run(ctx context.Context) error {
	if p.interval <= 0 {
		return fmt.Errorf("poll %s: interval must be positive, got %s", p.name, p.interval)
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	defer p.wg.Wait()

	p.log.Debug("poll_started", map[string]any{"poller": p.name, "interval": p.interval.String()})
	p.launch(ctx)
	for {
		select {
		case <-ctx.Done():
			p.log.Debug("poll_stopped", map[string]any{"poller": p.name})
			return nil
		case <-ticker.C:
			p.launch(ctx)
		case <-p.pokes:
			p.launch(ctx)
		}
	}
}

func (p *Poller[T]) launch(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		v, err := p.fetch(ctx)
		if ctx.Err() != nil {
			// torn down while in flight
			return
		}
		p.apply(v, err)
	}()
}

func (p *Poller[T]) apply(v T, err error) {
	p.mu.Lock()
	now := time.Now()
	p.snap.Fetches++
	if err != nil {
		p.snap.Err = err
		p.snap.FailedAt = now
		p.snap.Failures++
	} else {
		p.snap.Value = v
		p.snap.HasValue = true
		p.snap.Err = nil
		p.snap.UpdatedAt = now
	}
	failures := p.snap.Failures
	p.mu.Unlock()

	if err != nil {
		p.log.Warn("poll_fetch_failed", err, map[string]any{"poller": p.name, "failures": failures})
	}

	p.dispatchMu.Lock()
	defer p.dispatchMu.Unlock()
	p.mu.Lock()
	snap := p.snap
	listeners := append([]func(Snapshot[T]){}, p.listeners...)
	p.mu.Unlock()
	for _, fn := range listeners {
		fn(snap)
	}
}
