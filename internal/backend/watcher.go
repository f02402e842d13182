// Package backend runs background pollers against the storefront and
// publishes their results on a channel the UI drains.
package backend

import (
	"context"
	"sync"
	"time"

	"github.com/atomicstack/storefront-tui/internal/shop"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindCartCount Kind = iota
)

func (k Kind) String() string {
	switch k {
	case KindCartCount:
		return "cart_count"
	}
	return "unknown"
}

// Event conveys updated data or an error from a backend poll.
type Event struct {
	Kind Kind
	Data interface{}
	Err  error
}

// CartSource is the part of the storefront client the pollers use.
type CartSource interface {
	CartData(ctx context.Context) (shop.CartSnapshot, error)
}

// Watcher polls the storefront at a fixed interval and publishes events.
type Watcher struct {
	source   CartSource
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher that polls the cart count every interval.
// It returns nil when interval is not positive.
func NewWatcher(source CartSource, interval time.Duration) *Watcher {
	if source == nil || interval <= 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		source:   source,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
	}

	w.startCartPoller()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. Pollers exit after their current fetch completes;
// use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	if w == nil {
		return
	}
	w.cancel()
}

// Wait blocks until all poller goroutines have exited and the events channel
// is closed. Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	if w == nil {
		return
	}
	w.wg.Wait()
}

func (w *Watcher) startCartPoller() {
	throttle := newThrottle(w.interval / 2)
	w.wg.Add(1)
	go w.poll(KindCartCount, func(ctx context.Context) (interface{}, error) {
		if err := throttle.wait(ctx); err != nil {
			return nil, err
		}
		snap, err := w.source.CartData(ctx)
		if err != nil {
			return nil, err
		}
		return snap.TotalItems, nil
	})
}

func (w *Watcher) poll(kind Kind, fetch func(context.Context) (interface{}, error)) {
	defer w.wg.Done()

	emit := func() bool {
		data, err := fetch(w.ctx)
		if w.ctx.Err() != nil {
			return false
		}
		evt := Event{Kind: kind, Data: data, Err: err}
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	if !emit() {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				return
			}
		}
	}
}
