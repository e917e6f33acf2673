package preview

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 300 * time.Millisecond

// debouncer coalesces triggers into at most one queued rebuild request.
type debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
	req   chan struct{}
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, req: make(chan struct{}, 1)}
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.request)
}

func (d *debouncer) request() {
	select {
	case d.req <- struct{}{}:
	default:
	}
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

// runRebuildWorker runs rebuild once per request until ctx ends. Requests that
// arrive while a rebuild runs collapse into one follow-up run.
func runRebuildWorker(ctx context.Context, d *debouncer, rebuild func(context.Context)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.req:
			rebuild(ctx)
		}
	}
}
