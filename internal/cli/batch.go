package cli

import (
	"sort"
	"sync"
	"time"
)

// ChangeBatcher collects changed document names and hands them to flush once
// no new name arrived for the quiet period. Each name appears once per batch.
type ChangeBatcher struct {
	quiet time.Duration
	flush func(names []string)

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	stopped bool
	running sync.WaitGroup
}

// NewChangeBatcher creates a batcher that calls flush quiet after the last Add.
func NewChangeBatcher(quiet time.Duration, flush func(names []string)) *ChangeBatcher {
	return &ChangeBatcher{
		quiet:   quiet,
		flush:   flush,
		pending: map[string]struct{}{},
	}
}

// Add records name and restarts the quiet period. It is a no-op after Stop.
func (b *ChangeBatcher) Add(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return
	}
	b.pending[name] = struct{}{}
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.quiet, b.fire)
}

func (b *ChangeBatcher) fire() {
	b.mu.Lock()
	if b.stopped || len(b.pending) == 0 {
		b.mu.Unlock()
		return
	}
	names := make([]string, 0, len(b.pending))
	for name := range b.pending {
		names = append(names, name)
	}
	b.pending = map[string]struct{}{}
	b.running.Add(1)
	b.mu.Unlock()

	defer b.running.Done()
	sort.Strings(names)
	b.flush(names)
}

// Stop drops pending names and waits for a flush already in progress.
func (b *ChangeBatcher) Stop() {
	b.mu.Lock()
	b.stopped = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.pending = map[string]struct{}{}
	b.mu.Unlock()

	b.running.Wait()
}
