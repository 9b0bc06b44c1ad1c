package playback

import (
	"context"
	"sync"
	"time"
)

// DisplayRefreshInterval is how often the scheduler fires the tick
// callback, roughly one display refresh.
const DisplayRefreshInterval = 16 * time.Millisecond

// Scheduler runs one recurring tick callback on one goroutine. Starting a
// new run always cancels the previous one first, so two tick chains can
// never race on shared playback state. The callback returns false to end
// the run (segment finished, episode exhausted).
type Scheduler struct {
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewScheduler builds a scheduler firing at the given interval; zero or
// negative falls back to DisplayRefreshInterval.
func NewScheduler(interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DisplayRefreshInterval
	}
	return &Scheduler{interval: interval}
}

// Start cancels any pending run and begins firing fn until it returns
// false or Stop is called.
func (s *Scheduler) Start(fn func(now time.Time) bool) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if !fn(now) {
					return
				}
			}
		}
	}()
}

// Stop cancels the pending run, if any. Idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
