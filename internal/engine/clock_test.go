package engine_test

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/tartampluch/birthday-hub/internal/engine"
)

// fakeClock is a manually driven Clock. Tick delivers one reading to the most
// recently created ticker and blocks until the countdown goroutine takes it.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func (f *fakeClock) NewTicker(d time.Duration) engine.Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{period: d, c: make(chan time.Time)}
	f.tickers = append(f.tickers, t)
	return t
}

func (f *fakeClock) Tick() {
	f.mu.Lock()
	t := f.tickers[len(f.tickers)-1]
	now := f.now
	f.mu.Unlock()
	t.c <- now
}

func (f *fakeClock) Ticker(i int) *fakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tickers[i]
}

type fakeTicker struct {
	period  time.Duration
	c       chan time.Time
	stopped atomic.Bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.c }
func (t *fakeTicker) Stop()               { t.stopped.Store(true) }
