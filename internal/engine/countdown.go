package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tartampluch/birthday-hub/internal/config"
)

// Remaining is a duration split into whole days, hours, minutes and seconds.
type Remaining struct {
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64

	// Expired is set once the target has been reached; all fields are then zero.
	Expired bool
}

// TotalSeconds recombines the decomposition.
func (r Remaining) TotalSeconds() int64 {
	return r.Days*config.SecondsPerDay + r.Hours*config.SecondsPerHour + r.Minutes*config.SecondsPerMinute + r.Seconds
}

// Decompose floors d to whole seconds and splits it. A non-positive duration
// yields an all-zero, expired Remaining; it never goes negative.
func Decompose(d time.Duration) Remaining {
	if d <= 0 {
		return Remaining{Expired: true}
	}
	total := int64(d / time.Second)

	days := total / config.SecondsPerDay
	total %= config.SecondsPerDay
	hours := total / config.SecondsPerHour
	total %= config.SecondsPerHour
	minutes := total / config.SecondsPerMinute

	return Remaining{
		Days:    days,
		Hours:   hours,
		Minutes: minutes,
		Seconds: total % config.SecondsPerMinute,
	}
}

// Countdown drives a live decomposition of the time left until a target.
// At most one task is live per Countdown; starting a new one stops the old.
type Countdown struct {
	clock  Clock
	period time.Duration

	mu      sync.Mutex
	current *CountdownTask
}

// NewCountdown creates a Countdown ticking on clock every config.CountdownPeriod.
func NewCountdown(clock Clock) *Countdown {
	if clock == nil {
		clock = RealClock{}
	}
	return &Countdown{
		clock:  clock,
		period: config.CountdownPeriod,
	}
}

// CountdownTask is one running countdown. Its owner must call Stop on teardown.
type CountdownTask struct {
	target time.Time
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// Start begins recomputing the time left until target. tick is called once
// immediately and then on every period, always from the same goroutine, so
// calls never overlap. When the target is reached tick receives an expired
// Remaining and the task ends by itself; re-resolving the next birthday is
// the caller's job.
func (c *Countdown) Start(target time.Time, tick func(Remaining)) *CountdownTask {
	task := &CountdownTask{
		target: target,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	c.mu.Lock()
	previous := c.current
	c.current = task
	ticker := c.clock.NewTicker(c.period)
	c.mu.Unlock()

	previous.Stop()

	slog.Debug(config.MsgCountdownStart,
		config.LogKeyComponent, config.CompCountdown,
		config.LogKeyTarget, target)

	go task.run(c.clock, ticker, tick)
	return task
}

// Stop cancels the current task, if any. Safe to call repeatedly.
func (c *Countdown) Stop() {
	c.mu.Lock()
	task := c.current
	c.current = nil
	c.mu.Unlock()

	task.Stop()
}

// Target returns the instant the task counts down to.
func (t *CountdownTask) Target() time.Time {
	return t.target
}

// Stop cancels the task. It is idempotent, nil-safe and may be called from
// inside the tick callback.
func (t *CountdownTask) Stop() {
	if t == nil {
		return
	}
	t.once.Do(func() { close(t.stop) })
}

// Done is closed once the ticking goroutine has exited and released its timer.
func (t *CountdownTask) Done() <-chan struct{} {
	return t.done
}

func (t *CountdownTask) run(clock Clock, ticker Ticker, tick func(Remaining)) {
	defer close(t.done)
	defer ticker.Stop()

	if !t.emit(clock, tick) {
		return
	}
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C():
			if !t.emit(clock, tick) {
				return
			}
		}
	}
}

// emit publishes one reading and reports whether the task should keep going.
func (t *CountdownTask) emit(clock Clock, tick func(Remaining)) bool {
	select {
	case <-t.stop:
		return false
	default:
	}

	rem := Decompose(t.target.Sub(clock.Now()))
	tick(rem)

	if rem.Expired {
		slog.Debug(config.MsgCountdownDone,
			config.LogKeyComponent, config.CompCountdown,
			config.LogKeyTarget, t.target)
		return false
	}
	return true
}
