package feed

import "time"

// DwellThreshold is the minimum engagement delta, in seconds, before a
// deactivation counts as a view.
const DwellThreshold = 3.0

// Timer is a per-item stopwatch. Start marks activation; StopAndFlush emits
// exactly one non-negative elapsed-seconds delta through the flush callback.
// A stop without a preceding start reports nothing, so a delta can never be
// emitted twice for one start. Starting while already running restarts the
// stopwatch without emitting, which guards against double-start from rapid
// re-renders.
type Timer struct {
	running   bool
	startedAt time.Time
	nowFn     func() time.Time
	flushFn   func(seconds float64)
}

func NewTimer(flush func(seconds float64)) *Timer {
	return &Timer{nowFn: time.Now, flushFn: flush}
}

// NewTimerWithClock is NewTimer with an injectable clock.
func NewTimerWithClock(flush func(seconds float64), now func() time.Time) *Timer {
	if now == nil {
		now = time.Now
	}
	return &Timer{nowFn: now, flushFn: flush}
}

func (t *Timer) Start() {
	t.running = true
	t.startedAt = t.nowFn()
}

// StopAndFlush ends the running interval and reports its duration. The
// timer never discards sub-threshold deltas; the aggregator decides whether
// they count toward the view count.
func (t *Timer) StopAndFlush() {
	if !t.running {
		return
	}
	t.running = false
	elapsed := t.nowFn().Sub(t.startedAt).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	if t.flushFn != nil {
		t.flushFn(elapsed)
	}
}

func (t *Timer) Running() bool { return t.running }
