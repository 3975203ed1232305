package battle

import "time"

// Wait is a cooperative suspension point. Poll is called once per tick with
// the elapsed frame time and reports whether the wait has completed.
type Wait interface {
	Poll(dt time.Duration) bool
}

// WaitFunc adapts a function to Wait.
type WaitFunc func(dt time.Duration) bool

func (f WaitFunc) Poll(dt time.Duration) bool { return f(dt) }

// Immediate completes on the first poll.
var Immediate Wait = WaitFunc(func(time.Duration) bool { return true })

type delayWait struct {
	remaining time.Duration
}

// Delay completes once d of frame time has been polled.
func Delay(d time.Duration) Wait {
	if d <= 0 {
		return Immediate
	}
	return &delayWait{remaining: d}
}

func (w *delayWait) Poll(dt time.Duration) bool {
	w.remaining -= dt
	return w.remaining <= 0
}

// Signal is a completion flag set by an external system, such as the
// animation layer reporting that a visual finished.
type Signal struct {
	fired bool
}

func NewSignal() *Signal { return &Signal{} }

// Fire marks the signal complete.
func (s *Signal) Fire() {
	if s != nil {
		s.fired = true
	}
}

// Fired reports whether Fire was called.
func (s *Signal) Fired() bool {
	return s != nil && s.fired
}

func (s *Signal) Poll(time.Duration) bool { return s == nil || s.fired }

// TimeoutWait wraps a wait with an upper bound on elapsed time.
type TimeoutWait struct {
	inner    Wait
	limit    time.Duration
	elapsed  time.Duration
	timedOut bool
}

// Timeout completes when w completes or limit elapses, whichever is first.
func Timeout(w Wait, limit time.Duration) *TimeoutWait {
	return &TimeoutWait{inner: w, limit: limit}
}

func (t *TimeoutWait) Poll(dt time.Duration) bool {
	if t.inner == nil || t.inner.Poll(dt) {
		return true
	}
	t.elapsed += dt
	if t.elapsed >= t.limit {
		t.timedOut = true
		return true
	}
	return false
}

// TimedOut reports whether the limit was hit before the inner wait finished.
func (t *TimeoutWait) TimedOut() bool {
	return t != nil && t.timedOut
}

type allWait struct {
	pending []Wait
}

// All completes when every wait has completed. Nil waits are ignored.
func All(waits ...Wait) Wait {
	pending := make([]Wait, 0, len(waits))
	for _, w := range waits {
		if w != nil {
			pending = append(pending, w)
		}
	}
	if len(pending) == 0 {
		return Immediate
	}
	return &allWait{pending: pending}
}

func (a *allWait) Poll(dt time.Duration) bool {
	remaining := a.pending[:0]
	for _, w := range a.pending {
		if !w.Poll(dt) {
			remaining = append(remaining, w)
		}
	}
	a.pending = remaining
	return len(a.pending) == 0
}

type task struct {
	wait Wait
	then func()
}

// Scheduler runs continuations once their waits complete. It is advanced by
// Tick from the owning frame loop; nothing runs in parallel.
type Scheduler struct {
	tasks      []*task
	generation uint64
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Await schedules then to run on the first tick where w completes. The wait
// is first polled on the next Tick, never inline.
func (s *Scheduler) Await(w Wait, then func()) {
	if s == nil {
		return
	}
	s.tasks = append(s.tasks, &task{wait: w, then: then})
}

// Tick polls every scheduled wait once with dt.
func (s *Scheduler) Tick(dt time.Duration) {
	if s == nil || len(s.tasks) == 0 {
		return
	}
	current := s.tasks
	s.tasks = nil
	gen := s.generation
	keep := make([]*task, 0, len(current))
	for _, t := range current {
		if s.generation != gen {
			return
		}
		if t.wait == nil || t.wait.Poll(dt) {
			if t.then != nil {
				t.then()
			}
			continue
		}
		keep = append(keep, t)
	}
	if s.generation != gen {
		return
	}
	s.tasks = append(keep, s.tasks...)
}

// Reset drops every scheduled continuation, including ones being polled by
// an in-progress Tick.
func (s *Scheduler) Reset() {
	if s == nil {
		return
	}
	s.generation++
	s.tasks = nil
}

// Pending returns the number of scheduled continuations.
func (s *Scheduler) Pending() int {
	if s == nil {
		return 0
	}
	return len(s.tasks)
}
