package anim

import (
	"container/heap"
	"time"
)

// Loop is a single-threaded event loop over a virtual clock.
// Timers scheduled for the same instant fire in the order they were scheduled.
//
// The zero value is not usable; use NewLoop. Loop is not safe for concurrent use.
type Loop struct {
	now    time.Duration
	seq    uint64
	timers timerHeap
}

// NewLoop creates a loop whose clock starts at zero.
func NewLoop() *Loop {
	return &Loop{}
}

// Now returns the current virtual time.
func (l *Loop) Now() time.Duration { return l.now }

// After schedules fn to run d after the current virtual time.
// Negative durations are treated as zero; fn never runs synchronously.
func (l *Loop) After(d time.Duration, fn func()) {
	d = max(d, 0)
	l.seq++
	heap.Push(&l.timers, &timer{at: l.now + d, seq: l.seq, fn: fn})
}

// Timer returns a signal that resolves d after the current virtual time.
func (l *Loop) Timer(d time.Duration) *Signal {
	s := l.NewSignal()
	l.After(d, s.Resolve)
	return s
}

// Step runs the earliest pending timer and advances the clock to it.
// It reports false when nothing is pending.
func (l *Loop) Step() bool {
	if len(l.timers) == 0 {
		return false
	}
	t := heap.Pop(&l.timers).(*timer)
	l.now = max(l.now, t.at)
	t.fn()
	return true
}

// Run drains every pending timer, including timers scheduled while running.
func (l *Loop) Run() {
	for l.Step() {
	}
}

// AdvanceTo runs every timer due at or before t, then sets the clock to t
// if it is still behind.
func (l *Loop) AdvanceTo(t time.Duration) {
	for len(l.timers) > 0 && l.timers[0].at <= t {
		l.Step()
	}
	l.now = max(l.now, t)
}

// Next returns the due time of the earliest pending timer.
func (l *Loop) Next() (time.Duration, bool) {
	if len(l.timers) == 0 {
		return 0, false
	}
	return l.timers[0].at, true
}

// Pending returns the number of scheduled timers.
func (l *Loop) Pending() int { return len(l.timers) }

type timer struct {
	at  time.Duration
	seq uint64
	fn  func()
}

type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)   { *h = append(*h, x.(*timer)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// Signal is a one-shot completion event bound to a loop.
type Signal struct {
	loop    *Loop
	done    bool
	at      time.Duration
	waiters []func()
}

// NewSignal returns an unresolved signal.
func (l *Loop) NewSignal() *Signal {
	return &Signal{loop: l}
}

// Resolved returns a signal that has already resolved at the current time.
func (l *Loop) Resolved() *Signal {
	s := l.NewSignal()
	s.Resolve()
	return s
}

// Resolve marks the signal done and runs its waiters in registration order.
// Resolving twice is a no-op.
func (s *Signal) Resolve() {
	if s.done {
		return
	}
	s.done = true
	s.at = s.loop.now
	waiters := s.waiters
	s.waiters = nil
	for _, fn := range waiters {
		fn()
	}
}

// Then runs fn once the signal resolves, or immediately if it already has.
func (s *Signal) Then(fn func()) {
	if s.done {
		fn()
		return
	}
	s.waiters = append(s.waiters, fn)
}

// Done reports whether the signal has resolved.
func (s *Signal) Done() bool { return s.done }

// At returns the virtual time at which the signal resolved.
func (s *Signal) At() time.Duration { return s.at }

// All returns a signal that resolves once every non-nil signal in sigs has.
// With no signals it resolves immediately.
func (l *Loop) All(sigs ...*Signal) *Signal {
	out := l.NewSignal()
	remaining := 0
	for _, s := range sigs {
		if s != nil && !s.done {
			remaining++
		}
	}
	if remaining == 0 {
		out.Resolve()
		return out
	}
	for _, s := range sigs {
		if s == nil || s.done {
			continue
		}
		s.Then(func() {
			remaining--
			if remaining == 0 {
				out.Resolve()
			}
		})
	}
	return out
}
