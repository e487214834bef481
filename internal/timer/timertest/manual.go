// Package timertest provides a hand-driven timer.Scheduler for tests.
package timertest

import (
	"sort"
	"sync"
	"time"

	"cv-builder/internal/timer"
)

// Manual is a fake clock. Callbacks run synchronously inside Advance, in
// due-time order, including callbacks scheduled by other callbacks.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	m       *Manual
	due     time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func New() *Manual { return &Manual{} }

var _ timer.Scheduler = (*Manual)(nil)

func (m *Manual) AfterFunc(d time.Duration, f func()) timer.Stopper {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{m: m, due: m.now + d, seq: m.seq, f: f}
	m.timers = append(m.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward by d and runs everything that comes due.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()
	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.due
		next.fired = true
		m.mu.Unlock()
		next.f()
	}
}

func (m *Manual) nextDue(limit time.Duration) *manualTimer {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	m.timers = live
	sort.Slice(live, func(i, j int) bool {
		if live[i].due != live[j].due {
			return live[i].due < live[j].due
		}
		return live[i].seq < live[j].seq
	})
	if len(live) == 0 || live[0].due > limit {
		return nil
	}
	return live[0]
}

// Pending is the number of scheduled callbacks that have not run or been
// stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Elapsed is the total time advanced so far.
func (m *Manual) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}
