// Package timer provides cancellable scheduled callbacks. Everything that
// waits on wall time in the editor goes through a Scheduler so the owner can
// cancel it on teardown and tests can drive it by hand.
package timer

import (
	"sync"
	"time"
)

// Stopper cancels a scheduled callback. Stop reports whether the call
// prevented the callback from running.
type Stopper interface {
	Stop() bool
}

type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Stopper
}

// Real schedules on the runtime timer.
type Real struct{}

func (Real) AfterFunc(d time.Duration, f func()) Stopper { return time.AfterFunc(d, f) }

// Debouncer delivers the last value passed to Trigger once no new value has
// arrived for the configured delay. Intermediate values are coalesced,
// the final one is never dropped unless Stop is called.
type Debouncer[T any] struct {
	sched   Scheduler
	delay   time.Duration
	deliver func(T)

	mu      sync.Mutex
	pending Stopper
	value   T
	armed   bool
	seq     uint64
	stopped bool

	// deliverMu orders deliveries; last is the sequence of the newest one.
	deliverMu sync.Mutex
	last      uint64
}

func NewDebouncer[T any](s Scheduler, delay time.Duration, deliver func(T)) *Debouncer[T] {
	return &Debouncer[T]{sched: s, delay: delay, deliver: deliver}
}

// Trigger records v and restarts the quiet period.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.pending != nil {
		d.pending.Stop()
	}
	d.seq++
	seq := d.seq
	d.value = v
	d.armed = true
	d.pending = d.sched.AfterFunc(d.delay, func() { d.fire(seq) })
}

func (d *Debouncer[T]) fire(seq uint64) {
	d.mu.Lock()
	// A superseded callback may still run if Stop lost the race.
	if d.stopped || !d.armed || seq != d.seq {
		d.mu.Unlock()
		return
	}
	v := d.value
	d.armed = false
	d.pending = nil
	d.mu.Unlock()
	d.send(seq, v)
}

// send delivers v unless a newer value has already gone out. A timer
// callback that lost the race to Flush must not overwrite its result.
func (d *Debouncer[T]) send(seq uint64, v T) {
	d.deliverMu.Lock()
	defer d.deliverMu.Unlock()
	if seq <= d.last {
		return
	}
	d.last = seq
	d.deliver(v)
}

// Flush delivers a pending value now. It reports whether there was one.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if d.stopped || !d.armed {
		d.mu.Unlock()
		return false
	}
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	v := d.value
	seq := d.seq
	d.armed = false
	d.seq++
	d.mu.Unlock()
	d.send(seq, v)
	return true
}

// Pending reports whether a value is waiting for the quiet period.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed && !d.stopped
}

// Stop cancels any pending delivery. Later triggers are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.armed = false
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}

// Ticker calls f every interval until stopped. Built on Scheduler so it can
// be driven manually.
type Ticker struct {
	sched    Scheduler
	interval time.Duration
	f        func()

	mu      sync.Mutex
	pending Stopper
	stopped bool
}

func NewTicker(s Scheduler, interval time.Duration, f func()) *Ticker {
	t := &Ticker{sched: s, interval: interval, f: f}
	t.mu.Lock()
	t.pending = s.AfterFunc(interval, t.tick)
	t.mu.Unlock()
	return t
}

func (t *Ticker) tick() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.pending = t.sched.AfterFunc(t.interval, t.tick)
	t.mu.Unlock()
	t.f()
}

func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}
