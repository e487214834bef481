// Package export gates a PDF export behind an optional sponsor interstitial
// and prints the rendered preview.
package export

import (
	"fmt"
	"sync"
	"time"

	"cv-builder/internal/domain"
	"cv-builder/internal/timer"
)

type State string

const (
	Idle            State = "idle"
	PreConfirmation State = "pre-confirmation"
	SponsorContent  State = "sponsor-content"
)

var (
	ErrCountdownActive = fmt.Errorf("%w: sponsor content cannot be closed yet", domain.ErrConflict)
	ErrInvalidState    = fmt.Errorf("%w: export flow is in another state", domain.ErrConflict)
)

const (
	DefaultCountdown = 5 * time.Second
	tick             = time.Second
)

type Status struct {
	State     State         `json:"state"`
	Remaining time.Duration `json:"-"`
	Seconds   int           `json:"remainingSeconds"`
	CanClose  bool          `json:"canClose"`
}

// Flow is the consent interstitial:
//
//	idle -> pre-confirmation -> sponsor-content -> idle (export)
//
// When gating is off Start goes straight to the export. Callbacks are
// scheduled through the Scheduler and cancelled by Stop.
type Flow struct {
	sched     timer.Scheduler
	gated     bool
	countdown time.Duration

	mu        sync.Mutex
	state     State
	remaining time.Duration
	ticker    *timer.Ticker
}

func NewFlow(sched timer.Scheduler, gated bool, countdown time.Duration) *Flow {
	if countdown < 0 {
		countdown = 0
	}
	return &Flow{sched: sched, gated: gated, countdown: countdown, state: Idle}
}

// Start begins an export request. It returns true when the export should
// run now, which is the case only when gating is off.
func (f *Flow) Start() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Idle {
		return false, ErrInvalidState
	}
	if !f.gated {
		return true, nil
	}
	f.state = PreConfirmation
	return false, nil
}

// Cancel backs out at the pre-confirmation step. No export happens.
func (f *Flow) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != PreConfirmation {
		return ErrInvalidState
	}
	f.state = Idle
	return nil
}

// Confirm shows the sponsor content and starts the countdown.
func (f *Flow) Confirm() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != PreConfirmation {
		return ErrInvalidState
	}
	f.state = SponsorContent
	f.remaining = f.countdown
	if f.remaining > 0 {
		f.ticker = timer.NewTicker(f.sched, tick, f.onTick)
	}
	return nil
}

func (f *Flow) onTick() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != SponsorContent || f.remaining <= 0 {
		return
	}
	f.remaining -= tick
	if f.remaining <= 0 {
		f.remaining = 0
		f.stopTickerLocked()
	}
}

// Close dismisses the sponsor content. It fails while the countdown runs;
// afterwards it returns true exactly once and the flow is idle again.
func (f *Flow) Close() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != SponsorContent {
		return false, ErrInvalidState
	}
	if f.remaining > 0 {
		return false, ErrCountdownActive
	}
	f.state = Idle
	return true, nil
}

func (f *Flow) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Status{
		State:     f.state,
		Remaining: f.remaining,
		Seconds:   int((f.remaining + time.Second - 1) / time.Second),
		CanClose:  f.state == SponsorContent && f.remaining <= 0,
	}
}

// Stop tears the flow down, cancelling a running countdown.
func (f *Flow) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopTickerLocked()
	f.state = Idle
	f.remaining = 0
}

func (f *Flow) stopTickerLocked() {
	if f.ticker != nil {
		f.ticker.Stop()
		f.ticker = nil
	}
}
