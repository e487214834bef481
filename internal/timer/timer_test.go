package timer_test

import (
	"sync"
	"testing"
	"time"

	"cv-builder/internal/timer"
	"cv-builder/internal/timer/timertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalesces(t *testing.T) {
	clock := timertest.New()
	var got []string
	d := timer.NewDebouncer(clock, 500*time.Millisecond, func(v string) { got = append(got, v) })

	d.Trigger("J")
	clock.Advance(100 * time.Millisecond)
	d.Trigger("Ja")
	clock.Advance(300 * time.Millisecond)
	d.Trigger("Jane")
	clock.Advance(499 * time.Millisecond)
	assert.Empty(t, got)
	assert.True(t, d.Pending())

	clock.Advance(time.Millisecond)
	assert.Equal(t, []string{"Jane"}, got)
	assert.False(t, d.Pending())
	assert.Equal(t, 0, clock.Pending())
}

func TestDebouncerFlushAndStop(t *testing.T) {
	clock := timertest.New()
	var got []int
	d := timer.NewDebouncer(clock, time.Second, func(v int) { got = append(got, v) })

	assert.False(t, d.Flush())
	d.Trigger(1)
	assert.True(t, d.Flush())
	clock.Advance(2 * time.Second)
	assert.Equal(t, []int{1}, got, "flushed value is not delivered twice")

	d.Trigger(2)
	d.Stop()
	clock.Advance(2 * time.Second)
	d.Trigger(3)
	clock.Advance(2 * time.Second)
	assert.Equal(t, []int{1}, got)
	assert.Equal(t, 0, clock.Pending())
}

func TestDebouncerFlushAfterInFlightDelivery(t *testing.T) {
	clock := timertest.New()
	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var got []string
	d := timer.NewDebouncer(clock, time.Second, func(v string) {
		if v == "v1" {
			close(entered)
			<-release
		}
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
	})

	d.Trigger("v1")
	fired := make(chan struct{})
	go func() {
		clock.Advance(time.Second)
		close(fired)
	}()
	<-entered

	d.Trigger("v2")
	flushed := make(chan bool, 1)
	go func() { flushed <- d.Flush() }()
	close(release)
	<-fired
	assert.True(t, <-flushed)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"v1", "v2"}, got, "the newest value is delivered last")
	assert.False(t, d.Pending())
}

func TestTicker(t *testing.T) {
	clock := timertest.New()
	ticks := 0
	var tk *timer.Ticker
	tk = timer.NewTicker(clock, time.Second, func() {
		ticks++
		if ticks == 3 {
			tk.Stop()
		}
	})

	clock.Advance(10 * time.Second)
	assert.Equal(t, 3, ticks)
	assert.Equal(t, 0, clock.Pending())
}

func TestManualRunsInDueOrder(t *testing.T) {
	clock := timertest.New()
	var order []string
	clock.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	clock.AfterFunc(time.Second, func() {
		order = append(order, "a")
		clock.AfterFunc(500*time.Millisecond, func() { order = append(order, "a2") })
	})
	s := clock.AfterFunc(1500*time.Millisecond, func() { order = append(order, "never") })
	require.True(t, s.Stop())
	assert.False(t, s.Stop())

	clock.Advance(3 * time.Second)
	assert.Equal(t, []string{"a", "a2", "b"}, order)
	assert.Equal(t, 3*time.Second, clock.Elapsed())
}

func TestDebouncerRealScheduler(t *testing.T) {
	done := make(chan string, 1)
	d := timer.NewDebouncer(timer.Real{}, 20*time.Millisecond, func(v string) { done <- v })
	d.Trigger("a")
	d.Trigger("b")

	select {
	case v := <-done:
		assert.Equal(t, "b", v)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced value never delivered")
	}
	d.Stop()
}
