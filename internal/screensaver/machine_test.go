package screensaver

import (
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeClock hands out timers that only fire when Advance passes them.
type fakeClock struct {
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	wasPending := !t.stopped && !t.fired
	t.stopped = true
	return wasPending
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	t := &fakeTimer{at: c.now + d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	target := c.now + d
	for {
		var due []*fakeTimer
		for _, t := range c.timers {
			if !t.stopped && !t.fired && t.at <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			break
		}
		sort.Slice(due, func(i, j int) bool { return due[i].at < due[j].at })
		next := due[0]
		c.now = next.at
		next.fired = true
		next.fn()
	}
	c.now = target
}

func (c *fakeClock) pending() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func newTestMachine(t *testing.T) (*Machine, *fakeClock, *[]Snapshot) {
	t.Helper()
	clock := &fakeClock{}
	var changes []Snapshot
	m := NewMachine(Options{
		AfterFunc: clock.AfterFunc,
		Logger:    zerolog.Nop(),
		OnChange:  func(s Snapshot) { changes = append(changes, s) },
	})
	return m, clock, &changes
}

func TestDisabledMachineStaysInactive(t *testing.T) {
	m, clock, _ := newTestMachine(t)

	m.Activity()
	clock.Advance(5 * time.Minute)

	if s := m.Snapshot(); s.State != StateInactive || s.Active || s.Rendered {
		t.Fatalf("unexpected state: %+v", s)
	}
	if clock.pending() != 0 {
		t.Fatal("a disabled machine must not schedule timers")
	}
}

func TestActivatesAfterIdleTimeout(t *testing.T) {
	m, clock, _ := newTestMachine(t)
	m.SetEnabled(true)

	if s := m.Snapshot(); s.State != StateArmed {
		t.Fatalf("state = %s, want armed", s.State)
	}

	clock.Advance(59 * time.Second)
	if m.Snapshot().Active {
		t.Fatal("activated before the timeout")
	}

	clock.Advance(time.Second)
	if s := m.Snapshot(); !s.Active || !s.Rendered || s.State != StateActive {
		t.Fatalf("expected active, got %+v", s)
	}
}

func TestActivityRestartsTimer(t *testing.T) {
	m, clock, _ := newTestMachine(t)
	m.SetEnabled(true)

	clock.Advance(45 * time.Second)
	m.Activity()
	clock.Advance(45 * time.Second)
	if m.Snapshot().Active {
		t.Fatal("activity should have restarted the timer")
	}
	if clock.pending() != 1 {
		t.Fatalf("pending timers = %d, want exactly one", clock.pending())
	}

	clock.Advance(15 * time.Second)
	if !m.Snapshot().Active {
		t.Fatal("expected activation 60s after the last activity")
	}
}

func TestActivityClearsActiveAndFades(t *testing.T) {
	m, clock, _ := newTestMachine(t)
	m.SetEnabled(true)
	clock.Advance(time.Minute)

	m.Activity()
	s := m.Snapshot()
	if s.Active || s.State != StateArmed {
		t.Fatalf("activity should clear active at once, got %+v", s)
	}
	if !s.Rendered {
		t.Fatal("overlay should stay rendered while fading")
	}

	clock.Advance(499 * time.Millisecond)
	if !m.Snapshot().Rendered {
		t.Fatal("faded too early")
	}
	clock.Advance(time.Millisecond)
	if m.Snapshot().Rendered {
		t.Fatal("overlay should be gone after the fade")
	}
}

func TestDisableClearsImmediately(t *testing.T) {
	m, clock, _ := newTestMachine(t)
	m.SetEnabled(true)
	clock.Advance(time.Minute)

	m.SetEnabled(false)
	s := m.Snapshot()
	if s.Active || s.State != StateInactive || s.Enabled {
		t.Fatalf("unexpected state after disable: %+v", s)
	}

	clock.Advance(10 * time.Minute)
	if s := m.Snapshot(); s.Active || s.Rendered {
		t.Fatalf("disabled machine reactivated: %+v", s)
	}
}

func TestDisableCancelsPendingTimer(t *testing.T) {
	m, clock, _ := newTestMachine(t)
	m.SetEnabled(true)
	clock.Advance(30 * time.Second)

	m.SetEnabled(false)
	if clock.pending() != 0 {
		t.Fatalf("pending timers = %d after disable", clock.pending())
	}
}

func TestLiveCountdownBlocksActivation(t *testing.T) {
	m, clock, _ := newTestMachine(t)
	m.SetEnabled(true)

	clock.Advance(50 * time.Second)
	m.ObserveCountdown(true)
	clock.Advance(10 * time.Second)

	if m.Snapshot().Active {
		t.Fatal("screensaver activated during a live countdown")
	}
}

func TestLiveCountdownClearsActiveScreensaver(t *testing.T) {
	m, clock, _ := newTestMachine(t)
	m.SetEnabled(true)
	clock.Advance(time.Minute)
	if !m.Snapshot().Active {
		t.Fatal("precondition: expected active")
	}

	m.ObserveCountdown(true)
	if s := m.Snapshot(); s.Active || s.State != StateArmed {
		t.Fatalf("live countdown must clear the screensaver, got %+v", s)
	}

	// The countdown ends and the restarted timer eventually fires.
	for i := 0; i < 20; i++ {
		clock.Advance(time.Second)
		m.ObserveCountdown(true)
		if m.Snapshot().Active {
			t.Fatal("activated while the countdown was live")
		}
	}
	m.ObserveCountdown(false)
	clock.Advance(40 * time.Second)
	if !m.Snapshot().Active {
		t.Fatal("expected activation 60s after the countdown cleared it")
	}
}

func TestOnlyActivatesOverStatusView(t *testing.T) {
	m, clock, _ := newTestMachine(t)
	m.SetEnabled(true)
	m.SetStatusView(false)

	clock.Advance(2 * time.Minute)
	if m.Snapshot().Active {
		t.Fatal("screensaver activated over the schedule view")
	}

	m.SetStatusView(true)
	m.Activity()
	clock.Advance(time.Minute)
	if !m.Snapshot().Active {
		t.Fatal("expected activation over the status view")
	}
}

func TestOnChangeReportsTransitions(t *testing.T) {
	m, clock, changes := newTestMachine(t)

	m.SetEnabled(true)
	clock.Advance(time.Minute)
	m.Activity()
	clock.Advance(time.Second)

	want := []Snapshot{
		{State: StateArmed, Enabled: true},
		{State: StateActive, Enabled: true, Active: true, Rendered: true},
		{State: StateArmed, Enabled: true, Rendered: true},
		{State: StateArmed, Enabled: true},
	}
	if len(*changes) != len(want) {
		t.Fatalf("changes = %+v, want %+v", *changes, want)
	}
	for i := range want {
		if (*changes)[i] != want[i] {
			t.Fatalf("change %d = %+v, want %+v", i, (*changes)[i], want[i])
		}
	}
}

func TestStaleTimerCallbackIsIgnored(t *testing.T) {
	m, clock, _ := newTestMachine(t)
	m.SetEnabled(true)

	stale := clock.timers[0]
	m.Activity()

	// A callback that already left the runtime timer queue still runs.
	stale.fn()
	if m.Snapshot().Active {
		t.Fatal("a cancelled timer activated the screensaver")
	}
}
