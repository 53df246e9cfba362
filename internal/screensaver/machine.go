// Package screensaver decides when the board dims itself after a period of
// inactivity. It never lets the screensaver hide a live bell countdown.
package screensaver

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// State is the screensaver's main state.
type State string

const (
	StateInactive State = "inactive" // feature disabled, nothing pending
	StateArmed    State = "armed"    // waiting for the inactivity timer
	StateActive   State = "active"   // screensaver showing
)

// Defaults.
const (
	DefaultIdleTimeout  = 60 * time.Second
	DefaultFadeDuration = 500 * time.Millisecond
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

// RealAfterFunc schedules on the runtime timer.
func RealAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Snapshot is the externally visible screensaver state. Rendered stays true
// for the fade duration after Active clears so the overlay can fade out.
type Snapshot struct {
	State    State `json:"state"`
	Enabled  bool  `json:"enabled"`
	Active   bool  `json:"active"`
	Rendered bool  `json:"rendered"`
}

// Options configures a Machine.
type Options struct {
	IdleTimeout  time.Duration
	FadeDuration time.Duration
	AfterFunc    AfterFunc
	Logger       zerolog.Logger
	// OnChange runs, with the machine locked, after every visible change.
	// It must not call back into the Machine.
	OnChange func(Snapshot)
}

// Machine is the idle/screensaver state machine. All methods are safe for
// concurrent use; timer callbacks and input events serialize on one mutex.
type Machine struct {
	mu sync.Mutex

	idleTimeout  time.Duration
	fadeDuration time.Duration
	afterFunc    AfterFunc
	logger       zerolog.Logger
	onChange     func(Snapshot)

	enabled       bool
	state         State
	rendered      bool
	countdownLive bool
	statusView    bool

	// At most one idle timer is outstanding. The generation counters make
	// a callback that raced with Stop a no-op.
	idleTimer Timer
	idleGen   uint64
	fadeTimer Timer
	fadeGen   uint64
}

// NewMachine creates a disabled machine showing the status view.
func NewMachine(opts Options) *Machine {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	if opts.FadeDuration <= 0 {
		opts.FadeDuration = DefaultFadeDuration
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = RealAfterFunc
	}

	return &Machine{
		idleTimeout:  opts.IdleTimeout,
		fadeDuration: opts.FadeDuration,
		afterFunc:    opts.AfterFunc,
		logger:       opts.Logger.With().Str("component", "screensaver").Logger(),
		onChange:     opts.OnChange,
		state:        StateInactive,
		statusView:   true,
	}
}

// Snapshot returns the current state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// SetEnabled turns the feature on or off. Disabling cancels the pending
// timer and clears the screensaver at once; enabling arms the timer.
func (m *Machine) SetEnabled(enabled bool) {
	m.update(func() {
		if enabled == m.enabled {
			return
		}
		m.enabled = enabled

		if !enabled {
			m.cancelIdleLocked()
			m.setActiveLocked(false)
			m.state = StateInactive
			m.logger.Debug().Msg("screensaver disabled")
			return
		}

		m.armLocked()
		m.logger.Debug().Msg("screensaver enabled")
	})
}

// Activity records a user input event and restarts the inactivity timer.
func (m *Machine) Activity() {
	m.update(func() {
		if !m.enabled {
			return
		}
		m.setActiveLocked(false)
		m.armLocked()
	})
}

// SetStatusView records whether the status view is on screen. The
// screensaver only activates over the status view.
func (m *Machine) SetStatusView(visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusView = visible
}

// ObserveCountdown records whether a bell countdown is live. A live
// countdown forces an active screensaver back to armed and restarts the
// timer. Call it after the tick's status resolution.
func (m *Machine) ObserveCountdown(live bool) {
	m.update(func() {
		m.countdownLive = live
		if live && m.state == StateActive {
			m.setActiveLocked(false)
			m.armLocked()
			m.logger.Debug().Msg("countdown started, screensaver cleared")
		}
	})
}

// Stop cancels any pending timers.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelIdleLocked()
	m.cancelFadeLocked()
}

func (m *Machine) update(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	before := m.snapshotLocked()
	fn()
	if after := m.snapshotLocked(); after != before && m.onChange != nil {
		m.onChange(after)
	}
}

func (m *Machine) snapshotLocked() Snapshot {
	return Snapshot{
		State:    m.state,
		Enabled:  m.enabled,
		Active:   m.state == StateActive,
		Rendered: m.rendered,
	}
}

// armLocked replaces any pending idle timer with a fresh one.
func (m *Machine) armLocked() {
	m.cancelIdleLocked()
	m.state = StateArmed

	gen := m.idleGen
	m.idleTimer = m.afterFunc(m.idleTimeout, func() { m.idleExpired(gen) })
}

func (m *Machine) cancelIdleLocked() {
	if m.idleTimer != nil {
		m.idleTimer.Stop()
		m.idleTimer = nil
	}
	m.idleGen++
}

func (m *Machine) idleExpired(gen uint64) {
	m.update(func() {
		if gen != m.idleGen {
			return
		}
		m.idleTimer = nil

		if m.state != StateArmed || m.countdownLive || !m.statusView {
			return
		}
		m.setActiveLocked(true)
		m.logger.Debug().Msg("screensaver activated")
	})
}

// setActiveLocked moves into or out of StateActive and drives the
// Rendered flag.
func (m *Machine) setActiveLocked(active bool) {
	if active {
		m.cancelFadeLocked()
		m.state = StateActive
		m.rendered = true
		return
	}

	if m.state != StateActive {
		return
	}
	m.state = StateArmed

	m.cancelFadeLocked()
	gen := m.fadeGen
	m.fadeTimer = m.afterFunc(m.fadeDuration, func() { m.fadeDone(gen) })
}

func (m *Machine) cancelFadeLocked() {
	if m.fadeTimer != nil {
		m.fadeTimer.Stop()
		m.fadeTimer = nil
	}
	m.fadeGen++
}

func (m *Machine) fadeDone(gen uint64) {
	m.update(func() {
		if gen != m.fadeGen {
			return
		}
		m.fadeTimer = nil
		m.rendered = false
	})
}
