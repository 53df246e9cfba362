// Package display drives the bell board: a once-a-second tick resolves the
// school day's status, feeds the screensaver and pushes the result to the
// connected displays.
package display

import (
	"errors"
	"sync"
	"time"

	"github.com/bell-board/backend/internal/metrics"
	"github.com/bell-board/backend/internal/screensaver"
	"github.com/bell-board/backend/internal/settings"
	"github.com/bell-board/backend/internal/timetable"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultOverlaySource is the video played when the status card is activated.
const DefaultOverlaySource = "/space.mp4"

// ErrInvalidView is returned by SetView for unknown views.
var ErrInvalidView = errors.New("view must be \"status\" or \"schedule\"")

// Snapshot is everything a display needs to render one second of the board.
type Snapshot struct {
	Now              time.Time             `json:"now"`
	Clock            string                `json:"clock"`
	Status           timetable.Status      `json:"status"`
	NextLesson       *timetable.NextLesson `json:"nextLesson,omitempty"`
	Countdown        *int                  `json:"countdown"`
	CountdownVisible bool                  `json:"countdownVisible"`
	CreditsVisible   bool                  `json:"creditsVisible"`
	View             settings.View         `json:"view"`
	Screensaver      screensaver.Snapshot  `json:"screensaver"`
}

// Broadcaster delivers board events to displays.
type Broadcaster interface {
	BroadcastStatusTick(snapshot any)
	BroadcastScreensaverChanged(state any)
	BroadcastSettingsChanged(settings any)
	BroadcastViewChanged(view string)
	BroadcastLessonCompleted(lesson, abbreviation string)
	BroadcastOverlayPlay(source string)
}

// Options configures a Board.
type Options struct {
	Resolver    *timetable.Resolver
	Settings    *settings.Store
	Broadcaster Broadcaster
	Metrics     *metrics.Metrics
	Logger      zerolog.Logger

	IdleTimeout   time.Duration
	FadeDuration  time.Duration
	OverlaySource string

	// Now and AfterFunc default to the real clock.
	Now       func() time.Time
	AfterFunc screensaver.AfterFunc
}

// Board owns the per-tick status, the current view and the screensaver.
// The tick is the only writer of the status; input handlers only touch
// the screensaver and the view.
type Board struct {
	resolver    *timetable.Resolver
	settings    *settings.Store
	screensaver *screensaver.Machine
	broadcaster Broadcaster
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	now         func() time.Time
	overlay     string
	cron        *cron.Cron

	mu       sync.RWMutex
	snapshot Snapshot
	view     settings.View
	ticked   bool
}

// NewBoard creates a board. The settings store should already be loaded:
// the initial view and screensaver state come from it.
func NewBoard(opts Options) *Board {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.OverlaySource == "" {
		opts.OverlaySource = DefaultOverlaySource
	}
	if opts.Broadcaster == nil {
		opts.Broadcaster = nopBroadcaster{}
	}

	current := opts.Settings.Current()
	b := &Board{
		resolver:    opts.Resolver,
		settings:    opts.Settings,
		broadcaster: opts.Broadcaster,
		metrics:     opts.Metrics,
		logger:      opts.Logger.With().Str("component", "board").Logger(),
		now:         opts.Now,
		overlay:     opts.OverlaySource,
		cron:        cron.New(cron.WithSeconds()),
		view:        current.DefaultView,
	}

	b.screensaver = screensaver.NewMachine(screensaver.Options{
		IdleTimeout:  opts.IdleTimeout,
		FadeDuration: opts.FadeDuration,
		AfterFunc:    opts.AfterFunc,
		Logger:       opts.Logger,
		OnChange:     b.screensaverChanged,
	})
	b.snapshot.Screensaver = b.screensaver.Snapshot()
	b.screensaver.SetStatusView(b.view == settings.ViewStatus)
	b.screensaver.SetEnabled(current.ScreensaverEnabled)

	opts.Settings.OnChange(b.settingsChanged)

	return b
}

// Start runs one tick immediately and then every second.
func (b *Board) Start() error {
	b.logger.Info().Str("view", string(b.View())).Msg("starting board ticker")

	b.Tick(b.now())
	if _, err := b.cron.AddFunc("@every 1s", func() { b.Tick(b.now()) }); err != nil {
		return err
	}
	b.cron.Start()
	return nil
}

// Stop halts the ticker and cancels screensaver timers.
func (b *Board) Stop() {
	b.logger.Info().Msg("stopping board ticker")
	ctx := b.cron.Stop()
	<-ctx.Done()
	b.screensaver.Stop()
}

// Tick resolves the board at now and publishes the result. Resolution
// always completes before the screensaver sees the new countdown.
func (b *Board) Tick(now time.Time) Snapshot {
	started := time.Now()

	status := b.resolver.Resolve(now)
	next := b.resolver.NextLesson(now)
	secs, live := timetable.Countdown(status, now)

	b.screensaver.ObserveCountdown(live)

	current := b.settings.Current()
	snap := Snapshot{
		Now:              now,
		Clock:            now.In(b.resolver.Location()).Format("15:04:05"),
		Status:           status,
		NextLesson:       next,
		CountdownVisible: current.CountdownVisible,
		CreditsVisible:   current.CreditsVisible,
	}
	if live {
		snap.Countdown = &secs
	}

	b.mu.Lock()
	previous, hadPrevious := b.snapshot.Status, b.ticked
	snap.View = b.view
	snap.Screensaver = b.snapshot.Screensaver
	b.snapshot = snap
	b.ticked = true
	b.mu.Unlock()

	if hadPrevious {
		if lesson, ok := completedLesson(previous, status); ok {
			b.logger.Info().Str("lesson", lesson).Msg("lesson completed")
			b.broadcaster.BroadcastLessonCompleted(lesson, b.resolver.Timetable().Abbreviate(lesson))
		}
		if previous.Kind != status.Kind {
			b.logger.Debug().Str("from", string(previous.Kind)).Str("to", string(status.Kind)).Msg("status changed")
		}
	}

	b.broadcaster.BroadcastStatusTick(snap)

	if b.metrics != nil {
		b.metrics.Ticks.Inc()
		b.metrics.SetStatus(string(status.Kind))
		b.metrics.TickDuration.Observe(time.Since(started).Seconds())
	}
	return snap
}

// Snapshot returns the most recent tick's result.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshot
}

// Resolver exposes the board's resolver for ad-hoc lookups.
func (b *Board) Resolver() *timetable.Resolver {
	return b.resolver
}

// Screensaver returns the current screensaver state.
func (b *Board) Screensaver() screensaver.Snapshot {
	return b.screensaver.Snapshot()
}

// Activity records a user input event from a display.
func (b *Board) Activity() {
	b.screensaver.Activity()
}

// View returns the view currently on screen.
func (b *Board) View() settings.View {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.view
}

// SetView switches the displays between the status and schedule views.
func (b *Board) SetView(view settings.View) error {
	if !view.Valid() {
		return ErrInvalidView
	}

	b.mu.Lock()
	changed := b.view != view
	b.view = view
	b.snapshot.View = view
	b.mu.Unlock()

	b.screensaver.SetStatusView(view == settings.ViewStatus)
	if changed {
		b.broadcaster.BroadcastViewChanged(string(view))
	}
	return nil
}

// ToggleView flips between the two views and returns the new one.
func (b *Board) ToggleView() settings.View {
	next := settings.ViewSchedule
	if b.View() == settings.ViewSchedule {
		next = settings.ViewStatus
	}
	b.SetView(next)
	return next
}

// ActivateStatus plays the overlay video when the status view is showing.
// It reports whether the overlay was triggered.
func (b *Board) ActivateStatus() bool {
	if b.View() != settings.ViewStatus {
		return false
	}
	b.broadcaster.BroadcastOverlayPlay(b.overlay)
	return true
}

func (b *Board) settingsChanged(s settings.Settings) {
	b.screensaver.SetEnabled(s.ScreensaverEnabled)

	b.mu.Lock()
	b.snapshot.CountdownVisible = s.CountdownVisible
	b.snapshot.CreditsVisible = s.CreditsVisible
	b.mu.Unlock()

	b.broadcaster.BroadcastSettingsChanged(s)
}

// screensaverChanged runs under the screensaver's lock. It is the only
// writer of the snapshot's screensaver state.
func (b *Board) screensaverChanged(s screensaver.Snapshot) {
	b.mu.Lock()
	b.snapshot.Screensaver = s
	b.mu.Unlock()

	if s.State == screensaver.StateActive && b.metrics != nil {
		b.metrics.ScreensaverActivations.Inc()
	}
	b.broadcaster.BroadcastScreensaverChanged(s)
}

// completedLesson reports the lesson that just ended when the board moves
// from a lesson into a break or the end of the day.
func completedLesson(previous, current timetable.Status) (string, bool) {
	if previous.Kind != timetable.StatusLesson || previous.LessonName == "" {
		return "", false
	}
	if current.Kind != timetable.StatusBreak && current.Kind != timetable.StatusAfterSchool {
		return "", false
	}
	return previous.LessonName, true
}

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastStatusTick(any)                 {}
func (nopBroadcaster) BroadcastScreensaverChanged(any)         {}
func (nopBroadcaster) BroadcastSettingsChanged(any)            {}
func (nopBroadcaster) BroadcastViewChanged(string)             {}
func (nopBroadcaster) BroadcastLessonCompleted(string, string) {}
func (nopBroadcaster) BroadcastOverlayPlay(string)             {}
