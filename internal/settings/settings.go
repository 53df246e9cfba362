// Package settings loads, merges and persists the board's display settings.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/bell-board/backend/internal/storage"
	"github.com/rs/zerolog"
)

// StorageKey is the key the settings blob is persisted under.
const StorageKey = "appSettings"

// View names the screen the board shows.
type View string

const (
	ViewStatus   View = "status"
	ViewSchedule View = "schedule"
)

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	return v == ViewStatus || v == ViewSchedule
}

// Settings is the persisted display configuration.
type Settings struct {
	ScreensaverEnabled bool `json:"screensaverEnabled"`
	CountdownVisible   bool `json:"countdownVisible"`
	DefaultView        View `json:"defaultView"`
	CreditsVisible     bool `json:"creditsVisible"`
}

// Defaults returns the canonical default settings.
func Defaults() Settings {
	return Settings{
		ScreensaverEnabled: false,
		CountdownVisible:   true,
		DefaultView:        ViewStatus,
		CreditsVisible:     true,
	}
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	ScreensaverEnabled *bool `json:"screensaverEnabled,omitempty"`
	CountdownVisible   *bool `json:"countdownVisible,omitempty"`
	DefaultView        *View `json:"defaultView,omitempty"`
	CreditsVisible     *bool `json:"creditsVisible,omitempty"`
}

// ErrInvalidView is returned when a patch names an unknown view.
var ErrInvalidView = errors.New("defaultView must be \"status\" or \"schedule\"")

// Validate checks the patch's enumerated fields.
func (p Patch) Validate() error {
	if p.DefaultView != nil && !p.DefaultView.Valid() {
		return ErrInvalidView
	}
	return nil
}

// Apply shallow-merges p over s.
func (p Patch) Apply(s Settings) Settings {
	if p.ScreensaverEnabled != nil {
		s.ScreensaverEnabled = *p.ScreensaverEnabled
	}
	if p.CountdownVisible != nil {
		s.CountdownVisible = *p.CountdownVisible
	}
	if p.DefaultView != nil && p.DefaultView.Valid() {
		s.DefaultView = *p.DefaultView
	}
	if p.CreditsVisible != nil {
		s.CreditsVisible = *p.CreditsVisible
	}
	return s
}

// Backend persists the serialized settings blob.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// ChangeFunc is called after every successful update with the new settings.
type ChangeFunc func(Settings)

// Store is the single in-memory owner of the settings. Updates merge in
// memory first and then persist, so there is no read-modify-write race on
// the backend.
type Store struct {
	backend Backend
	logger  zerolog.Logger

	// updateMu orders whole updates so saves and listener calls happen in
	// the same order as the in-memory merges.
	updateMu sync.Mutex

	mu        sync.RWMutex
	current   Settings
	listeners []ChangeFunc

	onSaveError func(error)
}

// NewStore creates a store over backend. Call Load before use; until then
// Current returns the defaults.
func NewStore(backend Backend, logger zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger.With().Str("component", "settings").Logger(),
		current: Defaults(),
	}
}

// OnChange registers fn to run after each update.
func (s *Store) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// OnSaveError registers fn to observe persistence failures.
func (s *Store) OnSaveError(fn func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSaveError = fn
}

// Current returns the in-memory settings.
func (s *Store) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Load reads the persisted blob and merges it over the defaults. It never
// fails: a missing or unreadable blob yields the defaults.
func (s *Store) Load(ctx context.Context) Settings {
	loaded := Defaults()

	raw, err := s.backend.Get(ctx, StorageKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.logger.Debug().Msg("no saved settings, using defaults")
	case err != nil:
		s.logger.Error().Err(err).Msg("failed to read settings, using defaults")
	default:
		loaded = Decode([]byte(raw), s.logger)
	}

	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()
	return loaded
}

// Save persists settings. Failures are logged, never returned.
func (s *Store) Save(ctx context.Context, settings Settings) {
	data, err := json.Marshal(settings)
	if err == nil {
		err = s.backend.Set(ctx, StorageKey, string(data))
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to save settings")
		s.mu.RLock()
		hook := s.onSaveError
		s.mu.RUnlock()
		if hook != nil {
			hook(err)
		}
	}
}

// Update merges patch into the current settings, persists the result and
// notifies listeners. Concurrent updates are applied one at a time;
// listeners must not call Update.
func (s *Store) Update(ctx context.Context, patch Patch) (Settings, error) {
	if err := patch.Validate(); err != nil {
		return s.Current(), err
	}

	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	s.mu.Lock()
	s.current = patch.Apply(s.current)
	updated := s.current
	listeners := append([]ChangeFunc(nil), s.listeners...)
	s.mu.Unlock()

	s.Save(ctx, updated)

	for _, fn := range listeners {
		fn(updated)
	}
	return updated, nil
}

// Decode parses a persisted blob over the defaults. A blob that is not a
// JSON object is discarded wholesale. Within an object, each known field is
// decoded on its own so one mistyped field falls back to its default
// without losing the others; unknown fields are ignored.
func Decode(data []byte, logger zerolog.Logger) Settings {
	s := Defaults()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		logger.Warn().Err(err).Msg("discarding malformed settings")
		return s
	}

	decodeBool(fields, "screensaverEnabled", &s.ScreensaverEnabled, logger)
	decodeBool(fields, "countdownVisible", &s.CountdownVisible, logger)
	decodeBool(fields, "creditsVisible", &s.CreditsVisible, logger)

	if raw, ok := fields["defaultView"]; ok {
		var v View
		if err := json.Unmarshal(raw, &v); err != nil || !v.Valid() {
			logger.Warn().Str("field", "defaultView").Msg("ignoring invalid setting")
		} else {
			s.DefaultView = v
		}
	}

	return s
}

func decodeBool(fields map[string]json.RawMessage, key string, dst *bool, logger zerolog.Logger) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	var v *bool
	if err := json.Unmarshal(raw, &v); err != nil {
		logger.Warn().Str("field", key).Msg("ignoring invalid setting")
		return
	}
	if v != nil {
		*dst = *v
	}
}
