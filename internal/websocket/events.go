package websocket

import (
	"github.com/rs/zerolog"
)

// EventBroadcaster encodes board events and hands them to the hub.
type EventBroadcaster struct {
	hub    *Hub
	logger zerolog.Logger
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(hub *Hub, logger zerolog.Logger) *EventBroadcaster {
	return &EventBroadcaster{hub: hub, logger: logger}
}

// BroadcastStatusTick sends the per-second board snapshot.
func (b *EventBroadcaster) BroadcastStatusTick(snapshot any) {
	b.broadcast(NewMessage(TypeStatusTick, snapshot))
}

// BroadcastScreensaverChanged sends the new screensaver state.
func (b *EventBroadcaster) BroadcastScreensaverChanged(state any) {
	b.broadcast(NewMessage(TypeScreensaverChanged, state))
}

// BroadcastSettingsChanged sends the updated settings.
func (b *EventBroadcaster) BroadcastSettingsChanged(settings any) {
	b.broadcast(NewMessage(TypeSettingsChanged, settings))
}

// BroadcastViewChanged announces a switch between status and schedule views.
func (b *EventBroadcaster) BroadcastViewChanged(view string) {
	b.broadcast(NewMessage(TypeViewChanged, ViewPayload{View: view}))
}

// BroadcastLessonCompleted announces the end of a lesson.
func (b *EventBroadcaster) BroadcastLessonCompleted(lesson, abbreviation string) {
	b.broadcast(NewMessage(TypeLessonCompleted, LessonCompletedPayload{
		Lesson:       lesson,
		Abbreviation: abbreviation,
	}))
}

// BroadcastOverlayPlay asks displays to play the status overlay video.
func (b *EventBroadcaster) BroadcastOverlayPlay(source string) {
	b.broadcast(NewMessage(TypeOverlayPlay, OverlayPayload{Source: source}))
}

// BroadcastNotification sends a notification to all connected clients.
func (b *EventBroadcaster) BroadcastNotification(level, title, message string) {
	b.broadcast(NewMessage(TypeNotification, NotificationPayload{
		Level:   level,
		Title:   title,
		Message: message,
	}))
}

func (b *EventBroadcaster) broadcast(msg Message) {
	data, err := msg.JSON()
	if err != nil {
		b.logger.Error().Err(err).Str("type", string(msg.Type)).Msg("encoding websocket message")
		return
	}
	b.hub.Broadcast(data)
}
