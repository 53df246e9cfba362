package websocket

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	// Server -> Client event types
	TypeStatusTick         MessageType = "status.tick"
	TypeScreensaverChanged MessageType = "screensaver.changed"
	TypeSettingsChanged    MessageType = "settings.changed"
	TypeViewChanged        MessageType = "view.changed"
	TypeLessonCompleted    MessageType = "lesson.completed"
	TypeOverlayPlay        MessageType = "overlay.play"
	TypeNotification       MessageType = "notification"

	// Client -> Server command types
	TypePing     MessageType = "ping"
	TypeActivity MessageType = "activity"

	// Server -> Client response types
	TypePong  MessageType = "pong"
	TypeError MessageType = "error"
)

// Message represents a WebSocket message envelope.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload,omitempty"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON serializes the message to JSON bytes.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// Command is an incoming client message. Payload is decoded per type.
type Command struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ActivityPayload is the payload of an activity command.
type ActivityPayload struct {
	Kind string `json:"kind"` // pointermove, pointerdown, touchstart, keydown
}

// ViewPayload is the payload for view.changed events.
type ViewPayload struct {
	View string `json:"view"`
}

// LessonCompletedPayload is the payload for lesson.completed events.
type LessonCompletedPayload struct {
	Lesson       string `json:"lesson"`
	Abbreviation string `json:"abbreviation"`
}

// OverlayPayload is the payload for overlay.play events.
type OverlayPayload struct {
	Source string `json:"source"`
}

// NotificationPayload is the payload for notification events.
type NotificationPayload struct {
	Level   string `json:"level"` // info, warning, error
	Title   string `json:"title"`
	Message string `json:"message"`
}

// ErrorPayload is the payload for error messages.
type ErrorPayload struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	OriginalType string `json:"original_type,omitempty"`
}
