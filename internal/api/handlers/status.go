package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bell-board/backend/internal/api/middleware"
	"github.com/bell-board/backend/internal/display"
	"github.com/bell-board/backend/internal/timetable"
)

// Status returns the most recent board snapshot.
func Status(board *display.Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, board.Snapshot())
	}
}

// StatusAtResponse is the resolved board state at an arbitrary instant.
type StatusAtResponse struct {
	At         time.Time             `json:"at"`
	Clock      string                `json:"clock"`
	Status     timetable.Status      `json:"status"`
	NextLesson *timetable.NextLesson `json:"nextLesson,omitempty"`
	Countdown  *int                  `json:"countdown"`
}

// StatusAt resolves the board at the instant given by the "t" query
// parameter without touching the live board.
func StatusAt(resolver *timetable.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("t")
		if raw == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Query parameter t is required")
			return
		}

		at, err := ParseInstant(raw, resolver.Location())
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, err.Error())
			return
		}

		middleware.WriteJSON(w, ResolveAt(resolver, at))
	}
}

// ResolveAt builds the status response for at.
func ResolveAt(resolver *timetable.Resolver, at time.Time) StatusAtResponse {
	st := resolver.Resolve(at)
	resp := StatusAtResponse{
		At:         at,
		Clock:      at.In(resolver.Location()).Format("15:04:05"),
		Status:     st,
		NextLesson: resolver.NextLesson(at),
	}
	if secs, live := timetable.Countdown(st, at); live {
		resp.Countdown = &secs
	}
	return resp
}

// ParseInstant accepts RFC 3339 or a zone-less "2006-01-02T15:04:05"
// interpreted in loc.
func ParseInstant(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q, expected RFC 3339 or YYYY-MM-DDTHH:MM:SS", raw)
}
