package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bell-board/backend/internal/api/middleware"
	"github.com/bell-board/backend/internal/display"
	"github.com/bell-board/backend/internal/settings"
)

// ViewRequest selects a view.
type ViewRequest struct {
	View settings.View `json:"view"`
}

// ViewResponse reports the view on screen.
type ViewResponse struct {
	View settings.View `json:"view"`
}

// Activity records a user input event and returns the screensaver state.
func Activity(board *display.Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board.Activity()
		middleware.WriteJSON(w, board.Screensaver())
	}
}

// SetView switches the displayed view.
func SetView(board *display.Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ViewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if err := board.SetView(req.View); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, err.Error())
			return
		}
		middleware.WriteJSON(w, ViewResponse{View: board.View()})
	}
}

// ToggleView flips between the status and schedule views.
func ToggleView(board *display.Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, ViewResponse{View: board.ToggleView()})
	}
}

// ActivateStatus plays the status overlay. It is a no-op outside the
// status view.
func ActivateStatus(board *display.Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		played := board.ActivateStatus()
		middleware.WriteJSON(w, map[string]bool{"played": played})
	}
}
