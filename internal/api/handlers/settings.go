package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bell-board/backend/internal/api/middleware"
	"github.com/bell-board/backend/internal/settings"
)

// GetSettings returns the current settings.
func GetSettings(store *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, store.Current())
	}
}

// UpdateSettings merges a partial settings object into the current settings.
// The update applies even if persisting it fails.
func UpdateSettings(store *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch settings.Patch
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&patch); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		updated, err := store.Update(r.Context(), patch)
		if errors.Is(err, settings.ErrInvalidView) {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, err.Error())
			return
		}
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update settings")
			return
		}

		middleware.WriteJSON(w, updated)
	}
}
