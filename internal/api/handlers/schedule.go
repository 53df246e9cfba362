package handlers

import (
	"net/http"

	"github.com/bell-board/backend/internal/api/middleware"
	"github.com/bell-board/backend/internal/timetable"
	"github.com/gorilla/mux"
)

// Schedule returns the weekly timetable grid.
func Schedule(tt *timetable.Timetable) http.HandlerFunc {
	grid := tt.Week()
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, grid)
	}
}

// MaterialResponse describes the study material linked to a lesson.
type MaterialResponse struct {
	Lesson       string                    `json:"lesson"`
	Abbreviation string                    `json:"abbreviation"`
	PrimaryURL   string                    `json:"primaryUrl"`
	Material     *timetable.LessonMaterial `json:"material"`
}

// Material returns the material for the lesson named in the path.
func Material(tt *timetable.Timetable) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lesson := mux.Vars(r)["lesson"]

		m, ok := tt.Material(lesson)
		if !ok {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "No material for lesson")
			return
		}

		middleware.WriteJSON(w, MaterialResponse{
			Lesson:       lesson,
			Abbreviation: tt.Abbreviate(lesson),
			PrimaryURL:   m.PrimaryURL(),
			Material:     m,
		})
	}
}
