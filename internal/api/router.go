// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"net/http"

	"github.com/bell-board/backend/internal/api/handlers"
	"github.com/bell-board/backend/internal/api/middleware"
	"github.com/bell-board/backend/internal/display"
	"github.com/bell-board/backend/internal/metrics"
	"github.com/bell-board/backend/internal/settings"
	"github.com/bell-board/backend/internal/storage"
	"github.com/bell-board/backend/internal/websocket"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Services are the dependencies the HTTP layer talks to.
type Services struct {
	DB       *storage.DB
	Hub      *websocket.Hub
	Board    *display.Board
	Settings *settings.Store
	Metrics  *metrics.Metrics
	Logger   zerolog.Logger

	StaticDir string
	Version   string
}

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(s Services) *mux.Router {
	logger := s.Logger.With().Str("component", "http").Logger()
	resolver := s.Board.Resolver()
	tt := resolver.Timetable()

	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logging(logger))
	r.Use(middleware.ErrorRecovery(logger))
	if s.Metrics != nil {
		r.Use(s.Metrics.Middleware)
		r.Handle("/metrics", s.Metrics.Handler()).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()

	var clients func() int
	if s.Hub != nil {
		clients = s.Hub.ClientCount
	}
	api.HandleFunc("/health", handlers.HealthCheck(s.DB, s.Version, clients)).Methods("GET")

	// Board state
	api.HandleFunc("/status", handlers.Status(s.Board)).Methods("GET")
	api.HandleFunc("/status/at", handlers.StatusAt(resolver)).Methods("GET")
	api.HandleFunc("/status/activate", handlers.ActivateStatus(s.Board)).Methods("POST")
	api.HandleFunc("/schedule", handlers.Schedule(tt)).Methods("GET")
	api.HandleFunc("/materials/{lesson}", handlers.Material(tt)).Methods("GET")

	// Display input
	api.HandleFunc("/activity", handlers.Activity(s.Board)).Methods("POST")
	api.HandleFunc("/view", handlers.SetView(s.Board)).Methods("PUT")
	api.HandleFunc("/view/toggle", handlers.ToggleView(s.Board)).Methods("POST")

	// Settings endpoints
	api.HandleFunc("/settings", handlers.GetSettings(s.Settings)).Methods("GET")
	api.HandleFunc("/settings", handlers.UpdateSettings(s.Settings)).Methods("PATCH")

	// WebSocket endpoint
	if s.Hub != nil {
		api.HandleFunc("/ws", handlers.WebSocketUpgrade(s.Hub, s.Board, logger)).Methods("GET")
	}

	// Serve static frontend files
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.StaticDir)))

	return r
}
