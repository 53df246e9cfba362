// Package handlers provides HTTP request handlers for the API endpoints.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bell-board/backend/internal/storage"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	DBConnected bool   `json:"db_connected"`
	Clients     int    `json:"clients"`
}

// HealthCheck returns a handler that performs a health check. The board
// keeps running without its database, so a failed ping only degrades it.
func HealthCheck(db *storage.DB, version string, clients func() int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbConnected := db != nil && db.PingContext(r.Context()) == nil

		status := "healthy"
		if !dbConnected {
			status = "degraded"
		}

		response := HealthResponse{
			Status:      status,
			Version:     version,
			DBConnected: dbConnected,
		}
		if clients != nil {
			response.Clients = clients()
		}

		w.Header().Set("Content-Type", "application/json")
		if status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(response)
	}
}
