package mux

import (
	"net/http"

	"holdem-server/internal/server"
)

type healthResponse struct {
	Status  string       `json:"status"`
	Version string       `json:"version"`
	Stats   server.Stats `json:"stats"`
}

// getHealth reports liveness, the build version, and a head count of live
// connections and tables
func (m *Mux) getHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: m.version,
		Stats:   m.server.Stats(),
	})
}
