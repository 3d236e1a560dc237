package mux

import (
	"net/http"

	gmux "github.com/gorilla/mux"

	"holdem-server/internal/server"
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	server  *server.Server
}

// NewMux returns a new HTTP mux wired to the poker server
func NewMux(version string, srv *server.Server) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		server:  srv,
	}

	this.Methods(http.MethodGet).Path("/health").HandlerFunc(this.getHealth)
	this.Methods(http.MethodGet).Path("/ws").HandlerFunc(this.getWS())

	return this
}
