package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"holdem-server/internal/config"
	"holdem-server/internal/mux"
	"holdem-server/internal/server"
)

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", ":5000", "the listen address")

func main() {
	flag.Parse()

	cfg := config.Instance()
	configureLogging(cfg)

	srv := server.New(logrus.StandardLogger(), cfg)

	httpServer := &http.Server{
		Addr:         *addr,
		Handler:      withMiddleware(mux.NewMux(Version, srv), cfg),
		ReadTimeout:  time.Second * 5,
		WriteTimeout: time.Second * 10,
	}

	logrus.WithFields(logrus.Fields{
		"addr":    *addr,
		"version": Version,
	}).Info("hold'em server listening")

	if err := httpServer.ListenAndServe(); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}

// withMiddleware wraps the router with CORS and, unless disabled, access
// logging
func withMiddleware(next http.Handler, cfg config.Config) http.Handler {
	next = cors.AllowAll().Handler(next)
	if !cfg.Log.DisableAccessLogs {
		next = handlers.LoggingHandler(os.Stdout, next)
	}

	return next
}

func configureLogging(cfg config.Config) {
	if cfg.Log.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if cfg.Log.Level == "" {
		return
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logrus.WithError(err).Fatal("invalid log level")
	}

	logrus.SetLevel(level)
}
