package httpserver

import (
	"net/http"
	"time"

	"finai/internal/platform/config"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second
	// uploads are capped at 10 MiB; allow slow clients to finish them.
	minBodyTimeout = 15 * time.Second
)

// New builds the HTTP server. Write timeouts leave headroom over the request
// timeout so a handler cut short by its context can still send the error.
func New(cfg config.Server, handler http.Handler) *http.Server {
	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 15 * time.Second
	}
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       max(requestTimeout, minBodyTimeout),
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       idleTimeout,
	}
}
