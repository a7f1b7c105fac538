package httpserver

import (
	"net/http"
	"time"
)

// New builds the kiosk-facing HTTP server. Requests are small JSON bodies
// (the largest is a base64 face sample, capped at the handler layer), so
// tight read and write timeouts are safe.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
