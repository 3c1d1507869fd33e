package server

import (
	"net/http"
	"time"
)

// New builds the HTTP server. The write timeout is long because answer
// generation waits on the LLM.
func New(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
