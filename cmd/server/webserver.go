package main

import (
	"log"
	"net/http"
	"time"

	"github.com/marben/fractalfield/remote"
)

// webServer creates the http server serving rendered frames on /render.
// When pool is not nil, websocket workers join it through /ws.
func webServer(addr string, rs *renderService, pool *remote.Pool) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/render", rs)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if pool != nil {
		mux.HandleFunc("/ws", pool.Handler())
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("listening on http://localhost%s", addr)
	return srv
}
