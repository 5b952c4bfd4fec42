// Package inspector exposes a hub's registry state over HTTP for debugging.
package inspector

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fluxorio/hub/pkg/hub"
)

// Inspector serves a JSON snapshot of a hub's subscriptions.
type Inspector struct {
	hub    *hub.Hub
	addr   string
	server *http.Server
}

// New creates an Inspector for h listening on addr.
func New(addr string, h *hub.Hub) *Inspector {
	return &Inspector{
		addr: addr,
		hub:  h,
	}
}

// Start starts the inspector's HTTP server.
func (i *Inspector) Start() error {
	i.server = &http.Server{
		Addr:    i.addr,
		Handler: i.Handler(),
	}

	go func() {
		if err := i.server.ListenAndServe(); err != http.ErrServerClosed {
			// log error
		}
	}()
	return nil
}

// Stop gracefully shuts down the inspector's HTTP server.
func (i *Inspector) Stop(ctx context.Context) error {
	if i.server != nil {
		return i.server.Shutdown(ctx)
	}
	return nil
}

// Handler returns the inspector's routes for mounting on an existing server.
func (i *Inspector) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", i.handleStatus)
	return mux
}

// handleStatus returns the hub's registry snapshot as JSON.
func (i *Inspector) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(i.hub.Stats())
}
