// Package serve runs the JSON API.
package serve

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/server"
)

// Serve listens on Addr until ctx is done. Backend changes are synced into
// the store while it runs.
type Serve struct {
	Addr string

	Service *app.Service
}

func (n *Serve) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not serve, no service")
	}
	h := server.New(n.Service.Tasks, n.Service.Moves,
		server.WithMinGap(n.Service.MinGap),
		server.WithRole(n.Service.Config.Role),
		server.WithUndoWindow(n.Service.UndoWindow),
	)
	srv := &http.Server{
		Addr:              n.Addr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := n.Service.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("not watching for backend changes: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	log.Printf("Starting server on http://localhost%s", n.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
