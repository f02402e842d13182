package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/atomicstack/storefront-tui/internal/logging"
	"github.com/atomicstack/storefront-tui/internal/shop/fixture"
)

// Demo is an in-memory storefront served on loopback.
type Demo struct {
	URL   string
	Store *fixture.Store
	srv   *http.Server
}

// StartDemo serves the demo catalog on a random loopback port.
func StartDemo() (*Demo, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	store := fixture.Demo()
	srv := &http.Server{Handler: store.Router(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Errorf("demo backend", err)
		}
	}()
	return &Demo{URL: "http://" + ln.Addr().String(), Store: store, srv: srv}, nil
}

// Stop shuts the server down.
func (d *Demo) Stop() {
	if d == nil || d.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = d.srv.Shutdown(ctx)
}
