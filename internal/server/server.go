// package server contains the router, middleware, and OAuth callback handler used during sign-in
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers that own their routes.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// CallbackServer is a short-lived HTTP server bound before it starts serving, so the caller knows the port is taken.
type CallbackServer struct {
	srv  *http.Server
	ln   net.Listener
	errs chan error
}

// Listen binds addr and serves handler in the background.
func Listen(addr string, handler http.Handler) (*CallbackServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s := &CallbackServer{
		srv:  &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second},
		ln:   ln,
		errs: make(chan error, 1),
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errs <- err
		}
		close(s.errs)
	}()

	return s, nil
}

// Addr returns the bound address, e.g. 127.0.0.1:8080.
func (s *CallbackServer) Addr() string {
	return s.ln.Addr().String()
}

// Errors yields a serve error, if any, and is closed when the server stops.
func (s *CallbackServer) Errors() <-chan error {
	return s.errs
}

// Shutdown stops the server, waiting for in-flight requests until ctx is done.
func (s *CallbackServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
