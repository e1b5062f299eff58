// Package server accepts TCP connections and serves one HTTP/1.x request per
// connection through an ordered chain of handlers.
//
// Each accepted connection gets its own goroutine; there is no cap on the
// number of concurrent connections and no read or write timeout.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vinc/simpleton/pkg/simpleton/http1"
)

// ErrServerClosed is returned by Serve and ListenAndServe after Close or
// Shutdown when the listener was not closed by this server.
var ErrServerClosed = errors.New("server: closed")

// Server dispatches requests through its handler chain.
type Server struct {
	config *Config
	chain  Chain
	log    *slog.Logger
	stats  Stats

	// Listener, set once by Serve
	mu       sync.Mutex
	listener net.Listener

	// Shutdown coordination
	started  atomic.Bool
	shutdown atomic.Bool
	done     chan struct{}
	wg       sync.WaitGroup

	// Connection tracking
	conns   map[net.Conn]struct{}
	connsMu sync.Mutex
}

// New creates a server for cfg with the given handlers, run in order.
// cfg is shared, not copied, and must not change once Serve is called.
func New(cfg *Config, handlers ...Handler) *Server {
	if cfg == nil {
		panic("server: nil Config")
	}

	s := &Server{
		config: cfg,
		chain:  append(Chain(nil), handlers...),
		log:    cfg.logger(),
		done:   make(chan struct{}),
		conns:  make(map[net.Conn]struct{}),
	}
	s.stats.StartTime = time.Now()
	return s
}

// Handle appends h to the handler chain.
// It panics if called after Serve has started.
func (s *Server) Handle(h Handler) {
	if s.started.Load() {
		panic("server: Handle called after Serve")
	}
	s.chain = append(s.chain, h)
}

// HandleFunc appends f to the handler chain. See Handle.
func (s *Server) HandleFunc(f func(*http1.Request, *http1.Response, net.Conn) Action) {
	s.Handle(HandlerFunc(f))
}

// Config returns the server configuration. It must be treated as read-only.
func (s *Server) Config() *Config {
	return s.config
}

// Stats returns server statistics
func (s *Server) Stats() *Stats {
	return &s.stats
}

// Addr returns the listener address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ListenAndServe binds the configured address and serves connections.
// A bind failure is returned immediately.
func (s *Server) ListenAndServe() error {
	addr := s.config.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts incoming connections on l, one goroutine per connection.
//
// Accept errors are logged and the loop continues. Serve returns nil after
// Shutdown or Close, and ErrServerClosed if l was closed by someone else.
func (s *Server) Serve(l net.Listener) error {
	if !s.started.CompareAndSwap(false, true) {
		return errors.New("server: Serve called twice")
	}

	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()
	defer l.Close()

	if s.shutdown.Load() {
		return nil
	}

	for {
		// Accept blocks the loop
		rwc, err := l.Accept()
		if err != nil {
			if s.shutdown.Load() {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return ErrServerClosed
			}
			s.stats.AcceptErrors.Add(1)
			s.metrics().acceptFailed()
			s.log.Warn("accept failed", "error", err)
			continue
		}

		if s.shutdown.Load() {
			rwc.Close()
			return nil
		}

		s.stats.TotalConnections.Add(1)
		s.metrics().connAccepted()

		s.wg.Add(1)
		go s.handleConnection(rwc)
	}
}

// handleConnection handles a single connection
func (s *Server) handleConnection(rwc net.Conn) {
	defer s.wg.Done()
	defer s.metrics().connClosed()

	s.trackConnection(rwc)
	defer s.untrackConnection(rwc)

	tuneConn(rwc)
	newConn(s, rwc).serve()
}

func (s *Server) metrics() *Metrics {
	return s.config.Metrics
}

// trackConnection adds a connection to tracking
func (s *Server) trackConnection(c net.Conn) {
	s.connsMu.Lock()
	s.conns[c] = struct{}{}
	s.connsMu.Unlock()

	s.stats.ActiveConnections.Add(1)
}

// untrackConnection removes a connection from tracking
func (s *Server) untrackConnection(c net.Conn) {
	s.connsMu.Lock()
	delete(s.conns, c)
	s.connsMu.Unlock()

	s.stats.ActiveConnections.Add(-1)
}

// closeAllConnections closes all tracked connections
func (s *Server) closeAllConnections() {
	s.connsMu.Lock()
	conns := make([]net.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.connsMu.Unlock()

	for _, c := range conns {
		c.Close()
	}
}

// closeListener stops the accept loop
func (s *Server) closeListener() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		s.listener.Close()
	}
}

// Shutdown stops accepting connections and waits for in-flight ones to
// finish. If ctx expires first, remaining connections are closed and the
// context error is returned.
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.shutdown.CompareAndSwap(false, true) {
		return nil // Already shutting down
	}

	s.closeListener()
	close(s.done)

	shutdownComplete := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(shutdownComplete)
	}()

	select {
	case <-shutdownComplete:
		return nil
	case <-ctx.Done():
		s.closeAllConnections()
		return ctx.Err()
	}
}

// Close immediately closes the listener and all active connections
func (s *Server) Close() error {
	if !s.shutdown.CompareAndSwap(false, true) {
		return nil // Already closed
	}

	s.closeListener()
	close(s.done)
	s.closeAllConnections()
	s.wg.Wait()
	return nil
}

// Done is closed when Shutdown or Close begins.
func (s *Server) Done() <-chan struct{} {
	return s.done
}
