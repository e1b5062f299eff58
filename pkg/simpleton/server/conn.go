package server

import (
	"bufio"
	"log/slog"
	"net"
	"runtime/debug"
	"time"

	"github.com/vinc/simpleton/pkg/simpleton/http1"
)

// ConnState represents the state of a client connection.
//
//	Accepted -> HeaderRead -> Dispatching -> Sent -> Closed
//
// Any read, parse or write failure moves straight to Closed.
type ConnState int

const (
	// StateAccepted is the initial state when a connection is accepted
	StateAccepted ConnState = iota

	// StateHeaderRead indicates the request head has been read off the wire
	StateHeaderRead

	// StateDispatching indicates the request parsed and the handler chain is running
	StateDispatching

	// StateSent indicates the response has been written
	StateSent

	// StateClosed indicates the connection has been closed
	StateClosed
)

// String returns the string representation of the connection state
func (s ConnState) String() string {
	switch s {
	case StateAccepted:
		return "accepted"
	case StateHeaderRead:
		return "header-read"
	case StateDispatching:
		return "dispatching"
	case StateSent:
		return "sent"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// conn serves exactly one request on an accepted connection.
// It is owned by a single goroutine.
type conn struct {
	srv *Server
	rwc net.Conn
	br  *bufio.Reader
	log *slog.Logger

	state ConnState
	raw   []byte
	req   *http1.Request
	res   *http1.Response
	start time.Time

	// onState, if set, observes every transition (tests)
	onState func(ConnState)
}

func newConn(srv *Server, rwc net.Conn) *conn {
	return &conn{
		srv:   srv,
		rwc:   rwc,
		log:   srv.log.With("remote", remoteAddr(rwc)),
		state: StateAccepted,
	}
}

func remoteAddr(c net.Conn) string {
	if addr := c.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}

type stateFunc func(*conn) stateFunc

// serve runs the connection state machine to completion.
func (c *conn) serve() {
	defer func() {
		if r := recover(); r != nil {
			c.srv.stats.Panics.Add(1)
			c.srv.metrics().connDropped(dropPanic)
			c.log.Error("panic serving connection", "panic", r, "stack", string(debug.Stack()))
			closeConn(c)
		}
	}()

	for state := readHead; state != nil; {
		state = state(c)
	}
}

func (c *conn) setState(s ConnState) {
	c.state = s
	if c.onState != nil {
		c.onState(s)
	}
}

// state funcs

// readHead blocks until a blank line, EOF or a read error.
func readHead(c *conn) stateFunc {
	c.br = http1.GetReader(c.rwc)
	raw, err := http1.ReadMessage(c.br)
	http1.PutReader(c.br)
	c.br = nil

	if err != nil {
		// No response after a failed read
		c.log.Debug("read failed, dropping connection", "error", err)
		c.srv.stats.DroppedConnections.Add(1)
		c.srv.metrics().connDropped(dropRead)
		return closeConn
	}

	c.raw = raw
	c.setState(StateHeaderRead)
	return parseHead
}

// parseHead turns the raw head into a Request. A malformed request line
// drops the connection without a 400.
func parseHead(c *conn) stateFunc {
	req, err := http1.ParseRequest(c.raw)
	if err != nil {
		c.log.Debug("parse failed, dropping connection", "error", err)
		c.srv.stats.DroppedConnections.Add(1)
		c.srv.metrics().connDropped(dropParse)
		return closeConn
	}

	req.RemoteAddr = remoteAddr(c.rwc)
	c.req = req
	c.res = http1.NewResponse(c.srv.config.ServerSoftware)
	c.start = time.Now()
	return dispatch
}

// dispatch runs the handler chain and makes sure the response goes out.
func dispatch(c *conn) stateFunc {
	c.setState(StateDispatching)
	c.srv.stats.TotalRequests.Add(1)

	c.srv.chain.Handle(c.req, c.res, c.rwc)

	// Nothing in the chain sent the response: the last state wins
	if !c.res.Sent() {
		if err := c.res.Send(c.rwc); err != nil {
			c.log.Debug("write failed", "error", err)
		}
	}

	c.setState(StateSent)
	return logAccess
}

// logAccess reports the finished exchange to stats, metrics and the access log.
func logAccess(c *conn) stateFunc {
	duration := time.Since(c.start)
	bytes := c.res.BytesWritten()

	c.srv.stats.BytesWritten.Add(uint64(bytes))
	c.srv.metrics().requestDone(c.req.Method, c.res.StatusCode, bytes, duration)

	if al := c.srv.config.AccessLog; al != nil {
		al.LogAccess(AccessRecord{
			RemoteAddr: c.req.RemoteAddr,
			Method:     c.req.Method,
			URI:        c.req.URI,
			Version:    c.req.Version,
			Status:     c.res.StatusCode,
			Bytes:      bytes,
			Time:       c.start,
			Duration:   duration,
		})
	}
	return closeConn
}

// closeConn ends the exchange; no keep-alive.
func closeConn(c *conn) stateFunc {
	if c.state == StateClosed {
		return nil
	}
	c.rwc.Close()
	c.setState(StateClosed)
	return nil
}
