package server

import (
	"net"

	"github.com/vinc/simpleton/pkg/simpleton/http1"
)

// Action tells the chain whether to run the next handler.
type Action int

const (
	// Continue passes the request and the current response to the next handler
	Continue Action = iota

	// Stop ends the chain; the response is final
	Stop
)

// String returns the string representation of the action
func (a Action) String() string {
	switch a {
	case Continue:
		return "continue"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// Handler processes one request. It may mutate res in place, write it to
// conn itself (res.Send, res.SendHeadOnly), or both. The request is shared
// read-only by the whole chain.
//
// The response state left by the last handler that ran is the one the
// server sends, if no handler sent it.
type Handler interface {
	Handle(req *http1.Request, res *http1.Response, conn net.Conn) Action
}

// HandlerFunc is an adapter to allow the use of ordinary functions as handlers.
type HandlerFunc func(req *http1.Request, res *http1.Response, conn net.Conn) Action

// Handle calls f(req, res, conn).
func (f HandlerFunc) Handle(req *http1.Request, res *http1.Response, conn net.Conn) Action {
	return f(req, res, conn)
}

// Chain runs handlers in registration order until one returns Stop.
type Chain []Handler

// Handle implements Handler, so chains can be nested.
func (c Chain) Handle(req *http1.Request, res *http1.Response, conn net.Conn) Action {
	for _, h := range c {
		if h.Handle(req, res, conn) == Stop {
			return Stop
		}
	}
	return Continue
}
