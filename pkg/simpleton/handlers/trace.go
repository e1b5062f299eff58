package handlers

import (
	"net"

	"github.com/vinc/simpleton/pkg/simpleton/http1"
	"github.com/vinc/simpleton/pkg/simpleton/server"
)

// Trace reflects a TRACE request back to the client as a message/http
// body (RFC 2616 §9.8). Other methods pass through.
//
// Trace does not check whether TRACE is allowed; MethodGate does.
func Trace() server.Handler {
	return server.HandlerFunc(func(req *http1.Request, res *http1.Response, conn net.Conn) server.Action {
		if req.Method != http1.MethodTrace {
			return server.Continue
		}
		res.SetHeader(http1.HeaderContentType, http1.ContentTypeMessageHTTP)
		res.Body = []byte(req.String())
		_ = res.Send(conn)
		return server.Stop
	})
}
