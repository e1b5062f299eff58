package handlers

import (
	"net"

	"github.com/vinc/simpleton/pkg/simpleton/http1"
	"github.com/vinc/simpleton/pkg/simpleton/server"
)

// MethodGate answers 501 Not Implemented to any method other than GET and
// HEAD, and TRACE when cfg.AllowTrace is set, and stops the chain.
func MethodGate(cfg *server.Config) server.Handler {
	allowed := map[string]bool{
		http1.MethodGet:  true,
		http1.MethodHead: true,
	}
	if cfg.AllowTrace {
		allowed[http1.MethodTrace] = true
	}

	return server.HandlerFunc(func(req *http1.Request, res *http1.Response, conn net.Conn) server.Action {
		if allowed[req.Method] {
			return server.Continue
		}
		res.SetStatus(http1.StatusNotImplemented)
		_ = res.Send(conn)
		return server.Stop
	})
}
