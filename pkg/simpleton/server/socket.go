package server

import "net"

// tuneConn applies per-connection socket options.
//
// TCP_NODELAY: the head and body go out as separate writes and the
// connection closes right after, so Nagle's algorithm only adds latency.
// Connections that are not TCP (in-memory listeners, unix sockets) are
// left untouched.
func tuneConn(c net.Conn) {
	tc, ok := c.(*net.TCPConn)
	if !ok {
		return
	}
	_ = tc.SetNoDelay(true)
}
