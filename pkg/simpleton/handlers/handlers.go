// Package handlers provides the built-in protocol semantics of the server:
// the method gate, TRACE echo and static file serving, plus the access log.
//
// Example:
//
//	cfg := &server.Config{RootPath: "./public", DirectoryIndexes: []string{"index.html"}}
//	srv := server.New(cfg, handlers.Default(cfg)...)
//	srv.ListenAndServe()
package handlers

import "github.com/vinc/simpleton/pkg/simpleton/server"

// Default returns the built-in chain for cfg: MethodGate, Trace, Static.
// Handlers appended after it run once a file has been sent.
func Default(cfg *server.Config) server.Chain {
	return server.Chain{
		MethodGate(cfg),
		Trace(),
		Static(cfg),
	}
}
