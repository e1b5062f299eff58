package handlers

import (
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/vinc/simpleton/pkg/simpleton/http1"
	"github.com/vinc/simpleton/pkg/simpleton/server"
)

// Static serves files under cfg.RootPath for GET and HEAD.
//
// The request path is canonicalized before it is joined to the root, so
// it never resolves above it. A directory requested without a trailing
// slash is redirected (301) to the slashed path; otherwise the first of
// cfg.DirectoryIndexes that is a regular file is served. The content-type
// comes from cfg.ContentTypes by extension. Anything that cannot be read
// is a 404.
//
// 301 and 404 stop the chain. A served file continues it.
func Static(cfg *server.Config) server.Handler {
	return server.HandlerFunc(func(req *http1.Request, res *http1.Response, conn net.Conn) server.Action {
		path := filepath.Join(cfg.RootPath, filepath.FromSlash(req.CanonicalizedURI()))

		if fi, err := os.Stat(path); err == nil && fi.IsDir() {
			if !strings.HasSuffix(req.Path(), "/") {
				return redirect(req, res, conn)
			}
			path = directoryIndex(path, cfg.DirectoryIndexes)
		}

		if ct, ok := cfg.ContentTypes[extension(path)]; ok {
			res.SetHeader(http1.HeaderContentType, ct)
		}

		body, err := os.ReadFile(path)
		if err != nil {
			res.SetStatus(http1.StatusNotFound)
			_ = res.Send(conn)
			return server.Stop
		}
		res.Body = body

		// Write errors end the exchange anyway: the connection is closed next
		if req.Method == http1.MethodHead {
			_ = res.SendHeadOnly(conn)
		} else {
			_ = res.Send(conn)
		}
		return server.Continue
	})
}

// redirect sends a 301 to the request path with a trailing slash,
// keeping the query string.
func redirect(req *http1.Request, res *http1.Response, conn net.Conn) server.Action {
	location := req.Path() + "/"
	if q := req.Query(); q != "" {
		location += "?" + q
	}

	res.SetStatus(http1.StatusMovedPermanently)
	res.SetHeader(http1.HeaderLocation, location)
	_ = res.Send(conn)
	return server.Stop
}

// directoryIndex returns dir joined with the first index that is a regular
// file, or dir itself if none is.
func directoryIndex(dir string, indexes []string) string {
	for _, index := range indexes {
		candidate := filepath.Join(dir, index)
		if fi, err := os.Stat(candidate); err == nil && fi.Mode().IsRegular() {
			return candidate
		}
	}
	return dir
}

// extension returns the file extension without the dot. Dotfiles such as
// ".profile" have none.
func extension(path string) string {
	base := filepath.Base(path)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return ""
	}
	return base[i+1:]
}
