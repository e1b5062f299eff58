package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/vinc/simpleton/pkg/simpleton/http1"
	"github.com/vinc/simpleton/pkg/simpleton/server"
)

// recorderConn captures what handlers write. Reads are not supported.
type recorderConn struct {
	net.Conn
	buf bytes.Buffer
}

func (c *recorderConn) Write(b []byte) (int, error) {
	return c.buf.Write(b)
}

func (c *recorderConn) String() string {
	return c.buf.String()
}

// writeTree creates files under a temp root. Keys ending in "/" are
// directories.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if name[len(name)-1] == '/' {
			if err := os.MkdirAll(path, 0o755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func staticConfig(root string) *server.Config {
	return &server.Config{
		Address:          "127.0.0.1",
		RootPath:         root,
		DirectoryIndexes: []string{"index.htm", "index.html"},
		ContentTypes: map[string]string{
			"html": "text/html",
			"txt":  "text/plain",
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func newRequest(t *testing.T, raw string) *http1.Request {
	t.Helper()

	req, err := http1.ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest(%q) error: %v", raw, err)
	}
	return req
}

// startServer serves the default chain for cfg on an in-memory listener.
func startServer(t *testing.T, cfg *server.Config) *fasthttputil.InmemoryListener {
	t.Helper()

	srv := server.New(cfg, Default(cfg)...)
	ln := fasthttputil.NewInmemoryListener()
	go srv.Serve(ln)
	t.Cleanup(func() { srv.Close() })
	return ln
}

// exchange sends raw and returns the parsed head and the body.
func exchange(t *testing.T, ln *fasthttputil.InmemoryListener, raw string) (*http1.ResponseHead, string) {
	t.Helper()

	c, err := ln.Dial()
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer c.Close()

	if _, err := io.WriteString(c, raw); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	out, err := io.ReadAll(c)
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if len(out) == 0 {
		return nil, ""
	}

	head, err := http1.ParseResponseHead(out)
	if err != nil {
		t.Fatalf("ParseResponseHead(%q) error: %v", out, err)
	}
	body := ""
	if i := bytes.Index(out, []byte("\r\n\r\n")); i != -1 {
		body = string(out[i+4:])
	}
	return head, body
}
