package handlers

import (
	"net"
	"strings"
	"testing"

	"github.com/vinc/simpleton/pkg/simpleton/http1"
	"github.com/vinc/simpleton/pkg/simpleton/server"
)

func TestMethodGate(t *testing.T) {
	tests := []struct {
		method     string
		allowTrace bool
		want       server.Action
	}{
		{"GET", false, server.Continue},
		{"HEAD", false, server.Continue},
		{"TRACE", false, server.Stop},
		{"TRACE", true, server.Continue},
		{"POST", true, server.Stop},
		{"PUT", false, server.Stop},
		{"get", false, server.Stop},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			cfg := &server.Config{AllowTrace: tt.allowTrace}
			conn := &recorderConn{}
			req := &http1.Request{Method: tt.method, URI: "/", Version: "HTTP/1.1"}
			res := http1.NewResponse("")

			if got := MethodGate(cfg).Handle(req, res, conn); got != tt.want {
				t.Errorf("Handle() = %v, want %v", got, tt.want)
			}

			if tt.want == server.Stop {
				if !strings.HasPrefix(conn.String(), "HTTP/1.1 501 Not Implemented\r\n") {
					t.Errorf("written = %q, want 501", conn.String())
				}
				if !res.Sent() {
					t.Error("501 not marked sent")
				}
			} else if conn.String() != "" {
				t.Errorf("written = %q, want nothing", conn.String())
			}
		})
	}
}

func TestTrace(t *testing.T) {
	raw := "TRACE /echo HTTP/1.1\r\nHost: example.com\r\nX-Custom: yes\r\n\r\n"
	req := newRequest(t, raw)
	res := http1.NewResponse("")
	conn := &recorderConn{}

	if got := Trace().Handle(req, res, conn); got != server.Stop {
		t.Errorf("Handle() = %v, want %v", got, server.Stop)
	}

	// Headers are re-serialized lower-cased, in ascending order
	wantBody := "TRACE /echo HTTP/1.1\r\nhost: example.com\r\nx-custom: yes\r\n\r\n"
	if string(res.Body) != wantBody {
		t.Errorf("Body = %q, want %q", res.Body, wantBody)
	}
	if v, _ := res.GetHeader("content-type"); v != "message/http" {
		t.Errorf("content-type = %q, want message/http", v)
	}
	if !strings.HasSuffix(conn.String(), "\r\n\r\n"+wantBody) {
		t.Errorf("written = %q", conn.String())
	}
}

func TestTracePassesOtherMethods(t *testing.T) {
	req := newRequest(t, "GET / HTTP/1.1\r\n\r\n")
	res := http1.NewResponse("")
	conn := &recorderConn{}

	if got := Trace().Handle(req, res, conn); got != server.Continue {
		t.Errorf("Handle() = %v, want %v", got, server.Continue)
	}
	if conn.String() != "" {
		t.Errorf("written = %q, want nothing", conn.String())
	}
}

func TestTraceEndToEnd(t *testing.T) {
	root := writeTree(t, map[string]string{})

	t.Run("allowed", func(t *testing.T) {
		cfg := staticConfig(root)
		cfg.AllowTrace = true
		ln := startServer(t, cfg)

		head, body := exchange(t, ln, "TRACE /x HTTP/1.1\r\nHost: a\r\n\r\n")
		if head == nil || head.StatusCode != 200 {
			t.Fatalf("head = %+v, want 200", head)
		}
		if want := "TRACE /x HTTP/1.1\r\nhost: a\r\n\r\n"; body != want {
			t.Errorf("body = %q, want %q", body, want)
		}
	})

	t.Run("not allowed", func(t *testing.T) {
		ln := startServer(t, staticConfig(root))

		head, _ := exchange(t, ln, "TRACE /x HTTP/1.1\r\n\r\n")
		if head == nil || head.StatusCode != 501 {
			t.Fatalf("head = %+v, want 501", head)
		}
	})
}

func TestDefaultChainOrder(t *testing.T) {
	chain := Default(&server.Config{})
	if len(chain) != 3 {
		t.Fatalf("len(Default()) = %d, want 3", len(chain))
	}
}

func TestDefaultChainExtensible(t *testing.T) {
	root := writeTree(t, map[string]string{"index.html": "hi"})
	cfg := staticConfig(root)

	var ran []string
	chain := append(Default(cfg), server.HandlerFunc(func(req *http1.Request, res *http1.Response, _ net.Conn) server.Action {
		ran = append(ran, req.URI)
		return server.Continue
	}))

	for _, uri := range []string{"/", "/missing", "/index.html"} {
		req := newRequest(t, "GET "+uri+" HTTP/1.1\r\n\r\n")
		chain.Handle(req, http1.NewResponse(""), &recorderConn{})
	}

	// A 404 stops the chain before the appended handler
	want := []string{"/", "/index.html"}
	if strings.Join(ran, ",") != strings.Join(want, ",") {
		t.Errorf("appended handler ran for %v, want %v", ran, want)
	}
}
