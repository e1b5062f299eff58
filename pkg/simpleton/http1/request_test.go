package http1

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParseRequest(t *testing.T) {
	raw := "GET /index.html HTTP/1.1\r\n" +
		"Host: example.com\r\n" +
		"User-Agent: TestClient/1.0\r\n" +
		"Accept:   text/html  \r\n" +
		"\r\n"

	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}

	if req.Method != "GET" {
		t.Errorf("Method = %q, want GET", req.Method)
	}
	if req.URI != "/index.html" {
		t.Errorf("URI = %q, want /index.html", req.URI)
	}
	if req.Version != "HTTP/1.1" {
		t.Errorf("Version = %q, want HTTP/1.1", req.Version)
	}
	if got := req.Header.Value("host"); got != "example.com" {
		t.Errorf("host = %q, want example.com", got)
	}
	if got := req.Header.Value("Accept"); got != "text/html" {
		t.Errorf("accept = %q, want trimmed text/html", got)
	}
	if req.Header.Len() != 3 {
		t.Errorf("Header.Len() = %d, want 3", req.Header.Len())
	}
}

func TestParseRequestBareLF(t *testing.T) {
	req, err := ParseRequest([]byte("HEAD / HTTP/1.0\nHost: x\n\n"))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if req.Method != "HEAD" || req.URI != "/" || req.Version != "HTTP/1.0" {
		t.Errorf("request line = %q %q %q", req.Method, req.URI, req.Version)
	}
	if got := req.Header.Value("host"); got != "x" {
		t.Errorf("host = %q, want x", got)
	}
}

func TestParseRequestMalformedLine(t *testing.T) {
	tests := []string{
		"",
		"\r\n",
		"GET\r\n\r\n",
		"GET /\r\n\r\n",
		"GET / HTTP/1.1 extra\r\n\r\n",
		"   \r\n",
	}

	for _, raw := range tests {
		_, err := ParseRequest([]byte(raw))
		if !errors.Is(err, ErrInvalidRequestLine) {
			t.Errorf("ParseRequest(%q) error = %v, want ErrInvalidRequestLine", raw, err)
		}
	}
}

func TestParseRequestExtraWhitespace(t *testing.T) {
	req, err := ParseRequest([]byte("GET \t /a   HTTP/1.1\r\n\r\n"))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if req.URI != "/a" {
		t.Errorf("URI = %q, want /a", req.URI)
	}
}

func TestParseRequestSkipsMalformedHeaders(t *testing.T) {
	raw := "GET / HTTP/1.1\r\n" +
		"no colon here\r\n" +
		"Host: example.com\r\n" +
		": empty name\r\n" +
		"X-Time: 12:30:00\r\n" +
		"\r\n"

	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if req.Header.Len() != 2 {
		t.Errorf("Header.Len() = %d, want 2", req.Header.Len())
	}
	// Split on the first colon only
	if got := req.Header.Value("x-time"); got != "12:30:00" {
		t.Errorf("x-time = %q, want 12:30:00", got)
	}
}

func TestParseRequestStopsAtBlankLine(t *testing.T) {
	raw := "GET / HTTP/1.1\r\n" +
		"Host: example.com\r\n" +
		"\r\n" +
		"X-Body: not a header\r\n"

	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if req.Header.Has("x-body") {
		t.Error("parsed past the blank line")
	}
}

func TestParseRequestWithoutBlankLine(t *testing.T) {
	req, err := ParseRequest([]byte("GET / HTTP/1.1\r\nHost: a"))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if got := req.Header.Value("host"); got != "a" {
		t.Errorf("host = %q, want a", got)
	}
}

func TestRequestString(t *testing.T) {
	req := &Request{Method: "TRACE", URI: "/x", Version: "HTTP/1.1"}
	req.Header.Set("Via", "proxy")
	req.Header.Set("Host", "example.com")

	want := "TRACE /x HTTP/1.1\r\n" +
		"host: example.com\r\n" +
		"via: proxy\r\n" +
		"\r\n"
	if got := req.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	var buf bytes.Buffer
	n, err := req.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if buf.String() != want || n != int64(len(want)) {
		t.Errorf("WriteTo wrote %d bytes %q, want %q", n, buf.String(), want)
	}
}

func TestRequestRoundTrip(t *testing.T) {
	tests := []*Request{
		{Method: "GET", URI: "/", Version: "HTTP/1.1"},
		{Method: "HEAD", URI: "/a/b?c=d&e=f", Version: "HTTP/1.0"},
		{Method: "TRACE", URI: "*", Version: "HTTP/1.1"},
		NewRequest("GET", "example.com:8080", "/docs/index.html"),
	}

	for _, req := range tests {
		t.Run(req.Method+" "+req.URI, func(t *testing.T) {
			got, err := ParseRequest([]byte(req.String()))
			if err != nil {
				t.Fatalf("ParseRequest(String()) failed: %v", err)
			}
			if got.Method != req.Method || got.URI != req.URI || got.Version != req.Version {
				t.Errorf("round trip = %q %q %q, want %q %q %q",
					got.Method, got.URI, got.Version, req.Method, req.URI, req.Version)
			}
			if got.String() != req.String() {
				t.Errorf("round trip String() = %q, want %q", got.String(), req.String())
			}
		})
	}
}

func TestNewRequestDefaults(t *testing.T) {
	req := NewRequest("GET", "example.com", "/")

	if req.Version != ProtoHTTP11 {
		t.Errorf("Version = %q, want %q", req.Version, ProtoHTTP11)
	}
	for name, want := range map[string]string{
		"host":       "example.com",
		"user-agent": UserAgent,
		"accept":     "*/*",
	} {
		if got := req.Header.Value(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
	if !strings.HasPrefix(req.String(), "GET / HTTP/1.1\r\naccept: */*\r\n") {
		t.Errorf("String() = %q", req.String())
	}
}

func TestRequestPathQuery(t *testing.T) {
	tests := []struct {
		uri   string
		path  string
		query string
	}{
		{"/a", "/a", ""},
		{"/a?", "/a", ""},
		{"/a?b=c", "/a", "b=c"},
		{"/a?b=c?d", "/a", "b=c?d"},
	}

	for _, tt := range tests {
		req := &Request{URI: tt.uri}
		if req.Path() != tt.path || req.Query() != tt.query {
			t.Errorf("URI %q: Path() = %q, Query() = %q, want %q, %q",
				tt.uri, req.Path(), req.Query(), tt.path, tt.query)
		}
	}
}
