package http1

import (
	"bytes"
	"io"
	"strings"
)

// Request represents an inbound (or, for the client, outbound) HTTP/1.x
// request head. It is read-only once parsed: every handler in the chain
// sees the same value.
type Request struct {
	// Request-line components, exactly as received
	Method  string // e.g. "GET"
	URI     string // raw path and query, e.g. "/docs/?page=2"
	Version string // e.g. "HTTP/1.1"

	// Headers (one value per name, ascending iteration)
	Header Header

	// RemoteAddr is the network address of the client.
	// Set by the server, empty for parsed messages.
	RemoteAddr string
}

// NewRequest creates a request for the client side with the default
// host, user-agent and accept headers.
func NewRequest(method, host, uri string) *Request {
	req := &Request{
		Method:  method,
		URI:     uri,
		Version: ProtoHTTP11,
	}
	req.Header.Set(HeaderHost, host)
	req.Header.Set(HeaderUserAgent, UserAgent)
	req.Header.Set(HeaderAccept, "*/*")
	return req
}

// ParseRequest parses a request line and headers.
//
// Lines may end in LF or CRLF. The first line must hold exactly three
// whitespace-separated fields (method, URI, version), otherwise
// ErrInvalidRequestLine is returned. Header lines are split on the first
// colon and trimmed; lines without a colon, or with a name or value that
// Header rejects, are skipped. Parsing stops at the first blank line and
// anything after it is ignored.
func ParseRequest(raw []byte) (*Request, error) {
	line, rest := nextLine(raw)

	fields := strings.Fields(string(line))
	if len(fields) != 3 {
		return nil, ErrInvalidRequestLine
	}

	req := &Request{
		Method:  fields[0],
		URI:     fields[1],
		Version: fields[2],
	}
	parseHeaders(&req.Header, rest)
	return req, nil
}

// parseHeaders fills h from header lines in buf until the first blank line.
func parseHeaders(h *Header, buf []byte) {
	for len(buf) > 0 {
		var line []byte
		line, buf = nextLine(buf)
		if len(line) == 0 {
			return // End of headers
		}

		colonIdx := bytes.IndexByte(line, ':')
		if colonIdx == -1 {
			continue
		}
		name := strings.TrimSpace(string(line[:colonIdx]))
		value := strings.TrimSpace(string(line[colonIdx+1:]))
		// Malformed header lines are skipped, never fatal
		_ = h.Set(name, value)
	}
}

// nextLine splits buf after the first LF, trimming the line terminator.
func nextLine(buf []byte) (line, rest []byte) {
	idx := bytes.IndexByte(buf, '\n')
	if idx == -1 {
		line, rest = buf, nil
	} else {
		line, rest = buf[:idx], buf[idx+1:]
	}
	return bytes.TrimSuffix(line, []byte{'\r'}), rest
}

// Path returns the URI up to, not including, the first '?'.
func (r *Request) Path() string {
	if i := strings.IndexByte(r.URI, '?'); i != -1 {
		return r.URI[:i]
	}
	return r.URI
}

// Query returns the URI after the first '?', without the '?'.
func (r *Request) Query() string {
	if i := strings.IndexByte(r.URI, '?'); i != -1 {
		return r.URI[i+1:]
	}
	return ""
}

// CanonicalizedURI returns the request path with dot segments resolved
// against a synthetic root. See CanonicalizeURI.
func (r *Request) CanonicalizedURI() string {
	return CanonicalizeURI(r.Path())
}

// WriteTo serializes the request head: request line, headers in ascending
// name order, blank line. It implements io.WriterTo.
func (r *Request) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	r.appendHead(&buf)
	return buf.WriteTo(w)
}

// String returns the serialized request head, as used for the TRACE echo.
func (r *Request) String() string {
	var buf bytes.Buffer
	r.appendHead(&buf)
	return buf.String()
}

func (r *Request) appendHead(buf *bytes.Buffer) {
	buf.WriteString(r.Method)
	buf.WriteByte(' ')
	buf.WriteString(r.URI)
	buf.WriteByte(' ')
	buf.WriteString(r.Version)
	buf.Write(crlfBytes)
	writeHeaders(buf, &r.Header)
	buf.Write(crlfBytes)
}

// writeHeaders appends "name: value\r\n" for each header in h.
func writeHeaders(buf *bytes.Buffer, h *Header) {
	h.VisitAll(func(name, value string) bool {
		buf.WriteString(name)
		buf.Write(colonSpace)
		buf.WriteString(value)
		buf.Write(crlfBytes)
		return true
	})
}
