// Package http1 implements the HTTP/1.x message layer used by simpleton:
// header storage, request parsing and serialization, URI canonicalization,
// and two-phase (head, then body) response transmission.
package http1

// HTTP methods understood by the built-in handlers
const (
	MethodGet   = "GET"
	MethodHead  = "HEAD"
	MethodPost  = "POST"
	MethodTrace = "TRACE"
)

// Protocol versions
const (
	ProtoHTTP10 = "HTTP/1.0"
	ProtoHTTP11 = "HTTP/1.1"
)

// Header names. Stored lower-cased, as Header does.
const (
	HeaderAccept        = "accept"
	HeaderConnection    = "connection"
	HeaderContentLength = "content-length"
	HeaderContentType   = "content-type"
	HeaderDate          = "date"
	HeaderHost          = "host"
	HeaderLocation      = "location"
	HeaderServer        = "server"
	HeaderUserAgent     = "user-agent"
)

// Product tokens sent in the server and user-agent headers
const (
	ServerSoftware = "SimpletonHTTP/0.0.0"
	UserAgent      = "SimpletonHTTP/0.0.0"
)

// ContentTypeMessageHTTP is the media type of a TRACE echo body (RFC 2616 §9.8)
const ContentTypeMessageHTTP = "message/http"

// DateFormat is the RFC 1123 layout used for the date header.
// Times must be converted to UTC before formatting.
const DateFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// Limits
const (
	// MaxHeadBytes is the maximum size of the request line plus headers.
	// ReadMessage fails with ErrHeadTooLarge past this point.
	MaxHeadBytes = 16 << 10
)

var (
	crlfBytes  = []byte("\r\n")
	colonSpace = []byte(": ")
)
