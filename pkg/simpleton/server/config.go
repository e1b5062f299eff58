package server

import (
	"log/slog"
	"net"
	"strconv"
	"time"
)

// Config holds server configuration.
//
// A Config is shared by pointer between the server and its handlers and
// must not be modified once Serve has been called; connection goroutines
// read it without synchronization.
type Config struct {
	// Address is the IP address or host to bind, e.g. "0.0.0.0"
	Address string

	// Port is the TCP port to bind. 0 picks a free port.
	Port int

	// Name is a human-readable server name, printed at startup
	Name string

	// ServerSoftware is sent in the server header.
	// Default: http1.ServerSoftware
	ServerSoftware string

	// RootPath is the directory static files are served from
	RootPath string

	// DirectoryIndexes are tried in order when a request names a directory
	DirectoryIndexes []string

	// ContentTypes maps a file extension, without the dot, to a media type
	ContentTypes map[string]string

	// AllowTrace enables the TRACE method
	AllowTrace bool

	// Logger receives process and connection diagnostics.
	// Default: slog.Default()
	Logger *slog.Logger

	// Metrics, if set, records connection and request counters
	Metrics *Metrics

	// AccessLog, if set, is called once per dispatched request
	AccessLog AccessLogger
}

// Addr returns the "host:port" listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Address, strconv.Itoa(c.Port))
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// AccessRecord describes one completed request/response exchange.
type AccessRecord struct {
	RemoteAddr string
	Method     string
	URI        string
	Version    string
	Status     int
	Bytes      int64 // body bytes written to the wire
	Time       time.Time
	Duration   time.Duration
}

// AccessLogger receives one record per dispatched request, after the
// response has been sent. Implementations must be safe for concurrent use.
type AccessLogger interface {
	LogAccess(rec AccessRecord)
}

// AccessLoggerFunc is an adapter to allow the use of ordinary functions as
// access loggers.
type AccessLoggerFunc func(rec AccessRecord)

// LogAccess calls f(rec).
func (f AccessLoggerFunc) LogAccess(rec AccessRecord) {
	f(rec)
}
