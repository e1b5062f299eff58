package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vinc/simpleton/pkg/simpleton/http1"
	"github.com/vinc/simpleton/pkg/simpleton/server"
)

// Access log formats
const (
	// FormatCommon writes one Common-Log-style line per request:
	//
	//	127.0.0.1 - - [Mon, 02 Jan 2006 15:04:05 GMT] "GET / HTTP/1.1" 200 13
	FormatCommon = "common"

	// FormatJSON writes one JSON object per line, see AccessLogEntry
	FormatJSON = "json"
)

// AccessLogConfig defines configuration for the access log.
type AccessLogConfig struct {
	// Output is where records are written (default: stdout)
	Output io.Writer

	// Format is FormatCommon or FormatJSON (default: FormatCommon)
	Format string

	// SkipPaths are request paths that are not logged (e.g. /favicon.ico)
	SkipPaths []string

	// ErrorLog receives write failures (default: slog.Default())
	ErrorLog *slog.Logger
}

// AccessLogEntry is the JSON form of an access record.
type AccessLogEntry struct {
	Time       string  `json:"time"`
	RemoteAddr string  `json:"remote_addr"`
	Method     string  `json:"method"`
	URI        string  `json:"uri"`
	Version    string  `json:"version"`
	Status     int     `json:"status"`
	Bytes      int64   `json:"bytes"`
	DurationMS float64 `json:"duration_ms"`
}

// AccessLog writes one record per dispatched request. It implements
// server.AccessLogger and is safe for concurrent use.
type AccessLog struct {
	mu     sync.Mutex
	out    io.Writer
	format string
	skip   map[string]bool
	errLog *slog.Logger
}

// NewAccessLog creates an access log from config.
// It returns an error for an unknown format.
func NewAccessLog(config AccessLogConfig) (*AccessLog, error) {
	// Apply defaults
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Format == "" {
		config.Format = FormatCommon
	}
	if config.ErrorLog == nil {
		config.ErrorLog = slog.Default()
	}

	switch config.Format {
	case FormatCommon, FormatJSON:
	default:
		return nil, fmt.Errorf("handlers: unknown access log format %q", config.Format)
	}

	skip := make(map[string]bool, len(config.SkipPaths))
	for _, path := range config.SkipPaths {
		skip[path] = true
	}

	return &AccessLog{
		out:    config.Output,
		format: config.Format,
		skip:   skip,
		errLog: config.ErrorLog,
	}, nil
}

var _ server.AccessLogger = (*AccessLog)(nil)

// LogAccess formats rec and writes it as a single line.
func (l *AccessLog) LogAccess(rec server.AccessRecord) {
	if len(l.skip) > 0 && l.skip[requestPath(rec.URI)] {
		return
	}

	var line []byte
	if l.format == FormatJSON {
		var err error
		line, err = json.Marshal(newAccessLogEntry(rec))
		if err != nil {
			l.errLog.Warn("access log encode failed", "error", err)
			return
		}
		line = append(line, '\n')
	} else {
		line = appendCommon(nil, rec)
	}

	l.mu.Lock()
	_, err := l.out.Write(line)
	l.mu.Unlock()
	if err != nil {
		l.errLog.Warn("access log write failed", "error", err)
	}
}

func newAccessLogEntry(rec server.AccessRecord) AccessLogEntry {
	return AccessLogEntry{
		Time:       rec.Time.UTC().Format(time.RFC3339),
		RemoteAddr: clientIP(rec.RemoteAddr),
		Method:     rec.Method,
		URI:        rec.URI,
		Version:    rec.Version,
		Status:     rec.Status,
		Bytes:      rec.Bytes,
		DurationMS: float64(rec.Duration.Microseconds()) / 1000.0,
	}
}

// appendCommon appends: ip - - [date] "method uri version" status bytes
func appendCommon(dst []byte, rec server.AccessRecord) []byte {
	buf := bytes.NewBuffer(dst)
	buf.WriteString(clientIP(rec.RemoteAddr))
	buf.WriteString(" - - [")
	buf.WriteString(rec.Time.UTC().Format(http1.DateFormat))
	buf.WriteString(`] "`)
	buf.WriteString(rec.Method)
	buf.WriteByte(' ')
	buf.WriteString(rec.URI)
	buf.WriteByte(' ')
	buf.WriteString(rec.Version)
	buf.WriteString(`" `)
	buf.WriteString(strconv.Itoa(rec.Status))
	buf.WriteByte(' ')
	if rec.Bytes > 0 {
		buf.WriteString(strconv.FormatInt(rec.Bytes, 10))
	} else {
		buf.WriteByte('-')
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}

// clientIP strips the port from a "host:port" remote address.
func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	if remoteAddr == "" {
		return "-"
	}
	return remoteAddr
}

func requestPath(uri string) string {
	if i := strings.IndexByte(uri, '?'); i != -1 {
		return uri[:i]
	}
	return uri
}
