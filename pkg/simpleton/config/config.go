// Package config loads simpleton-httpd settings from defaults, an optional
// JSON file and command-line overrides, and turns them into a server.Config.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vinc/simpleton/pkg/simpleton/server"
)

// Config is the on-disk and command-line configuration of simpleton-httpd.
type Config struct {
	// Address is the host or IP to bind
	// Default: 0.0.0.0
	Address string `json:"address"`

	// Port is the TCP port to bind
	// Default: 3000
	Port int `json:"port"`

	// Name is printed at startup
	// Default: "Simpleton HTTP Server"
	Name string `json:"name"`

	// Root is the directory static files are served from
	// Default: "."
	Root string `json:"root"`

	// DirectoryIndexes are tried in order for directory requests
	// Default: index.htm, index.html
	DirectoryIndexes []string `json:"directory_indexes"`

	// ContentTypes maps extensions (no dot) to media types. Entries from a
	// file are merged over the defaults.
	ContentTypes map[string]string `json:"content_types"`

	// AllowTrace enables the TRACE method
	AllowTrace bool `json:"allow_trace"`

	// Debug enables debug-level logging
	Debug bool `json:"debug"`

	// MetricsAddr, if set, serves Prometheus metrics on /metrics there
	MetricsAddr string `json:"metrics_addr"`

	// ShutdownTimeout bounds the graceful shutdown on SIGINT/SIGTERM
	// Default: 5s
	ShutdownTimeout Duration `json:"shutdown_timeout"`

	AccessLog AccessLogConfig `json:"access_log"`
}

// AccessLogConfig configures the access log.
type AccessLogConfig struct {
	// Enabled turns the access log on
	// Default: true
	Enabled bool `json:"enabled"`

	// Format is "common" or "json"
	// Default: "common"
	Format string `json:"format"`

	// Path is the file records are appended to; "" or "-" is stdout
	Path string `json:"path"`

	// SkipPaths are request paths that are not logged
	SkipPaths []string `json:"skip_paths"`
}

// Duration is a time.Duration that reads and writes JSON as a string
// such as "5s" or "250ms".
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"5s\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Validation errors
var (
	ErrInvalidPort       = errors.New("config: port must be between 0 and 65535")
	ErrEmptyRoot         = errors.New("config: root must not be empty")
	ErrInvalidFormat     = errors.New("config: access log format must be \"common\" or \"json\"")
	ErrNegativeTimeout   = errors.New("config: shutdown timeout must not be negative")
	ErrEmptyIndex        = errors.New("config: directory index names must not be empty")
	ErrEmptyExtension    = errors.New("config: content type extensions must not be empty")
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Address:          "0.0.0.0",
		Port:             3000,
		Name:             "Simpleton HTTP Server",
		Root:             ".",
		DirectoryIndexes: []string{"index.htm", "index.html"},
		ContentTypes:     DefaultContentTypes(),
		ShutdownTimeout:  Duration(5 * time.Second),
		AccessLog: AccessLogConfig{
			Enabled: true,
			Format:  "common",
		},
	}
}

// DefaultContentTypes returns a fresh copy of the built-in extension table.
func DefaultContentTypes() map[string]string {
	return map[string]string{
		"html": "text/html",
		"htm":  "text/html",
		"txt":  "text/plain",
		"css":  "text/css",
		"js":   "text/javascript",
		"json": "application/json",
		"xml":  "application/xml",
		"svg":  "image/svg+xml",
		"png":  "image/png",
		"jpg":  "image/jpeg",
		"jpeg": "image/jpeg",
		"gif":  "image/gif",
		"ico":  "image/x-icon",
		"pdf":  "application/pdf",
	}
}

// Load reads a JSON file over the defaults. Fields absent from the file
// keep their default value; content_types entries are added to the
// default table. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Decode content types separately so they merge instead of replace
	var overlay struct {
		ContentTypes map[string]string `json:"content_types"`
	}
	if err := json.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	defaults := cfg.ContentTypes
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if overlay.ContentTypes != nil {
		for ext, ct := range overlay.ContentTypes {
			defaults[ext] = ct
		}
		cfg.ContentTypes = defaults
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot use.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return ErrInvalidPort
	}
	if c.Root == "" {
		return ErrEmptyRoot
	}
	for _, index := range c.DirectoryIndexes {
		if index == "" {
			return ErrEmptyIndex
		}
	}
	for ext := range c.ContentTypes {
		if ext == "" {
			return ErrEmptyExtension
		}
	}
	switch c.AccessLog.Format {
	case "", "common", "json":
	default:
		return ErrInvalidFormat
	}
	if c.ShutdownTimeout < 0 {
		return ErrNegativeTimeout
	}
	return nil
}

// LogLevel returns the process log level.
func (c *Config) LogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// ServerConfig returns the server configuration. Logger, Metrics and
// AccessLog are left for the caller to wire.
func (c *Config) ServerConfig() *server.Config {
	indexes := append([]string(nil), c.DirectoryIndexes...)
	types := make(map[string]string, len(c.ContentTypes))
	for ext, ct := range c.ContentTypes {
		types[ext] = ct
	}

	return &server.Config{
		Address:          c.Address,
		Port:             c.Port,
		Name:             c.Name,
		RootPath:         c.Root,
		DirectoryIndexes: indexes,
		ContentTypes:     types,
		AllowTrace:       c.AllowTrace,
	}
}
