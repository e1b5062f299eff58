package main

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/vinc/simpleton/pkg/simpleton/config"
)

// parseFlags builds the configuration: defaults, then the -config file if
// given, then every flag set explicitly on the command line.
func parseFlags(args []string, output io.Writer) (*config.Config, error) {
	fs := flag.NewFlagSet("simpleton-httpd", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: simpleton-httpd [options]")
		fs.PrintDefaults()
	}

	def := config.Default()
	var (
		configPath      string
		address         string
		port            int
		root            string
		name            string
		allowTrace      bool
		debug           bool
		metricsAddr     string
		accessLogPath   string
		accessLogFormat string
		noAccessLog     bool
		shutdownTimeout time.Duration
	)

	fs.StringVar(&configPath, "config", "", "Read configuration from a JSON `file`")
	fs.StringVar(&address, "a", def.Address, "Bind to `host` address")
	fs.StringVar(&address, "address", def.Address, "Bind to `host` address")
	fs.IntVar(&port, "p", def.Port, "Use `port`")
	fs.IntVar(&port, "port", def.Port, "Use `port`")
	fs.StringVar(&root, "root", def.Root, "Serve files from `dir`")
	fs.StringVar(&name, "name", def.Name, "Server `name` printed at startup")
	fs.BoolVar(&allowTrace, "allow-trace", false, "Allow the TRACE method")
	fs.BoolVar(&debug, "debug", false, "Enable debug logging")
	fs.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on `addr`/metrics")
	fs.StringVar(&accessLogPath, "access-log", "", "Append access records to `file` (default: stdout)")
	fs.StringVar(&accessLogFormat, "access-log-format", def.AccessLog.Format, "Access log `format`: common or json")
	fs.BoolVar(&noAccessLog, "no-access-log", false, "Disable the access log")
	fs.DurationVar(&shutdownTimeout, "shutdown-timeout", time.Duration(def.ShutdownTimeout), "Graceful shutdown `timeout`")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	cfg := def
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}

	// Explicit flags win over the file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a", "address":
			cfg.Address = address
		case "p", "port":
			cfg.Port = port
		case "root":
			cfg.Root = root
		case "name":
			cfg.Name = name
		case "allow-trace":
			cfg.AllowTrace = allowTrace
		case "debug":
			cfg.Debug = debug
		case "metrics-addr":
			cfg.MetricsAddr = metricsAddr
		case "access-log":
			cfg.AccessLog.Path = accessLogPath
		case "access-log-format":
			cfg.AccessLog.Format = accessLogFormat
		case "no-access-log":
			cfg.AccessLog.Enabled = !noAccessLog
		case "shutdown-timeout":
			cfg.ShutdownTimeout = config.Duration(shutdownTimeout)
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
