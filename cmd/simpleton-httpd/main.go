// Command simpleton-httpd serves static files over HTTP/1.x, one request per
// connection.
//
// Usage:
//
//	simpleton-httpd [-a host] [-p port] [-root dir] [-allow-trace] [-debug]
//	                [-config file] [-metrics-addr addr] [-access-log file]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/vinc/simpleton/pkg/simpleton/config"
	"github.com/vinc/simpleton/pkg/simpleton/handlers"
	"github.com/vinc/simpleton/pkg/simpleton/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "simpleton-httpd:", err)
		os.Exit(1)
	}
}

// run serves until ctx is cancelled or a listener fails. Startup lines go
// to stdout, logs to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	sc := cfg.ServerConfig()
	sc.Logger = logger
	sc.Metrics = server.NewMetrics(reg)

	closeLog, err := setupAccessLog(cfg, sc, stdout, logger)
	if err != nil {
		return err
	}
	defer closeLog()

	srv := server.New(sc, handlers.Default(sc)...)

	ln, err := net.Listen("tcp", sc.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", sc.Addr(), err)
	}

	fmt.Fprintln(stdout, cfg.Name)
	fmt.Fprintf(stdout, "Listening on %s\n", ln.Addr())
	logger.Debug("server configured",
		"root", sc.RootPath,
		"indexes", sc.DirectoryIndexes,
		"allow_trace", sc.AllowTrace,
	)

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		metricsSrv = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Serve(ln)
	})

	if metricsSrv != nil {
		g.Go(func() error {
			logger.Info("serving metrics", "addr", cfg.MetricsAddr)
			if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics listener: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "active_connections", srv.Stats().ActiveConnections.Load())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeout))
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		if metricsSrv != nil {
			err = errors.Join(err, metricsSrv.Shutdown(shutdownCtx))
		}
		if err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}

		stats := srv.Stats()
		logger.Info("server stopped",
			"requests", stats.TotalRequests.Load(),
			"connections", stats.TotalConnections.Load(),
			"uptime", stats.Duration().Round(time.Second),
		)
		return nil
	})

	return g.Wait()
}

// setupAccessLog wires the access log into sc. The returned func closes the
// log file, if one was opened.
func setupAccessLog(cfg *config.Config, sc *server.Config, stdout io.Writer, logger *slog.Logger) (func(), error) {
	if !cfg.AccessLog.Enabled {
		return func() {}, nil
	}

	out := stdout
	closeFn := func() {}
	if p := cfg.AccessLog.Path; p != "" && p != "-" {
		f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open access log: %w", err)
		}
		out = f
		closeFn = func() { f.Close() }
	}

	al, err := handlers.NewAccessLog(handlers.AccessLogConfig{
		Output:    out,
		Format:    cfg.AccessLog.Format,
		SkipPaths: cfg.AccessLog.SkipPaths,
		ErrorLog:  logger,
	})
	if err != nil {
		closeFn()
		return nil, err
	}
	sc.AccessLog = al
	return closeFn, nil
}
