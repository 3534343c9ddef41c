// Command mariprog reads the port inspection exports and prints the selected
// reports to stdout. Logs go to stderr.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"mariprog/internal/app"
	"mariprog/internal/config"
	"mariprog/internal/ingest"
	"mariprog/internal/metrics"
	"mariprog/internal/metrics/datadog"
	"mariprog/internal/metrics/prompush"

	// register all backends with the storage factory.
	_ "mariprog/internal/storage/all"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("mariprog", flag.ContinueOnError)
	flags := config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	flags.Apply(&cfg)

	issues := config.Validate(cfg)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		fmt.Fprintln(os.Stderr, "configuration is invalid")
		return 1
	}
	if flags.Validate {
		fmt.Fprintln(os.Stderr, "configuration is valid")
		return 0
	}

	log, err := app.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() { _ = log.Sync() }()
	log = log.With(zap.String("job", cfg.Job))

	if b := metricsBackend(cfg, log); b != nil {
		metrics.SetBackend(b)
		defer func() {
			if err := metrics.Flush(); err != nil {
				log.Warn("metrics flush failed", zap.Error(err))
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	if err := app.Run(ctx, cfg, os.Stdout, log); err != nil {
		log.Error("run failed", errorFields(err)...)
		return 1
	}
	log.Info("run complete", zap.Duration("took", time.Since(start).Truncate(time.Millisecond)))
	return 0
}

// metricsBackend builds the configured backend, or returns nil for "none"
// and for a backend that fails to start.
func metricsBackend(cfg config.Config, log *zap.Logger) metrics.Backend {
	switch cfg.Metrics.Backend {
	case "pushgateway":
		b, err := prompush.NewBackend(cfg.Job, cfg.Metrics.PushgatewayURL)
		if err != nil {
			log.Warn("metrics: pushgateway backend disabled", zap.Error(err))
			return nil
		}
		log.Debug("metrics: pushgateway", zap.String("url", cfg.Metrics.PushgatewayURL))
		return b
	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       cfg.Metrics.DatadogAddr,
			Namespace:  "mariprog.",
			GlobalTags: []string{"job:" + cfg.Job},
		})
		if err != nil {
			log.Warn("metrics: datadog backend disabled", zap.Error(err))
			return nil
		}
		log.Debug("metrics: datadog", zap.String("addr", cfg.Metrics.DatadogAddr))
		return b
	default:
		return nil
	}
}

// errorFields locates err in its input file when it carries a position.
func errorFields(err error) []zap.Field {
	fields := []zap.Field{zap.Error(err)}
	var pe *ingest.ParseError
	if errors.As(err, &pe) {
		fields = append(fields, zap.String("file", pe.File))
		if pe.Line > 0 {
			fields = append(fields, zap.Int("line", pe.Line))
		}
		if pe.Column != "" {
			fields = append(fields, zap.String("column", pe.Column))
		}
		if pe.Err != nil {
			fields = append(fields, zap.String("cause", pe.Err.Error()))
		}
	}
	return fields
}
