package main

import (
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/hybrids/internal/config"
	"github.com/vango-dev/hybrids/pkg/fixture"
	"github.com/vango-dev/hybrids/pkg/hybrid"
	"github.com/vango-dev/hybrids/pkg/middleware"
)

// globalOptions holds the persistent flags.
type globalOptions struct {
	configDir string
	logLevel  string
}

// env is the configured environment shared by all commands.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	observer hybrid.Observer
}

func newEnv(opts *globalOptions, logOut io.Writer) (*env, error) {
	root, err := config.FindProjectRoot(opts.configDir)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &env{
		cfg:      cfg,
		logger:   cfg.Logger(logOut),
		registry: prometheus.NewRegistry(),
	}

	var observers []hybrid.Observer
	if cfg.Metrics.Enabled {
		observers = append(observers, middleware.Prometheus(
			middleware.WithRegistry(e.registry),
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithSubsystem(cfg.Metrics.Subsystem),
		))
	}
	if cfg.Tracing.Enabled {
		observers = append(observers, middleware.OpenTelemetry(
			middleware.WithTracerName(cfg.Tracing.TracerName),
		))
	}
	e.observer = middleware.Chain(observers...)
	return e, nil
}

// session loads a scenario file and mounts it in a runtime wired to the
// environment.
func (e *env) session(path string) (*fixture.Session, error) {
	fx, err := fixture.Load(path)
	if err != nil {
		return nil, err
	}
	return fixture.NewSession(fx,
		hybrid.WithLogger(e.logger),
		hybrid.WithObserver(e.observer),
	)
}
