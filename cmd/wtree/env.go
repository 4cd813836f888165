package main

import (
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vango-dev/wtree/internal/config"
	"github.com/vango-dev/wtree/pkg/component"
	"github.com/vango-dev/wtree/pkg/diag"
	"github.com/vango-dev/wtree/pkg/template"
)

type globalOptions struct {
	configPath string
	logLevel   string
}

// loadConfig loads the --config file, or the project config, or defaults.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// playground bundles what the commands need to drive a tree.
type playground struct {
	cfg       *config.Config
	logger    *slog.Logger
	registry  *prometheus.Registry
	collector *diag.Collector
	templates *template.Registry
	env       *component.Env
}

func newPlayground(cfg *config.Config, logOut io.Writer) *playground {
	handlerOpts := &slog.HandlerOptions{Level: cfg.Level()}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(logOut, handlerOpts)
	} else {
		handler = slog.NewTextHandler(logOut, handlerOpts)
	}
	logger := slog.New(handler)
	if cfg.Name != "" {
		logger = logger.With("env", cfg.Name)
	}

	rt := &playground{
		cfg:       cfg,
		logger:    logger,
		registry:  prometheus.NewRegistry(),
		collector: diag.NewCollector(cfg.Inspector.History),
		templates: template.NewRegistry(),
	}

	opts := []component.EnvOption{
		component.WithLogger(logger),
		component.WithDiagnostics(rt.collector),
		component.WithChecked(cfg.Checked),
		component.WithSerialRenders(cfg.SerialRenders),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, component.WithMetrics(component.NewMetrics(
			component.WithRegistry(rt.registry),
			component.WithNamespace(cfg.Metrics.Namespace),
		)))
	}
	rt.env = component.NewEnv(rt.templates, opts...)
	registerDemoTemplates(rt.templates)
	return rt
}
