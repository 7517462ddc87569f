// Package cli holds the shared state of the focusctl commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bnema/focuscore/internal/bootstrap"
	"github.com/bnema/focuscore/internal/cli/styles"
	"github.com/bnema/focuscore/internal/domain/build"
	"github.com/bnema/focuscore/internal/infrastructure/config"
	"github.com/bnema/focuscore/internal/infrastructure/metrics"
	"github.com/bnema/focuscore/internal/logging"
)

// Options are the global flags of focusctl.
type Options struct {
	ConfigPath string
	// LogLevel overrides logging.level when set.
	LogLevel string
	// Metrics forces the Prometheus exporter on.
	Metrics bool
	// Stderr receives logs. Defaults to os.Stderr.
	Stderr io.Writer
}

// App holds CLI dependencies.
type App struct {
	Config        *config.Config
	ConfigManager *config.Manager
	Theme         *styles.Theme
	BuildInfo     build.Info

	// Metrics is nil unless the exporter is enabled.
	Metrics *metrics.FocusMetrics
	server  *metrics.Server

	ctx       context.Context
	logCloser io.Closer
}

// NewApp loads the configuration and sets up logging and metrics.
func NewApp(opts Options) (*App, error) {
	mgr, err := config.NewManager(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := mgr.Load(); err != nil {
		return nil, err
	}
	cfg := mgr.Get()
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.Metrics {
		cfg.Metrics.Enabled = true
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	logger, closer, err := bootstrap.NewLogger(cfg.Logging, stderr)
	if err != nil {
		return nil, fmt.Errorf("set up logging: %w", err)
	}
	ctx := logging.WithContext(context.Background(), logger)
	logger.Debug().Str("config", mgr.GetConfigFile()).Msg("configuration loaded")

	app := &App{
		Config:        cfg,
		ConfigManager: mgr,
		Theme:         styles.NewTheme(),
		ctx:           ctx,
		logCloser:     closer,
	}
	if cfg.Metrics.Enabled {
		app.Metrics = metrics.New()
		app.server = metrics.NewServer(cfg.Metrics.ListenAddr, app.Metrics)
		if err := app.server.Start(ctx); err != nil {
			_ = closer.Close()
			return nil, err
		}
	}
	return app, nil
}

// MetricsAddr returns the address the exporter listens on, or "".
func (a *App) MetricsAddr() string {
	if a.server == nil {
		return ""
	}
	return a.server.Addr()
}

// Close releases all resources.
func (a *App) Close() error {
	if a.server != nil {
		if err := a.server.Stop(a.ctx); err != nil {
			logging.FromContext(a.ctx).Warn().Err(err).Msg("metrics server shutdown failed")
		}
	}
	if a.logCloser != nil {
		return a.logCloser.Close()
	}
	return nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}
