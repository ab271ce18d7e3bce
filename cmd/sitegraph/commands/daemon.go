package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitegraph/internal/api"
	"git.home.luguber.info/inful/sitegraph/internal/config"
	"git.home.luguber.info/inful/sitegraph/internal/daemon"
	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/metrics"
)

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct{}

func (d *DaemonCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, "")
	if err != nil {
		return err
	}
	if cfg.Daemon == nil {
		return errors.ConfigError("daemon section is required for daemon mode").
			WithContext("path", root.Config).
			Build()
	}

	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dm := daemon.New(rt.compiler, daemonOptions(cfg, rt)...)
	slog.Info("Starting daemon mode",
		slog.Duration("interval", cfg.Daemon.IntervalDuration()),
		slog.Bool("watch", cfg.Daemon.Watch),
		slog.String("admin_addr", cfg.Daemon.AdminAddr))
	return dm.Run(ctx)
}

func daemonOptions(cfg *config.Config, rt *runtime) []daemon.Option {
	var apiOpts []api.Option
	if rt.registry != nil {
		apiOpts = append(apiOpts, api.WithMetrics(metrics.HTTPHandler(rt.registry)))
	}
	if rt.history != nil {
		apiOpts = append(apiOpts, api.WithHistory(rt.history))
	}

	opts := []daemon.Option{
		daemon.WithInterval(cfg.Daemon.IntervalDuration()),
		daemon.WithTemplateDir(cfg.Templates.Directory),
	}
	if cfg.Daemon.Watch {
		opts = append(opts, daemon.WithWatch(cfg.Source.Path, cfg.Daemon.DebounceDuration()))
	}
	if cfg.Daemon.AdminAddr != "" {
		opts = append(opts, daemon.WithAdmin(cfg.Daemon.AdminAddr, apiOpts...))
	}
	return opts
}
