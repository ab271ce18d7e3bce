package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitegraph/internal/config"
	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
)

// CompileCmd implements the 'compile' command.
type CompileCmd struct {
	Snapshot string `help:"Read the content graph from this snapshot file instead of the configured source"`
	Output   string `short:"o" help:"Output directory (overrides output.directory)"`
	Format   string `short:"f" help:"Output format: json or yaml (overrides output.format)"`
	Strict   bool   `help:"Fail when distinct nodes compile to the same path"`
}

func (c *CompileCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root, c.Snapshot)
	if err != nil {
		return err
	}
	if err := c.applyOverrides(cfg); err != nil {
		return err
	}

	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	res, err := rt.compiler.Run(ctx, "cli")
	if res != nil {
		_, _ = fmt.Fprintln(g.Out, res.Report.Summary())
	}
	return err
}

func (c *CompileCmd) applyOverrides(cfg *config.Config) error {
	if c.Output != "" {
		cfg.Output.Directory = c.Output
		slog.Info("Output directory overridden via CLI flag", slog.String("dir", c.Output))
	}
	if c.Format != "" {
		f, ok := config.NormalizeOutputFormat(c.Format)
		if !ok {
			return errors.ValidationError("invalid --format value").
				WithContext("value", c.Format).
				WithContext("valid", "json, yaml").
				Build()
		}
		cfg.Output.Format = f
	}
	if c.Strict {
		cfg.Routes.StrictPaths = true
	}
	return nil
}
