// Package commands implements the sitegraph command line.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegraph/internal/config"
)

// Global is passed to every command's Run method.
type Global struct {
	Out io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"sitegraph.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Compile   CompileCmd   `cmd:"" help:"Compile the content graph into route and redirect tables"`
	Init      InitCmd      `cmd:"" help:"Initialize a new configuration file"`
	Resolve   ResolveCmd   `cmd:"" help:"Run a single attribute resolver"`
	Visualize VisualizeCmd `cmd:"" help:"Print the redirect graph in Graphviz DOT format"`
	Daemon    DaemonCmd    `cmd:"" help:"Recompile on a schedule and on snapshot changes"`
	History   HistoryCmd   `cmd:"" help:"List recent builds"`
}

// AfterApply runs after flag parsing; setup logging once. The configured
// handler replaces it when a configuration file is loaded.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// ConfigureLogging installs the handler selected by the configuration. -v
// always forces debug.
func ConfigureLogging(cfg *config.Config, verbose bool) {
	lc := cfg.LoggingConfig()
	level := slog.LevelInfo
	switch lc.Level {
	case config.LogLevelDebug:
		level = slog.LevelDebug
	case config.LogLevelWarn:
		level = slog.LevelWarn
	case config.LogLevelError:
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if lc.Format == config.LogFormatJSON {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

// loadConfig reads the configuration file. When the file does not exist and
// snapshot is set, a default configuration reading snapshot is used, so
// compile works without any setup.
func loadConfig(root *CLI, snapshot string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	_, statErr := os.Stat(root.Config)
	switch {
	case snapshot != "" && os.IsNotExist(statErr):
		cfg, err = config.ForSnapshot(snapshot)
	default:
		cfg, err = config.Load(root.Config)
		if err == nil && snapshot != "" {
			cfg.Source = config.SourceConfig{Kind: config.SourceFile, Path: snapshot}
		}
	}
	if err != nil {
		return nil, err
	}
	ConfigureLogging(cfg, root.Verbose)
	return cfg, nil
}
