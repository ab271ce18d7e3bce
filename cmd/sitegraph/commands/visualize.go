package commands

import (
	"bytes"
	"context"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/sitegraph/internal/content"
	"git.home.luguber.info/inful/sitegraph/internal/fetch"
	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/redirects"
)

// VisualizeCmd implements the 'visualize' command.
type VisualizeCmd struct {
	Snapshot string `help:"Read the content graph from this snapshot file instead of the configured source"`
	Output   string `short:"o" help:"Output file path (optional, prints to stdout if not specified)"`
}

// Run executes the visualize command.
func (cmd *VisualizeCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root, cmd.Snapshot)
	if err != nil {
		return err
	}
	f, err := fetch.New(cfg.Source)
	if err != nil {
		return err
	}
	data, err := f.Fetch(context.Background())
	if err != nil {
		return err
	}
	graph, err := content.Decode(data)
	if err != nil {
		return err
	}
	res := redirects.Normalize(graph.Redirects)

	var buf bytes.Buffer
	if err := redirects.WriteDOT(&buf, res.Rules); err != nil {
		return err
	}

	if cmd.Output == "" {
		_, err := g.Out.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(cmd.Output, buf.Bytes(), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryOutput, "failed to write output file").
			WithContext("path", cmd.Output).
			Build()
	}
	slog.Info("Redirect graph written", slog.String("file", cmd.Output), slog.Int("rules", len(res.Rules)))
	return nil
}
