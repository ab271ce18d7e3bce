package commands

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"git.home.luguber.info/inful/sitegraph/internal/eventstore"
	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int  `short:"n" help:"Number of builds to list" default:"10"`
	JSON  bool `help:"Print the summaries as JSON"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root, "")
	if err != nil {
		return err
	}
	if cfg.EventStore.Path == "" {
		return errors.ConfigError("build history is disabled (set eventstore.path)").Build()
	}
	if h.Limit <= 0 {
		return errors.ValidationError("--limit must be positive").WithContext("limit", h.Limit).Build()
	}

	store, err := eventstore.NewSQLiteStore(cfg.EventStore.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	builds, err := eventstore.History(context.Background(), store, h.Limit)
	if err != nil {
		return err
	}

	if h.JSON {
		enc := json.NewEncoder(g.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(builds)
	}

	t := table.NewWriter()
	t.SetOutputMirror(g.Out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Build", "Started", "Trigger", "Status", "Pages", "Redirects", "Widened", "Warnings", "Duration"})
	for _, b := range builds {
		t.AppendRow(table.Row{
			b.BuildID,
			b.StartedAt.Local().Format(time.DateTime),
			b.Trigger,
			b.Status,
			b.Pages,
			b.Redirects,
			b.Widened,
			b.Warnings,
			b.Duration.Truncate(time.Millisecond).String(),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "", "", "builds", strconv.Itoa(len(builds))})
	t.Render()
	return nil
}
