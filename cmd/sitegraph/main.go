package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegraph/cmd/sitegraph/commands"
	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	var cli commands.CLI
	global := &commands.Global{Out: os.Stdout}

	ctx := kong.Parse(&cli,
		kong.Name("sitegraph"),
		kong.Description("Compile a headless CMS content graph into route and redirect tables for a static storefront."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	if err := ctx.Run(global, &cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
