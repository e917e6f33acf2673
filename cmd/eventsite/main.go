package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/eventsite/cmd/eventsite/commands"
	"git.home.luguber.info/inful/eventsite/internal/foundation/errors"
	"git.home.luguber.info/inful/eventsite/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("eventsite"),
		kong.Description("Build a static site from a directory of event data."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := &commands.Global{Logger: slog.Default(), Stdout: os.Stdout}
	if err := parser.Run(global, cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
