package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/wjhuron/Huronalytics/cmd/huronsync/commands"
	"github.com/wjhuron/Huronalytics/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("huronsync"),
		kong.Description("Fetch the Huronalytics spreadsheet export, rebuild the site, and sync to the remote."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	if err := ctx.Run(&commands.Global{Logger: slog.Default()}, &cli); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
