package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/wjhuron/Huronalytics/internal/config"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Run     RunCmd     `cmd:"" help:"Run the full pipeline: fetch data, rebuild site, sync to remote"`
	Fetch   FetchCmd   `cmd:"" help:"Fetch the published spreadsheet export only"`
	Build   BuildCmd   `cmd:"" help:"Run the site generator only"`
	Sync    SyncCmd    `cmd:"" help:"Commit and push working tree changes only"`
	History HistoryCmd `cmd:"" help:"Show recent pipeline runs"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	Daemon  DaemonCmd  `cmd:"" help:"Run the pipeline periodically with a status HTTP server"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig is the shared config entry point for subcommands.
func loadConfig(root *CLI) (*config.Config, error) {
	return config.Load(root.Config)
}
