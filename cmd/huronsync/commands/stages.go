package commands

import (
	"context"
	"fmt"

	"github.com/wjhuron/Huronalytics/internal/builder"
	"github.com/wjhuron/Huronalytics/internal/fetch"
	"github.com/wjhuron/Huronalytics/internal/gitsync"
)

// FetchCmd implements the 'fetch' command: retrieve the export, overwrite the
// snapshot, and stop.
type FetchCmd struct{}

func (f *FetchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	res, err := fetch.NewFetcher(cfg.Source, nil).Fetch(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Fetched %d bytes to %s\n", res.Bytes, cfg.Source.Destination)
	return nil
}

// BuildCmd implements the 'build' command: invoke the external generator once.
type BuildCmd struct{}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := builder.NewExecBuilder(cfg.Build).Build(context.Background()); err != nil {
		return err
	}
	fmt.Println("Site regenerated")
	return nil
}

// SyncCmd implements the 'sync' command. The syncer is independently
// invocable so the working tree can be pushed without refetching.
type SyncCmd struct{}

func (s *SyncCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	res, err := gitsync.NewSyncer(cfg.Git).Sync(context.Background())
	if err != nil {
		return err
	}
	switch {
	case res.UpToDate:
		fmt.Println("Everything up to date")
	case res.Committed:
		fmt.Printf("Committed %s and pushed to %s/%s\n", res.CommitHash[:8], cfg.Git.Remote, cfg.Git.Branch)
	case res.Pushed:
		fmt.Printf("Pushed pending commits to %s/%s\n", cfg.Git.Remote, cfg.Git.Branch)
	}
	return nil
}
