package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/wjhuron/Huronalytics/internal/builder"
	"github.com/wjhuron/Huronalytics/internal/fetch"
	"github.com/wjhuron/Huronalytics/internal/gitsync"
	"github.com/wjhuron/Huronalytics/internal/pipeline"
)

// RunCmd implements the 'run' command: the full fetch → build → sync pipeline.
type RunCmd struct{}

func (r *RunCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Println("Starting Huronalytics site sync")

	runner := pipeline.NewRunner(
		fetch.NewFetcher(cfg.Source, nil),
		builder.NewExecBuilder(cfg.Build),
		gitsync.NewSyncer(cfg.Git),
		nil,
	)

	rep := runner.Run(context.Background())
	switch rep.Outcome {
	case pipeline.OutcomeUpToDate:
		fmt.Println("Everything up to date; nothing to sync")
	case pipeline.OutcomeSuccess:
		fmt.Printf("Run complete in %s", rep.Duration.Round(time.Millisecond))
		if rep.CommitHash != "" {
			fmt.Printf(" (commit %s)", rep.CommitHash[:8])
		}
		fmt.Println()
	case pipeline.OutcomeFailed, pipeline.OutcomeCanceled:
		return fmt.Errorf("pipeline %s at stage %s: %s", rep.Outcome, rep.FailedStage, rep.Error)
	}
	return nil
}
