package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/wjhuron/Huronalytics/internal/history"
)

// HistoryCmd lists recent pipeline runs from the history database.
type HistoryCmd struct {
	Limit int `short:"n" help:"Number of runs to show" default:"20"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Daemon.HistoryDB == "" {
		return fmt.Errorf("no history database configured (daemon.history_db)")
	}

	store, err := history.Open(cfg.Daemon.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tOUTCOME\tDURATION\tCOMMIT\tERROR")
	for _, r := range runs {
		commit := r.CommitHash
		if len(commit) > 8 {
			commit = commit[:8]
		}
		errText := r.Error
		if r.FailedStage != "" {
			errText = fmt.Sprintf("[%s] %s", r.FailedStage, errText)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.StartedAt.Format(time.DateTime),
			r.Outcome,
			(time.Duration(r.DurationMS) * time.Millisecond).String(),
			commit,
			errText)
	}
	return w.Flush()
}
