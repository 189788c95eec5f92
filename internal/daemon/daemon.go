// Package daemon runs the pipeline on an interval with a status/metrics HTTP
// server and live config reloading. Overlapping ticks never run two pipelines
// at once: the working tree is a single-writer resource.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/wjhuron/Huronalytics/internal/builder"
	"github.com/wjhuron/Huronalytics/internal/config"
	apperrors "github.com/wjhuron/Huronalytics/internal/errors"
	"github.com/wjhuron/Huronalytics/internal/events"
	"github.com/wjhuron/Huronalytics/internal/fetch"
	"github.com/wjhuron/Huronalytics/internal/gitsync"
	"github.com/wjhuron/Huronalytics/internal/history"
	"github.com/wjhuron/Huronalytics/internal/logfields"
	"github.com/wjhuron/Huronalytics/internal/metrics"
	"github.com/wjhuron/Huronalytics/internal/pipeline"
)

// Daemon owns the scheduler, the HTTP server, and the pipeline wiring.
type Daemon struct {
	cfgPath string

	mu         sync.RWMutex
	cfg        *config.Config
	runner     *pipeline.Runner
	lastReport *pipeline.Report
	startedAt  time.Time

	runMu sync.Mutex // serializes pipeline runs across triggers

	scheduler gocron.Scheduler
	jobID     string
	registry  *prom.Registry
	recorder  *metrics.PrometheusRecorder
	store     *history.Store
	publisher *events.Publisher
	watcher   *ConfigWatcher
	httpSrv   *httpServer
}

// New creates a daemon from a loaded config. cfgPath enables live reload;
// pass "" to disable watching.
func New(cfg *config.Config, cfgPath string) (*Daemon, error) {
	registry := prom.NewRegistry()
	registry.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	recorder := metrics.NewPrometheusRecorder(registry)

	d := &Daemon{
		cfgPath:  cfgPath,
		cfg:      cfg,
		registry: registry,
		recorder: recorder,
	}
	d.runner = buildRunner(cfg, recorder)

	if cfg.Daemon.HistoryDB != "" {
		store, err := history.Open(cfg.Daemon.HistoryDB)
		if err != nil {
			return nil, apperrors.DaemonError("open history store", err)
		}
		d.store = store
	}
	if cfg.Daemon.NATS != nil && cfg.Daemon.NATS.URL != "" {
		pub, err := events.NewPublisher(cfg.Daemon.NATS)
		if err != nil {
			slog.Warn("Event publishing disabled", logfields.Error(err))
		} else {
			d.publisher = pub
		}
	}
	return d, nil
}

// buildRunner wires the three stages from config.
func buildRunner(cfg *config.Config, rec metrics.Recorder) *pipeline.Runner {
	return pipeline.NewRunner(
		fetch.NewFetcher(cfg.Source, nil),
		builder.NewExecBuilder(cfg.Build),
		gitsync.NewSyncer(cfg.Git),
		rec,
	)
}

// Start begins scheduled operation and the HTTP server. It returns once
// startup is complete; use Stop for shutdown.
func (d *Daemon) Start(ctx context.Context) error {
	d.startedAt = time.Now()

	s, err := gocron.NewScheduler()
	if err != nil {
		return apperrors.DaemonError("create scheduler", err)
	}
	d.scheduler = s

	job, err := s.NewJob(
		gocron.DurationJob(d.cfg.Daemon.IntervalDuration()),
		gocron.NewTask(func() { d.runOnce(ctx) }),
		gocron.WithName("pipeline-run"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return apperrors.DaemonError("schedule pipeline job", err)
	}
	d.jobID = job.ID().String()
	s.Start()
	slog.Info("Scheduler started", "interval", d.cfg.Daemon.IntervalDuration().String(), "job_id", d.jobID)

	d.httpSrv = newHTTPServer(d)
	if err := d.httpSrv.Start(d.cfg.Daemon.HTTPAddr); err != nil {
		return err
	}

	if d.cfgPath != "" {
		w, err := NewConfigWatcher(d.cfgPath, d)
		if err != nil {
			slog.Warn("Config watching disabled", logfields.Error(err))
		} else {
			d.watcher = w
			if err := w.Start(ctx); err != nil {
				slog.Warn("Config watching disabled", logfields.Error(err))
				d.watcher = nil
			}
		}
	}
	return nil
}

// runOnce executes one pipeline run, recording history and publishing events.
// The run mutex keeps manual triggers and scheduled ticks from overlapping.
func (d *Daemon) runOnce(ctx context.Context) {
	d.runMu.Lock()
	defer d.runMu.Unlock()

	d.mu.RLock()
	runner := d.runner
	d.mu.RUnlock()

	slog.Info("Starting scheduled pipeline run")
	rep := runner.Run(ctx)

	d.mu.Lock()
	d.lastReport = rep
	d.mu.Unlock()

	if rep.Outcome == pipeline.OutcomeFailed {
		slog.Error("Pipeline run failed",
			logfields.RunID(rep.RunID),
			logfields.Stage(string(rep.FailedStage)),
			"err", rep.Error)
	} else {
		slog.Info("Pipeline run finished",
			logfields.RunID(rep.RunID),
			"outcome", string(rep.Outcome),
			logfields.DurationMS(float64(rep.Duration.Milliseconds())))
	}

	if d.store != nil {
		rec := history.Run{
			ID:          rep.RunID,
			StartedAt:   rep.StartedAt,
			DurationMS:  rep.Duration.Milliseconds(),
			Outcome:     string(rep.Outcome),
			FailedStage: string(rep.FailedStage),
			Error:       rep.Error,
			CommitHash:  rep.CommitHash,
		}
		if err := d.store.Record(ctx, rec); err != nil {
			slog.Warn("Failed to record run history", logfields.Error(err))
		}
	}
	if d.publisher != nil {
		d.publisher.PublishRunCompleted(events.RunCompleted{
			RunID:       rep.RunID,
			Outcome:     string(rep.Outcome),
			StartedAt:   rep.StartedAt,
			DurationMS:  rep.Duration.Milliseconds(),
			FailedStage: string(rep.FailedStage),
			Error:       rep.Error,
			CommitHash:  rep.CommitHash,
		})
	}
}

// TriggerRun runs the pipeline immediately (used by the HTTP trigger
// endpoint). Blocks until the run completes.
func (d *Daemon) TriggerRun(ctx context.Context) *pipeline.Report {
	d.runOnce(ctx)
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastReport
}

// Reload re-reads the config file and applies interval and stage wiring
// changes. Called by the config watcher.
func (d *Daemon) Reload() error {
	cfg, err := config.Load(d.cfgPath)
	if err != nil {
		return err
	}

	d.mu.Lock()
	oldInterval := d.cfg.Daemon.IntervalDuration()
	d.cfg = cfg
	d.runner = buildRunner(cfg, d.recorder)
	d.mu.Unlock()

	if cfg.Daemon.IntervalDuration() != oldInterval && d.scheduler != nil {
		for _, j := range d.scheduler.Jobs() {
			if j.ID().String() == d.jobID {
				updated, err := d.scheduler.Update(j.ID(),
					gocron.DurationJob(cfg.Daemon.IntervalDuration()),
					gocron.NewTask(func() { d.runOnce(context.Background()) }),
					gocron.WithName("pipeline-run"),
					gocron.WithSingletonMode(gocron.LimitModeReschedule),
				)
				if err != nil {
					return fmt.Errorf("update scheduled job: %w", err)
				}
				d.jobID = updated.ID().String()
				slog.Info("Schedule interval updated", "interval", cfg.Daemon.IntervalDuration().String())
				break
			}
		}
	}
	slog.Info("Configuration reloaded", logfields.Path(d.cfgPath))
	return nil
}

// LastReport returns the most recent run report, or nil before the first run.
func (d *Daemon) LastReport() *pipeline.Report {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastReport
}

// Uptime reports how long the daemon has been running.
func (d *Daemon) Uptime() time.Duration { return time.Since(d.startedAt) }

// Stop shuts everything down gracefully.
func (d *Daemon) Stop(ctx context.Context) error {
	var firstErr error
	if d.watcher != nil {
		if err := d.watcher.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if d.scheduler != nil {
		if err := d.scheduler.Shutdown(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if d.httpSrv != nil {
		if err := d.httpSrv.Stop(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if d.store != nil {
		if err := d.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if d.publisher != nil {
		d.publisher.Close()
	}
	slog.Info("Daemon stopped")
	return firstErr
}
