// Package pipeline sequences the three stages of a sync run: fetch the data
// snapshot, regenerate the site, synchronize the working tree to the remote.
// Control flow is strictly sequential with early exit on the first failure;
// no stage is retried and no partial state is rolled back.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wjhuron/Huronalytics/internal/builder"
	"github.com/wjhuron/Huronalytics/internal/fetch"
	"github.com/wjhuron/Huronalytics/internal/gitsync"
	"github.com/wjhuron/Huronalytics/internal/metrics"
)

// StageName identifies a pipeline stage.
type StageName string

const (
	StageFetch StageName = "fetch"
	StageBuild StageName = "build"
	StageSync  StageName = "sync"
)

// Outcome is the final status of a run.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeUpToDate Outcome = "up_to_date"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Report captures what a run did, stage by stage.
type Report struct {
	RunID          string                      `json:"run_id"`
	StartedAt      time.Time                   `json:"started_at"`
	Duration       time.Duration               `json:"duration"`
	StageDurations map[StageName]time.Duration `json:"stage_durations"`
	Outcome        Outcome                     `json:"outcome"`
	FailedStage    StageName                   `json:"failed_stage,omitempty"`
	Error          string                      `json:"error,omitempty"`
	CommitHash     string                      `json:"commit_hash,omitempty"`
	CommitMessage  string                      `json:"commit_message,omitempty"`
	FetchedBytes   int64                       `json:"fetched_bytes"`
}

// Runner executes the pipeline. The builder is a capability interface so
// tests can substitute the external generator.
type Runner struct {
	fetcher  *fetch.Fetcher
	builder  builder.Builder
	syncer   *gitsync.Syncer
	recorder metrics.Recorder
}

// NewRunner wires the three stages together. A nil recorder defaults to noop.
func NewRunner(f *fetch.Fetcher, b builder.Builder, s *gitsync.Syncer, rec metrics.Recorder) *Runner {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Runner{fetcher: f, builder: b, syncer: s, recorder: rec}
}

// stageDef pairs a stage name with its work function.
type stageDef struct {
	name StageName
	fn   func(ctx context.Context, rep *Report) error
}

// Run executes fetch → build → sync, recording timing per stage and aborting
// on the first error. Cancellation is honored between stages; a stage that is
// already running blocks until it returns (matching the blocking-call model
// of retrieval and external builds).
func (r *Runner) Run(ctx context.Context) *Report {
	rep := &Report{
		RunID:          uuid.NewString(),
		StartedAt:      time.Now(),
		StageDurations: make(map[StageName]time.Duration),
		Outcome:        OutcomeSuccess,
	}

	stages := []stageDef{
		{StageFetch, r.runFetch},
		{StageBuild, r.runBuild},
		{StageSync, r.runSync},
	}

	for _, st := range stages {
		select {
		case <-ctx.Done():
			rep.Outcome = OutcomeCanceled
			rep.FailedStage = st.name
			rep.Error = ctx.Err().Error()
			r.recorder.IncStageResult(string(st.name), metrics.ResultCanceled)
			r.finish(rep)
			return rep
		default:
		}

		t0 := time.Now()
		err := st.fn(ctx, rep)
		d := time.Since(t0)
		rep.StageDurations[st.name] = d
		r.recorder.ObserveStageDuration(string(st.name), d)

		if err != nil {
			rep.Outcome = OutcomeFailed
			rep.FailedStage = st.name
			rep.Error = err.Error()
			r.recorder.IncStageResult(string(st.name), metrics.ResultFatal)
			r.finish(rep)
			return rep
		}
		r.recorder.IncStageResult(string(st.name), metrics.ResultSuccess)
	}

	r.finish(rep)
	return rep
}

func (r *Runner) runFetch(ctx context.Context, rep *Report) error {
	res, err := r.fetcher.Fetch(ctx)
	if err != nil {
		return err
	}
	rep.FetchedBytes = res.Bytes
	r.recorder.SetFetchedBytes(res.Bytes)
	return nil
}

func (r *Runner) runBuild(ctx context.Context, _ *Report) error {
	return r.builder.Build(ctx)
}

func (r *Runner) runSync(ctx context.Context, rep *Report) error {
	res, err := r.syncer.Sync(ctx)
	if res != nil {
		rep.CommitHash = res.CommitHash
		rep.CommitMessage = res.Message
		if err == nil && res.UpToDate {
			rep.Outcome = OutcomeUpToDate
		}
	}
	return err
}

func (r *Runner) finish(rep *Report) {
	rep.Duration = time.Since(rep.StartedAt)
	r.recorder.ObserveRunDuration(rep.Duration)
	r.recorder.IncRunOutcome(string(rep.Outcome))
}
