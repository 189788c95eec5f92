// Package builder invokes the external site generator over the data snapshot.
// The generator is opaque: inputs, outputs, and algorithm belong to it, and
// success is judged solely by exit status.
package builder

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/wjhuron/Huronalytics/internal/config"
	apperrors "github.com/wjhuron/Huronalytics/internal/errors"
)

// Builder regenerates the site output from the current data snapshot.
// Implementations may fail; no partial-output cleanup is performed.
type Builder interface {
	Build(ctx context.Context) error
}

// ExecBuilder runs a configured external command.
type ExecBuilder struct {
	cfg config.BuildConfig
}

// NewExecBuilder creates a Builder that shells out to cfg.Command.
func NewExecBuilder(cfg config.BuildConfig) *ExecBuilder {
	return &ExecBuilder{cfg: cfg}
}

// Build executes the generator command in the configured directory, wiring
// its output through to the console. A configured timeout bounds the run;
// zero means the generator may take as long as it needs.
func (b *ExecBuilder) Build(ctx context.Context) error {
	if d := b.cfg.TimeoutDuration(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	if _, err := exec.LookPath(b.cfg.Command); err != nil {
		return apperrors.BuildFailed(b.cfg.Command, err)
	}

	cmd := exec.CommandContext(ctx, b.cfg.Command, b.cfg.Args...)
	cmd.Dir = b.cfg.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	slog.Info("Running site generator",
		"command", b.cfg.Command,
		"args", strings.Join(b.cfg.Args, " "),
		"dir", b.cfg.Dir)

	start := time.Now()
	if err := cmd.Run(); err != nil {
		return apperrors.BuildFailed(b.cfg.Command, err)
	}
	slog.Info("Site generator finished", "duration", time.Since(start).Round(time.Millisecond).String())
	return nil
}

// Func adapts a plain function to the Builder interface (used in tests and
// by callers that inline a build step).
type Func func(ctx context.Context) error

func (f Func) Build(ctx context.Context) error { return f(ctx) }
