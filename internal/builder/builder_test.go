package builder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wjhuron/Huronalytics/internal/config"
)

func TestExecBuilderSuccess(t *testing.T) {
	dir := t.TempDir()
	b := NewExecBuilder(config.BuildConfig{
		Command: "sh",
		Args:    []string{"-c", "echo generated > out.html"},
		Dir:     dir,
	})
	require.NoError(t, b.Build(context.Background()))

	data, err := os.ReadFile(filepath.Join(dir, "out.html"))
	require.NoError(t, err)
	require.Equal(t, "generated\n", string(data))
}

func TestExecBuilderNonZeroExit(t *testing.T) {
	b := NewExecBuilder(config.BuildConfig{Command: "sh", Args: []string{"-c", "exit 3"}})
	err := b.Build(context.Background())
	require.Error(t, err)
}

func TestExecBuilderMissingCommand(t *testing.T) {
	b := NewExecBuilder(config.BuildConfig{Command: "definitely-not-a-real-generator"})
	require.Error(t, b.Build(context.Background()))
}

func TestExecBuilderTimeout(t *testing.T) {
	b := NewExecBuilder(config.BuildConfig{
		Command: "sh",
		Args:    []string{"-c", "sleep 5"},
		Timeout: "50ms",
	})
	require.Error(t, b.Build(context.Background()))
}

func TestFuncAdapter(t *testing.T) {
	sentinel := errors.New("boom")
	var called bool

	require.NoError(t, Func(func(context.Context) error { called = true; return nil }).Build(context.Background()))
	require.True(t, called)
	require.ErrorIs(t, Func(func(context.Context) error { return sentinel }).Build(context.Background()), sentinel)
}
