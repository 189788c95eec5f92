package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitCmdWritesStarterConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cmd := &InitCmd{}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Config: path}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "source:")
	require.Contains(t, string(data), "git:")
}

func TestInitCmdRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("existing: true\n"), 0o644))

	cmd := &InitCmd{}
	require.Error(t, cmd.Run(&Global{}, &CLI{Config: path}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "existing: true\n", string(data))

	cmd.Force = true
	require.NoError(t, cmd.Run(&Global{}, &CLI{Config: path}))
}
