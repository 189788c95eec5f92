package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
source:
  url: "https://example.com/export?format=xlsx"
  destination: "data/sheet.xlsx"
build:
  command: "python3"
  args: ["build.py"]
git:
  repo_path: "."
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	require.Equal(t, DefaultRemote, cfg.Git.Remote)
	require.Equal(t, DefaultBranch, cfg.Git.Branch)
	require.Equal(t, DefaultCommitLabel, cfg.Git.CommitLabel)
	require.Equal(t, DefaultAuthorName, cfg.Git.AuthorName)
	require.Equal(t, DefaultInterval, cfg.Daemon.IntervalDuration())
	require.Equal(t, DefaultHTTPAddr, cfg.Daemon.HTTPAddr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadValidatesRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing source url", `
source:
  destination: "data/sheet.xlsx"
build:
  command: "python3"
`},
		{"missing destination", `
source:
  url: "https://example.com/export"
build:
  command: "python3"
`},
		{"missing build command", `
source:
  url: "https://example.com/export"
  destination: "data/sheet.xlsx"
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
		})
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HURONSYNC_SOURCE_URL", "https://override.example.com/export")
	t.Setenv("HURONSYNC_BRANCH", "site")
	t.Setenv("HURONSYNC_INTERVAL", "5m")
	t.Setenv("HURONSYNC_GIT_TOKEN", "tok-123")

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	require.Equal(t, "https://override.example.com/export", cfg.Source.URL)
	require.Equal(t, "site", cfg.Git.Branch)
	require.Equal(t, 5*time.Minute, cfg.Daemon.IntervalDuration())
	require.NotNil(t, cfg.Git.Auth)
	require.Equal(t, AuthTypeToken, cfg.Git.Auth.Type)
	require.Equal(t, "tok-123", cfg.Git.Auth.Token)
}

func TestValidateAuth(t *testing.T) {
	base := Config{
		Source: SourceConfig{URL: "https://example.com", Destination: "d.xlsx"},
		Build:  BuildConfig{Command: "true"},
	}

	cfg := base
	cfg.Git.Auth = &AuthConfig{Type: AuthTypeToken}
	require.Error(t, cfg.Validate(), "token auth without token must fail")

	cfg = base
	cfg.Git.Auth = &AuthConfig{Type: AuthTypeBasic, Username: "u"}
	require.Error(t, cfg.Validate(), "basic auth without password must fail")

	cfg = base
	cfg.Git.Auth = &AuthConfig{Type: AuthTypeSSH, KeyPath: "/tmp/key"}
	require.NoError(t, cfg.Validate())

	cfg = base
	cfg.Git.Auth = &AuthConfig{Type: AuthTypeNone}
	require.NoError(t, cfg.Validate())
}

func TestInitRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))

	// The starter file must itself be a loadable config.
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "main", cfg.Git.Branch)
	require.Equal(t, "Auto-sync:", cfg.Git.CommitLabel)
}
