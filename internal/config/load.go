package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "github.com/wjhuron/Huronalytics/internal/errors"
)

// Default values applied when the config file leaves fields empty.
const (
	DefaultRemote      = "origin"
	DefaultBranch      = "main"
	DefaultCommitLabel = "Auto-sync:"
	DefaultAuthorName  = "huronsync"
	DefaultAuthorEmail = "huronsync@localhost"
	DefaultInterval    = 30 * time.Minute
	DefaultHTTPAddr    = ":8080"
	DefaultNATSSubject = "huronsync.runs"
)

// Load reads configuration from a YAML file, loading .env files first and
// then applying environment variable overrides, defaults, and validation.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ConfigNotFound(path)
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadEnvFiles loads .env/.env.local without overriding existing process env.
// Missing files are not an error.
func loadEnvFiles() {
	for _, p := range []string{".env", ".env.local"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}

// applyEnvOverrides maps HURONSYNC_* environment variables onto config fields.
// Environment wins over file values so operators can override without edits.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HURONSYNC_SOURCE_URL"); v != "" {
		cfg.Source.URL = v
	}
	if v := os.Getenv("HURONSYNC_DESTINATION"); v != "" {
		cfg.Source.Destination = v
	}
	if v := os.Getenv("HURONSYNC_BUILD_COMMAND"); v != "" {
		cfg.Build.Command = v
	}
	if v := os.Getenv("HURONSYNC_REPO_PATH"); v != "" {
		cfg.Git.RepoPath = v
	}
	if v := os.Getenv("HURONSYNC_BRANCH"); v != "" {
		cfg.Git.Branch = v
	}
	if v := os.Getenv("HURONSYNC_GIT_TOKEN"); v != "" {
		if cfg.Git.Auth == nil {
			cfg.Git.Auth = &AuthConfig{Type: AuthTypeToken}
		}
		cfg.Git.Auth.Token = v
	}
	if v := os.Getenv("HURONSYNC_INTERVAL"); v != "" {
		cfg.Daemon.Interval = v
	}
	if v := os.Getenv("HURONSYNC_NATS_URL"); v != "" {
		if cfg.Daemon.NATS == nil {
			cfg.Daemon.NATS = &NATSConfig{}
		}
		cfg.Daemon.NATS.URL = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Git.Remote == "" {
		cfg.Git.Remote = DefaultRemote
	}
	if cfg.Git.Branch == "" {
		cfg.Git.Branch = DefaultBranch
	}
	if cfg.Git.CommitLabel == "" {
		cfg.Git.CommitLabel = DefaultCommitLabel
	}
	if cfg.Git.AuthorName == "" {
		cfg.Git.AuthorName = DefaultAuthorName
	}
	if cfg.Git.AuthorEmail == "" {
		cfg.Git.AuthorEmail = DefaultAuthorEmail
	}
	if cfg.Git.RepoPath == "" {
		cfg.Git.RepoPath = "."
	}
	if cfg.Daemon.Interval == "" {
		cfg.Daemon.Interval = DefaultInterval.String()
	}
	if cfg.Daemon.HTTPAddr == "" {
		cfg.Daemon.HTTPAddr = DefaultHTTPAddr
	}
	if cfg.Daemon.NATS != nil && cfg.Daemon.NATS.Subject == "" {
		cfg.Daemon.NATS.Subject = DefaultNATSSubject
	}
}

// Validate checks that all required fields are present and coherent.
func (c *Config) Validate() error {
	if c.Source.URL == "" {
		return apperrors.ConfigRequired("source.url")
	}
	if c.Source.Destination == "" {
		return apperrors.ConfigRequired("source.destination")
	}
	if c.Build.Command == "" {
		return apperrors.ConfigRequired("build.command")
	}
	if c.Build.Timeout != "" {
		if _, err := time.ParseDuration(c.Build.Timeout); err != nil {
			return apperrors.ValidationFailed("build.timeout", fmt.Sprintf("invalid duration %q", c.Build.Timeout))
		}
	}
	if c.Daemon.Interval != "" {
		if _, err := time.ParseDuration(c.Daemon.Interval); err != nil {
			return apperrors.ValidationFailed("daemon.interval", fmt.Sprintf("invalid duration %q", c.Daemon.Interval))
		}
	}
	if c.Git.Auth != nil && !c.Git.Auth.IsZero() {
		switch c.Git.Auth.Type {
		case AuthTypeToken:
			if c.Git.Auth.Token == "" {
				return apperrors.ValidationFailed("git.auth.token", "token auth requires a token")
			}
		case AuthTypeBasic:
			if c.Git.Auth.Username == "" || c.Git.Auth.Password == "" {
				return apperrors.ValidationFailed("git.auth", "basic auth requires username and password")
			}
		case AuthTypeSSH:
			if c.Git.Auth.KeyPath == "" {
				return apperrors.ValidationFailed("git.auth.key_path", "ssh auth requires a key path")
			}
		default:
			return apperrors.ValidationFailed("git.auth.type", fmt.Sprintf("unknown auth type %q", c.Git.Auth.Type))
		}
	}
	return nil
}
