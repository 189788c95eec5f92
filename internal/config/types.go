package config

import "time"

// Config is the root configuration for the sync pipeline.
type Config struct {
	Source SourceConfig `yaml:"source"`
	Build  BuildConfig  `yaml:"build"`
	Git    GitConfig    `yaml:"git"`
	Daemon DaemonConfig `yaml:"daemon,omitempty"`
}

// SourceConfig describes the published spreadsheet export to fetch.
type SourceConfig struct {
	URL         string `yaml:"url"`
	Destination string `yaml:"destination"` // local snapshot path, overwritten on every fetch
}

// BuildConfig describes the external site generator invocation.
type BuildConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
	Dir     string   `yaml:"dir,omitempty"`     // working directory for the generator
	Timeout string   `yaml:"timeout,omitempty"` // duration string; empty means no timeout
}

// TimeoutDuration parses the configured timeout; empty or invalid yields 0.
func (b BuildConfig) TimeoutDuration() time.Duration {
	if b.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(b.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// AuthType enumerates supported git authentication methods (stringly for YAML compatibility)
type AuthType string

const (
	AuthTypeNone  AuthType = "none"
	AuthTypeSSH   AuthType = "ssh"
	AuthTypeToken AuthType = "token"
	AuthTypeBasic AuthType = "basic"
)

// AuthConfig represents git authentication configuration
type AuthConfig struct {
	Type     AuthType `yaml:"type"` // ssh|token|basic|none
	Username string   `yaml:"username,omitempty"`
	Password string   `yaml:"password,omitempty"`
	Token    string   `yaml:"token,omitempty"`
	KeyPath  string   `yaml:"key_path,omitempty"`
}

// IsZero reports whether no auth method is specified.
func (a *AuthConfig) IsZero() bool { return a == nil || a.Type == "" || a.Type == AuthTypeNone }

// GitConfig describes the repository to synchronize and where to push.
type GitConfig struct {
	RepoPath    string      `yaml:"repo_path"`
	Remote      string      `yaml:"remote,omitempty"`
	Branch      string      `yaml:"branch,omitempty"`
	CommitLabel string      `yaml:"commit_label,omitempty"`
	AuthorName  string      `yaml:"author_name,omitempty"`
	AuthorEmail string      `yaml:"author_email,omitempty"`
	Auth        *AuthConfig `yaml:"auth,omitempty"`
}

// DaemonConfig describes periodic operation.
type DaemonConfig struct {
	Interval  string      `yaml:"interval,omitempty"` // duration string, e.g. "30m"
	HTTPAddr  string      `yaml:"http_addr,omitempty"`
	HistoryDB string      `yaml:"history_db,omitempty"`
	NATS      *NATSConfig `yaml:"nats,omitempty"`
}

// IntervalDuration parses the configured interval; validation guarantees it
// parses, so errors here fall back to the default.
func (d DaemonConfig) IntervalDuration() time.Duration {
	dur, err := time.ParseDuration(d.Interval)
	if err != nil || dur <= 0 {
		return DefaultInterval
	}
	return dur
}

// NATSConfig enables run-completed event publishing when set.
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject,omitempty"`
}
