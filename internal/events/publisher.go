// Package events publishes run-completed notifications over NATS when a
// server is configured. Publishing is fire-and-forget; a broker outage never
// fails a pipeline run.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/wjhuron/Huronalytics/internal/config"
	"github.com/wjhuron/Huronalytics/internal/logfields"
)

// RunCompleted is emitted after every pipeline run, success or failure.
type RunCompleted struct {
	RunID      string    `json:"run_id"`
	Outcome    string    `json:"outcome"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	FailedStage string    `json:"failed_stage,omitempty"`
	Error      string    `json:"error,omitempty"`
	CommitHash string    `json:"commit_hash,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher sends run events to a NATS subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to the configured NATS server.
func NewPublisher(cfg *config.NATSConfig) (*Publisher, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, fmt.Errorf("nats config is required")
	}
	conn, err := nats.Connect(cfg.URL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	slog.Info("NATS publisher connected", logfields.URL(cfg.URL), "subject", cfg.Subject)
	return &Publisher{conn: conn, subject: cfg.Subject}, nil
}

// PublishRunCompleted publishes the event; errors are logged, not returned,
// so event delivery never gates the pipeline.
func (p *Publisher) PublishRunCompleted(ev RunCompleted) {
	ev.Timestamp = time.Now()
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Error("Failed to marshal run event", logfields.Error(err))
		return
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		slog.Warn("Failed to publish run event", logfields.Error(err), logfields.RunID(ev.RunID))
		return
	}
	slog.Debug("Published run event", logfields.RunID(ev.RunID), "outcome", ev.Outcome)
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}
