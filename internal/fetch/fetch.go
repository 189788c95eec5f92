// Package fetch retrieves the published spreadsheet export and overwrites
// the local data snapshot.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/wjhuron/Huronalytics/internal/config"
	apperrors "github.com/wjhuron/Huronalytics/internal/errors"
	"github.com/wjhuron/Huronalytics/internal/logfields"
)

// Result reports what a fetch wrote.
type Result struct {
	Bytes      int64
	StatusCode int
}

// Fetcher downloads the source document to the destination path.
// The destination is overwritten unconditionally; no content validation
// is performed. Redirects are followed by the underlying http.Client.
type Fetcher struct {
	cfg    config.SourceConfig
	client *http.Client
}

// NewFetcher creates a Fetcher for the given source. A nil client uses
// http.DefaultClient (which follows redirects).
func NewFetcher(cfg config.SourceConfig, client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{cfg: cfg, client: client}
}

// Fetch retrieves the source URL and streams the body into the destination
// file. Transport failures are fatal. A non-2xx terminal status is still
// written out (the published link embeds its own access control and the
// pipeline does not validate content), but it is logged as a warning so a
// silently expired link shows up in the logs.
func (f *Fetcher) Fetch(ctx context.Context) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.URL, http.NoBody)
	if err != nil {
		return nil, apperrors.FetchFailed(f.cfg.URL, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperrors.FetchFailed(f.cfg.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("Fetch returned non-success status; writing body anyway",
			logfields.URL(f.cfg.URL), logfields.Status(resp.StatusCode))
	}

	if dir := filepath.Dir(f.cfg.Destination); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.SnapshotWriteFailed(f.cfg.Destination, err)
		}
	}

	out, err := os.Create(f.cfg.Destination)
	if err != nil {
		return nil, apperrors.SnapshotWriteFailed(f.cfg.Destination, err)
	}

	n, copyErr := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if copyErr != nil {
		// The snapshot may hold partial content at this point; the run aborts
		// before the builder sees it.
		return nil, apperrors.FetchFailed(f.cfg.URL, fmt.Errorf("copy body: %w", copyErr))
	}
	if closeErr != nil {
		return nil, apperrors.SnapshotWriteFailed(f.cfg.Destination, closeErr)
	}

	slog.Info("Snapshot updated",
		logfields.URL(f.cfg.URL),
		logfields.Path(f.cfg.Destination),
		logfields.Bytes(n),
		logfields.Status(resp.StatusCode))
	return &Result{Bytes: n, StatusCode: resp.StatusCode}, nil
}
