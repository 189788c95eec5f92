package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyURL        = "url"
	KeyPath       = "path"
	KeyRemote     = "remote"
	KeyBranch     = "branch"
	KeyCommit     = "commit"
	KeyStatus     = "status"
	KeyBytes      = "bytes"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Remote(r string) slog.Attr       { return slog.String(KeyRemote, r) }
func Branch(b string) slog.Attr       { return slog.String(KeyBranch, b) }
func Commit(hash string) slog.Attr    { return slog.String(KeyCommit, hash) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func Bytes(n int64) slog.Attr         { return slog.Int64(KeyBytes, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
