package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	e := New(CategoryFetch, SeverityFatal, "data fetch failed")
	if !strings.Contains(e.Error(), "fetch (fatal)") {
		t.Errorf("unexpected error text: %s", e.Error())
	}

	cause := stderrors.New("connection refused")
	wrapped := Wrap(cause, CategoryNetwork, SeverityFatal, "request failed")
	if !strings.Contains(wrapped.Error(), "connection refused") {
		t.Errorf("cause missing from error text: %s", wrapped.Error())
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("wrapped error must unwrap to its cause")
	}
}

func TestWithContext(t *testing.T) {
	e := FetchFailed("https://example.com/export", stderrors.New("timeout"))
	if e.Context["url"] != "https://example.com/export" {
		t.Errorf("expected url context, got %v", e.Context)
	}
	if e.Category != CategoryFetch {
		t.Errorf("expected fetch category, got %s", e.Category)
	}
}

func TestConstructorCategories(t *testing.T) {
	cases := []struct {
		err      *PipelineError
		category ErrorCategory
	}{
		{ConfigNotFound("config.yaml"), CategoryConfig},
		{ConfigRequired("source.url"), CategoryConfig},
		{ValidationFailed("git.auth", "bad"), CategoryValidation},
		{BuildFailed("python3", stderrors.New("exit 1")), CategoryBuild},
		{CommitFailed(stderrors.New("empty")), CategoryGit},
		{PushFailed("origin", "main", stderrors.New("rejected")), CategoryGit},
		{GitAuthFailed("origin", stderrors.New("denied")), CategoryAuth},
		{SnapshotWriteFailed("data/x.xlsx", stderrors.New("disk full")), CategoryFileSystem},
		{DaemonError("start", stderrors.New("boom")), CategoryDaemon},
	}
	for _, c := range cases {
		if c.err.Category != c.category {
			t.Errorf("%s: expected category %s, got %s", c.err.Message, c.category, c.err.Category)
		}
		if c.err.Severity != SeverityFatal {
			t.Errorf("%s: expected fatal severity", c.err.Message)
		}
	}
}
