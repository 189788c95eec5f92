package gitsync

import (
	"fmt"
	"strings"

	apperrors "github.com/wjhuron/Huronalytics/internal/errors"
)

// Typed push errors enabling structured classification without string parsing upstream.

type AuthError struct {
	Remote string
	Err    error
}

func (e *AuthError) Error() string { return fmt.Sprintf("push auth error for %s: %v", e.Remote, e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

type NonFastForwardError struct {
	Remote, Branch string
	Err            error
}

func (e *NonFastForwardError) Error() string {
	return fmt.Sprintf("push rejected (non-fast-forward) %s@%s: %v", e.Remote, e.Branch, e.Err)
}
func (e *NonFastForwardError) Unwrap() error { return e.Err }

type NetworkError struct {
	Remote string
	Err    error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("push network error for %s: %v", e.Remote, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// classifyPushError wraps push failures into typed variants when the
// underlying go-git error text permits, then into a PipelineError.
func classifyPushError(remote, branch string, err error) error {
	l := strings.ToLower(err.Error())
	var typed error
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "auth fail") || strings.Contains(l, "authorization"):
		typed = &AuthError{Remote: remote, Err: err}
		return apperrors.GitAuthFailed(remote, typed)
	case strings.Contains(l, "non-fast-forward") || strings.Contains(l, "fetch first") || strings.Contains(l, "rejected"):
		typed = &NonFastForwardError{Remote: remote, Branch: branch, Err: err}
	case strings.Contains(l, "timeout") || strings.Contains(l, "connection refused") || strings.Contains(l, "no such host") || strings.Contains(l, "i/o timeout"):
		typed = &NetworkError{Remote: remote, Err: err}
	default:
		typed = err
	}
	return apperrors.PushFailed(remote, branch, typed)
}
