// Package gitsync commits and pushes the working tree to the configured
// remote. It is the only branching stage of the pipeline: change detection,
// conditional commit, conditional push.
package gitsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/wjhuron/Huronalytics/internal/config"
	apperrors "github.com/wjhuron/Huronalytics/internal/errors"
	"github.com/wjhuron/Huronalytics/internal/logfields"
)

// TimestampLayout is the commit message timestamp format.
const TimestampLayout = "2006-01-02 15:04:05"

// Result describes what a sync run did.
type Result struct {
	UpToDate   bool   // nothing to commit and nothing pending to push
	Committed  bool   // a new commit was created this run
	Pushed     bool   // the remote branch was advanced (or already matched)
	CommitHash string // hash of the commit created this run, if any
	Message    string // commit message used, if any
}

// Syncer synchronizes a git working tree with its remote.
type Syncer struct {
	cfg config.GitConfig
	now func() time.Time
}

// NewSyncer creates a Syncer for the given repository configuration.
func NewSyncer(cfg config.GitConfig) *Syncer {
	return &Syncer{cfg: cfg, now: time.Now}
}

// WithClock overrides the clock used for commit timestamps (tests).
func (s *Syncer) WithClock(now func() time.Time) *Syncer { s.now = now; return s }

// Sync stages, commits, and pushes working tree changes. A clean tree with
// no pending commits is the idempotence short-circuit: success, no commit,
// no push. A clean tree that is ahead of the remote (a previous push failed)
// still attempts the push so the remote converges.
func (s *Syncer) Sync(ctx context.Context) (*Result, error) {
	repo, err := git.PlainOpen(s.cfg.RepoPath)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CategoryGit, apperrors.SeverityFatal, "open repository").
			WithContext("path", s.cfg.RepoPath)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CategoryGit, apperrors.SeverityFatal, "open worktree")
	}

	status, err := wt.Status()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CategoryGit, apperrors.SeverityFatal, "read worktree status")
	}

	res := &Result{}

	if status.IsClean() {
		pending, perr := s.hasPendingPush(repo)
		if perr != nil {
			slog.Debug("Could not determine pending-push state; assuming none", logfields.Error(perr))
		}
		if !pending {
			slog.Info("Repository up to date; nothing to sync")
			res.UpToDate = true
			return res, nil
		}
		slog.Info("Working tree clean but local branch ahead of remote; pushing pending commits",
			logfields.Branch(s.cfg.Branch))
		updated, err := s.push(ctx, repo)
		if err != nil {
			return res, err
		}
		if updated {
			res.Pushed = true
		} else {
			res.UpToDate = true
		}
		return res, nil
	}

	logStatus(status)

	// Stage everything, tracked and untracked; exclusions are whatever
	// .gitignore already says.
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return res, apperrors.CommitFailed(fmt.Errorf("stage changes: %w", err))
	}

	msg := fmt.Sprintf("%s %s", s.cfg.CommitLabel, s.now().Format(TimestampLayout))
	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{
			Name:  s.cfg.AuthorName,
			Email: s.cfg.AuthorEmail,
			When:  s.now(),
		},
	})
	if err != nil {
		return res, apperrors.CommitFailed(err)
	}
	res.Committed = true
	res.CommitHash = hash.String()
	res.Message = msg
	slog.Info("Commit created", logfields.Commit(hash.String()[:8]), "message", msg)

	if _, err := s.push(ctx, repo); err != nil {
		// The commit stays local; the next run finds a clean-but-ahead tree
		// and retries the push.
		return res, err
	}
	res.Pushed = true
	return res, nil
}

// hasPendingPush reports whether the local branch ref differs from the
// remote-tracking ref (or the remote-tracking ref is absent entirely).
func (s *Syncer) hasPendingPush(repo *git.Repository) (bool, error) {
	localRef, err := repo.Reference(plumbing.NewBranchReferenceName(s.cfg.Branch), true)
	if err != nil {
		return false, fmt.Errorf("resolve local branch %s: %w", s.cfg.Branch, err)
	}
	remoteRef, err := repo.Reference(plumbing.NewRemoteReferenceName(s.cfg.Remote, s.cfg.Branch), true)
	if err != nil {
		// No remote-tracking ref yet; anything local is unpushed.
		return true, nil
	}
	return localRef.Hash() != remoteRef.Hash(), nil
}

// push advances the remote branch to the local branch head. The bool result
// reports whether the remote actually moved (false when it already matched).
func (s *Syncer) push(ctx context.Context, repo *git.Repository) (bool, error) {
	auth, err := buildAuth(s.cfg.Auth)
	if err != nil {
		return false, apperrors.GitAuthFailed(s.cfg.Remote, err)
	}

	refspec := gitconfig.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", s.cfg.Branch, s.cfg.Branch))
	err = repo.PushContext(ctx, &git.PushOptions{
		RemoteName: s.cfg.Remote,
		RefSpecs:   []gitconfig.RefSpec{refspec},
		Auth:       auth,
	})
	if err != nil {
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			slog.Info("Remote already up to date", logfields.Remote(s.cfg.Remote), logfields.Branch(s.cfg.Branch))
			return false, nil
		}
		return false, classifyPushError(s.cfg.Remote, s.cfg.Branch, err)
	}
	slog.Info("Pushed to remote", logfields.Remote(s.cfg.Remote), logfields.Branch(s.cfg.Branch))
	return true, nil
}

// logStatus prints the short-status listing the way `git status --short` would.
func logStatus(status git.Status) {
	for path, st := range status {
		slog.Info("Pending change",
			"state", fmt.Sprintf("%c%c", st.Staging, st.Worktree),
			logfields.Path(path))
	}
}
