// Package gitsync commits saved documents to the enclosing git
// repository when autocommit is enabled.
package gitsync

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrNotRepo reports that the file does not live inside a git work
// tree. Callers treat it as a no-op condition, not a failure.
var ErrNotRepo = errors.New("gitsync: not inside a git repository")

const (
	authorName  = "revw"
	authorEmail = "revw@localhost"
)

// CommitFile stages the given file and commits it with a message naming
// the document. The path may be absolute or relative to the working
// directory; the repository is discovered by walking up from the file.
// Committing an unchanged file is a no-op.
func CommitFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("gitsync: resolve %s: %w", path, err)
	}

	r, err := git.PlainOpenWithOptions(filepath.Dir(abs), &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return ErrNotRepo
		}
		return fmt.Errorf("gitsync: open repository: %w", err)
	}

	w, err := r.Worktree()
	if err != nil {
		return fmt.Errorf("gitsync: worktree: %w", err)
	}

	rel, err := filepath.Rel(w.Filesystem.Root(), abs)
	if err != nil {
		return fmt.Errorf("gitsync: %s is outside the work tree: %w", path, err)
	}

	if _, err := w.Add(filepath.ToSlash(rel)); err != nil {
		return fmt.Errorf("gitsync: stage %s: %w", rel, err)
	}

	msg := fmt.Sprintf("revw: update %s", filepath.Base(abs))
	_, err = w.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		if errors.Is(err, git.ErrEmptyCommit) {
			return nil
		}
		return fmt.Errorf("gitsync: commit: %w", err)
	}
	return nil
}
