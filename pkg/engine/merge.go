package engine

import (
	"context"
	"fmt"

	"github.com/corevcs/corevcs/pkg/object"
	"github.com/corevcs/corevcs/pkg/refs"
	"github.com/corevcs/corevcs/pkg/vcserr"
)

const (
	StatusAlreadyUpToDate = "already up to date"
	StatusFastForward     = "Fast-forward"
	StatusMergeSuccessful = "Merge successful"
)

// Merge merges the named branch into the current HEAD.
func (e *Engine) Merge(ctx context.Context, branchName string) (string, error) {
	theirs, ok := refs.Resolve(ctx, e.Store, e.Refs, branchName)
	if !ok {
		return "", fmt.Errorf("engine: merge %q: %w", branchName, vcserr.ErrNotFound)
	}
	ours, ok := e.Refs.HeadCommit()
	if !ok {
		return "", fmt.Errorf("engine: merge %q: HEAD has no commit: %w", branchName, vcserr.ErrState)
	}
	if ours == theirs {
		return StatusAlreadyUpToDate, nil
	}

	base, err := mergeBase(ctx, e.Store, ours, theirs)
	if err != nil {
		return "", fmt.Errorf("engine: merge %q: %w", branchName, err)
	}

	if base == ours {
		theirCommit, err := object.GetCommit(ctx, e.Store, theirs)
		if err != nil {
			return "", fmt.Errorf("engine: merge %q: fast-forward: %w", branchName, err)
		}
		if err := e.populateWorkingTreeFromCommit(ctx, theirCommit); err != nil {
			return "", fmt.Errorf("engine: merge %q: fast-forward: %w", branchName, err)
		}
		head := e.Refs.Head()
		if head.Detached() {
			e.Refs.SetHeadDetached(theirs)
		} else {
			e.Refs.Set(head.Name, theirs)
		}
		return StatusFastForward, nil
	}
	if base == theirs {
		return StatusAlreadyUpToDate, nil
	}

	resolved, conflictPath, err := threeWayMerge(ctx, e.Store, base, ours, theirs)
	if err != nil {
		return "", fmt.Errorf("engine: merge %q: %w", branchName, err)
	}
	if conflictPath != "" {
		return "", fmt.Errorf("engine: merge %q: conflict at %q: %w", branchName, conflictPath, &vcserr.ConflictError{Path: conflictPath})
	}

	// Apply the resolved mapping to the working tree atomically (Open
	// Question #1: scratch-then-apply, working tree untouched on conflict).
	e.WT.Clear()
	for relPath, blobHash := range resolved {
		blob, err := object.GetBlob(ctx, e.Store, blobHash)
		if err != nil {
			return "", fmt.Errorf("engine: merge %q: read blob %q: %w", branchName, relPath, err)
		}
		e.WT.Write(e.WT.AbsPath(relPath), blob.Content)
	}

	commit := &object.Commit{
		Tree:      mustBuildTree(ctx, e.Store, resolved),
		Parents:   []object.Hash{ours, theirs},
		Author:    e.Author,
		Timestamp: e.Clock(),
		Message:   fmt.Sprintf("Merge branch '%s'", branchName),
	}
	commitHash, err := object.PutCommit(ctx, e.Store, commit)
	if err != nil {
		return "", fmt.Errorf("engine: merge %q: write commit: %w", branchName, err)
	}

	head := e.Refs.Head()
	if head.Detached() {
		e.Refs.SetHeadDetached(commitHash)
	} else {
		e.Refs.Set(head.Name, commitHash)
	}

	return StatusMergeSuccessful, nil
}

func mustBuildTree(ctx context.Context, store object.Store, files map[string]object.Hash) object.Hash {
	h, _ := buildTree(ctx, store, files)
	return h
}

// mergeBase collects every ancestor of ours (BFS over parents, visiting each
// hash once), then BFS from theirs, returning the first visited hash that
// is also an ancestor of ours.
func mergeBase(ctx context.Context, store object.Store, ours, theirs object.Hash) (object.Hash, error) {
	oursAncestors, err := ancestorSet(ctx, store, ours)
	if err != nil {
		return "", err
	}

	visited := make(map[object.Hash]bool)
	queue := []object.Hash{theirs}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if visited[h] {
			continue
		}
		visited[h] = true
		if oursAncestors[h] {
			return h, nil
		}
		commit, err := object.GetCommit(ctx, store, h)
		if err != nil {
			return "", fmt.Errorf("merge base: read %s: %w", h, err)
		}
		queue = append(queue, commit.Parents...)
	}
	return "", fmt.Errorf("unrelated histories: %w", vcserr.ErrHistory)
}

func ancestorSet(ctx context.Context, store object.Store, start object.Hash) (map[object.Hash]bool, error) {
	visited := make(map[object.Hash]bool)
	queue := []object.Hash{start}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if visited[h] {
			continue
		}
		visited[h] = true
		commit, err := object.GetCommit(ctx, store, h)
		if err != nil {
			return nil, fmt.Errorf("ancestor set: read %s: %w", h, err)
		}
		queue = append(queue, commit.Parents...)
	}
	return visited, nil
}

// threeWayMerge reconciles base/ours/theirs trees at whole-blob-hash
// granularity per path. It returns the resolved path→blobHash mapping on
// success, or a non-empty conflictPath on the first irreconcilable path.
func threeWayMerge(ctx context.Context, store object.Store, base, ours, theirs object.Hash) (map[string]object.Hash, string, error) {
	baseFiles, err := treeFilesOf(ctx, store, base)
	if err != nil {
		return nil, "", err
	}
	ourFiles, err := treeFilesOf(ctx, store, ours)
	if err != nil {
		return nil, "", err
	}
	theirFiles, err := treeFilesOf(ctx, store, theirs)
	if err != nil {
		return nil, "", err
	}

	paths := make(map[string]struct{})
	for p := range baseFiles {
		paths[p] = struct{}{}
	}
	for p := range ourFiles {
		paths[p] = struct{}{}
	}
	for p := range theirFiles {
		paths[p] = struct{}{}
	}

	resolved := make(map[string]object.Hash)
	for p := range paths {
		b, bOK := baseFiles[p]
		o, oOK := ourFiles[p]
		t, tOK := theirFiles[p]

		switch {
		case oOK == tOK && o == t:
			// O == T, including both-deleted.
			if oOK {
				resolved[p] = o
			}
		case bOK == oOK && b == o:
			// base == ours: take theirs (present or deleted).
			if tOK {
				resolved[p] = t
			}
		case bOK == tOK && b == t:
			// base == theirs: keep ours unchanged.
			if oOK {
				resolved[p] = o
			}
		default:
			return nil, p, nil
		}
	}
	return resolved, "", nil
}

func treeFilesOf(ctx context.Context, store object.Store, commitHash object.Hash) (map[string]object.Hash, error) {
	commit, err := object.GetCommit(ctx, store, commitHash)
	if err != nil {
		return nil, fmt.Errorf("three-way merge: read commit %s: %w", commitHash, err)
	}
	return flattenTree(ctx, store, commit.Tree)
}
