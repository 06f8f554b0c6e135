// Package engine is the version engine: the orchestrator that composes the
// object store, working tree, ignore filter, and reference table into the
// commit/checkout/merge protocol described for this system.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/corevcs/corevcs/pkg/ignore"
	"github.com/corevcs/corevcs/pkg/object"
	"github.com/corevcs/corevcs/pkg/refs"
	"github.com/corevcs/corevcs/pkg/worktree"
)

const gitignoreFile = ".gitignore"

// CommitSigner signs a commit's canonical payload (the serialization that
// would otherwise be hashed) and returns an encoded signature to store
// alongside, never inside, the hash payload.
type CommitSigner func(payload []byte) (string, error)

// Clock returns the current time in milliseconds since epoch. Tests needing
// determinism inject their own.
type Clock func() int64

func systemClock() int64 { return time.Now().UnixMilli() }

// Engine is the orchestrator. It is not safe for concurrent use: callers
// must serialize access to a single instance, per the single-threaded
// cooperative access model this system is specified against.
type Engine struct {
	Store object.Store
	Refs  *refs.Table
	WT    *worktree.Tree

	Author          string
	Signer          CommitSigner
	Clock           Clock
	OnInvalidIgnore ignore.InvalidPatternFunc

	lastSignature string
}

// New constructs an engine rooted at root, with an empty object store, an
// empty working tree, and the reference table in its initial state
// (refs/heads/main present but unresolved, HEAD symbolic on main).
func New(root string) *Engine {
	return &Engine{
		Store:  object.NewMemStore(),
		Refs:   refs.New(),
		WT:     worktree.New(root),
		Author: "corevcs",
		Clock:  systemClock,
	}
}

// Write creates or updates the file at path (absolute, under the engine's
// root).
func (e *Engine) Write(path string, content []byte) {
	e.WT.Write(path, content)
}

// Delete removes the file at path. Deleting an absent path is a silent
// no-op.
func (e *Engine) Delete(path string) {
	e.WT.Delete(path)
}

// Read returns the file at path, or ok=false if no such file is live.
func (e *Engine) Read(path string) (worktree.File, bool) {
	return e.WT.Read(path)
}

// Readdir lists names under path; see worktree.Tree.Readdir for the
// recursive/ignore-filtered semantics.
func (e *Engine) Readdir(path string, recursive bool, applyIgnore bool) []string {
	var filter *ignore.Filter
	if applyIgnore {
		filter = e.loadIgnoreFilter()
	}
	return e.WT.Readdir(path, worktree.ReadOptions{Recursive: recursive, Filter: filter})
}

// GetAllFiles returns every live working-tree file, sorted by path.
func (e *Engine) GetAllFiles() []worktree.File {
	return e.WT.All()
}

// loadIgnoreFilter parses the working tree's root .gitignore file, if
// present, into a filter; absent or empty yields a no-op filter.
func (e *Engine) loadIgnoreFilter() *ignore.Filter {
	f, ok := e.WT.Read(e.WT.AbsPath(gitignoreFile))
	if !ok {
		return ignore.Empty()
	}
	return ignore.Parse(string(f.Content), e.OnInvalidIgnore)
}

// headTreeHash resolves HEAD to its commit's tree hash, or "" if HEAD has
// no resolvable commit yet.
func (e *Engine) headTreeHash(ctx context.Context) (object.Hash, error) {
	h, ok := e.Refs.HeadCommit()
	if !ok {
		return "", nil
	}
	commit, err := object.GetCommit(ctx, e.Store, h)
	if err != nil {
		return "", fmt.Errorf("engine: read head commit %s: %w", h, err)
	}
	return commit.Tree, nil
}

// filteredWorkingFiles returns the current working tree's relativePath→
// content mapping after applying the ignore filter, skipping .gitignore
// itself only if it is itself excluded by its own rules (it never is,
// unless the user explicitly ignores it).
func (e *Engine) filteredWorkingFiles() map[string][]byte {
	filter := e.loadIgnoreFilter()
	out := make(map[string][]byte)
	for _, f := range e.WT.All() {
		rel := e.WT.RelPath(f.Path)
		if filter.Ignores(rel) {
			continue
		}
		out[rel] = f.Content
	}
	return out
}

func trimRefsHeads(name string) string {
	return strings.TrimPrefix(name, "refs/heads/")
}
