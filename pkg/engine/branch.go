package engine

import (
	"fmt"

	"github.com/corevcs/corevcs/pkg/refs"
	"github.com/corevcs/corevcs/pkg/vcserr"
)

// CreateBranch creates refs/heads/<name> pointing at the commit HEAD
// currently resolves to. It fails if the branch already exists, or if HEAD
// has no resolvable commit yet.
func (e *Engine) CreateBranch(name string) error {
	refName := refs.HeadsRef(name)
	if e.Refs.Exists(refName) {
		return fmt.Errorf("engine: create branch %q: already exists: %w", name, vcserr.ErrInvalidArgument)
	}
	head, ok := e.Refs.HeadCommit()
	if !ok {
		return fmt.Errorf("engine: create branch %q: HEAD has no commit yet: %w", name, vcserr.ErrState)
	}
	e.Refs.Set(refName, head)
	return nil
}

// DeleteBranch removes refs/heads/<name>. It fails if the branch does not
// exist, or if the symbolic HEAD currently resolves through it. Per this
// system's resolution of the detached-HEAD open question, a detached HEAD
// never blocks deletion, regardless of which branch it was last on.
func (e *Engine) DeleteBranch(name string) error {
	refName := refs.HeadsRef(name)
	if !e.Refs.Exists(refName) {
		return fmt.Errorf("engine: delete branch %q: does not exist: %w", name, vcserr.ErrInvalidArgument)
	}
	head := e.Refs.Head()
	if !head.Detached() && head.Name == refName {
		return fmt.Errorf("engine: delete branch %q: checked out via HEAD: %w", name, vcserr.ErrState)
	}
	e.Refs.Delete(refName)
	return nil
}

// CurrentBranch returns the branch name HEAD symbolically points at, or
// ok=false when HEAD is detached.
func (e *Engine) CurrentBranch() (name string, ok bool) {
	head := e.Refs.Head()
	if head.Detached() {
		return "", false
	}
	return trimRefsHeads(head.Name), true
}

// Branches lists every branch name, sorted.
func (e *Engine) Branches() []string {
	return e.Refs.Branches()
}
