package engine

import (
	"context"
	"fmt"

	"github.com/corevcs/corevcs/pkg/object"
	"github.com/corevcs/corevcs/pkg/refs"
	"github.com/corevcs/corevcs/pkg/vcserr"
)

// Checkout resolves hashOrRef to a commit, destroys the current working
// tree without prompt, and repopulates it from that commit's tree. This is
// the documented contract: uncommitted edits are not preserved.
func (e *Engine) Checkout(ctx context.Context, hashOrRef string) error {
	commitHash, ok := refs.Resolve(ctx, e.Store, e.Refs, hashOrRef)
	if !ok {
		return fmt.Errorf("engine: checkout %q: %w", hashOrRef, vcserr.ErrNotFound)
	}
	obj, found, err := e.Store.Get(ctx, commitHash)
	if err != nil {
		return fmt.Errorf("engine: checkout: %w", err)
	}
	if !found || obj.Type != object.TypeCommit {
		return fmt.Errorf("engine: checkout %q: not a commit: %w", hashOrRef, vcserr.ErrInvalidArgument)
	}

	if err := e.populateWorkingTreeFromCommit(ctx, obj.Commit); err != nil {
		return fmt.Errorf("engine: checkout: %w", err)
	}

	switch {
	case refs.IsHeadsRef(hashOrRef):
		e.Refs.SetHeadSymbolic(hashOrRef)
	case e.Refs.Exists(refs.HeadsRef(hashOrRef)):
		e.Refs.SetHeadSymbolic(refs.HeadsRef(hashOrRef))
	default:
		e.Refs.SetHeadDetached(commitHash)
	}
	return nil
}

// populateWorkingTreeFromCommit clears the working tree and repopulates it
// from commit's tree, resetting every file's version counter to 0.
func (e *Engine) populateWorkingTreeFromCommit(ctx context.Context, commit *object.Commit) error {
	files, err := flattenTree(ctx, e.Store, commit.Tree)
	if err != nil {
		return err
	}
	e.WT.Clear()
	for relPath, blobHash := range files {
		blob, err := object.GetBlob(ctx, e.Store, blobHash)
		if err != nil {
			return fmt.Errorf("read blob %q: %w", relPath, err)
		}
		e.WT.Write(e.WT.AbsPath(relPath), blob.Content)
	}
	return nil
}
