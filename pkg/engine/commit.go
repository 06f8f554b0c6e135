package engine

import (
	"context"
	"fmt"

	"github.com/corevcs/corevcs/pkg/object"
)

// Commit enumerates the working tree, filters it through the ignore filter,
// folds the result into a tree DAG, writes blobs/trees/the commit into the
// store, advances the reference table, and returns the new commit hash.
// author, if non-empty, overrides e.Author for this commit only.
//
// Empty commits are permitted: an unchanged working tree produces a tree
// identical to the parent's but a distinct commit hash (message/timestamp
// differ).
func (e *Engine) Commit(ctx context.Context, message string, author string, explicitParents ...object.Hash) (object.Hash, error) {
	files := e.filteredWorkingFiles()

	blobHashes := make(map[string]object.Hash, len(files))
	for relPath, content := range files {
		h, err := object.PutBlob(ctx, e.Store, &object.Blob{Content: content})
		if err != nil {
			return "", fmt.Errorf("engine: commit: write blob %q: %w", relPath, err)
		}
		blobHashes[relPath] = h
	}

	treeHash, err := buildTree(ctx, e.Store, blobHashes)
	if err != nil {
		return "", fmt.Errorf("engine: commit: %w", err)
	}

	parents := explicitParents
	if parents == nil {
		if headHash, ok := e.Refs.HeadCommit(); ok {
			parents = []object.Hash{headHash}
		}
	}

	commitAuthor := author
	if commitAuthor == "" {
		commitAuthor = e.Author
	}

	commit := &object.Commit{
		Tree:      treeHash,
		Parents:   parents,
		Author:    commitAuthor,
		Timestamp: e.Clock(),
		Message:   message,
	}

	commitHash, err := object.PutCommit(ctx, e.Store, commit)
	if err != nil {
		return "", fmt.Errorf("engine: commit: write commit: %w", err)
	}

	if e.Signer != nil {
		payload := object.SerializeCommit(commit)
		signature, err := e.Signer(payload)
		if err != nil {
			return "", fmt.Errorf("engine: commit: sign: %w", err)
		}
		e.lastSignature = signature
	}

	head := e.Refs.Head()
	if head.Detached() {
		e.Refs.SetHeadDetached(commitHash)
	} else {
		e.Refs.Set(head.Name, commitHash)
	}

	return commitHash, nil
}

// LastSignature returns the signature produced by the most recent signed
// commit, or "" if no signer is configured or none has run yet.
func (e *Engine) LastSignature() string { return e.lastSignature }
