package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/corevcs/corevcs/pkg/object"
)

// Status reports the three disjoint path sets distinguishing the working
// tree (after ignore filtering) from HEAD's tree.
type Status struct {
	New      []string
	Modified []string
	Deleted  []string
}

// ComputeStatus implements the status protocol: new (in working tree, not
// in HEAD), modified (in both, blob hashes differ), deleted (in HEAD, not
// in working tree). HEAD's tree is treated as empty when HEAD has no
// resolvable commit yet.
func (e *Engine) ComputeStatus(ctx context.Context) (Status, error) {
	headTreeHash, err := e.headTreeHash(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("engine: status: %w", err)
	}
	headFiles, err := flattenTree(ctx, e.Store, headTreeHash)
	if err != nil {
		return Status{}, fmt.Errorf("engine: status: %w", err)
	}

	workFiles := e.filteredWorkingFiles()

	var result Status
	for relPath, content := range workFiles {
		headHash, inHead := headFiles[relPath]
		if !inHead {
			result.New = append(result.New, relPath)
			continue
		}
		if object.HashBlob(&object.Blob{Content: content}) != headHash {
			result.Modified = append(result.Modified, relPath)
		}
	}
	for relPath := range headFiles {
		if _, inWork := workFiles[relPath]; !inWork {
			result.Deleted = append(result.Deleted, relPath)
		}
	}

	sort.Strings(result.New)
	sort.Strings(result.Modified)
	sort.Strings(result.Deleted)
	return result, nil
}
