package engine

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/corevcs/corevcs/pkg/object"
)

// buildTree folds a flat relativePath→blobHash mapping into a tree DAG,
// writing every intermediate object.Tree to store and returning the root
// hash.
func buildTree(ctx context.Context, store object.Store, files map[string]object.Hash) (object.Hash, error) {
	return buildTreeDir(ctx, store, files, "")
}

func buildTreeDir(ctx context.Context, store object.Store, files map[string]object.Hash, prefix string) (object.Hash, error) {
	direct := make(map[string]object.Hash)
	subdirs := make(map[string]struct{})

	for p, h := range files {
		rel := p
		if prefix != "" {
			if !strings.HasPrefix(p, prefix+"/") {
				continue
			}
			rel = p[len(prefix)+1:]
		}

		if slash := strings.IndexByte(rel, '/'); slash < 0 {
			direct[rel] = h
		} else {
			subdirs[rel[:slash]] = struct{}{}
		}
	}

	names := make([]string, 0, len(direct)+len(subdirs))
	for name := range direct {
		names = append(names, name)
	}
	for name := range subdirs {
		names = append(names, name)
	}
	sort.Strings(names)

	var entries []object.TreeEntry
	for _, name := range names {
		if h, isFile := direct[name]; isFile {
			entries = append(entries, object.TreeEntry{Name: name, Mode: object.ModeFile, Hash: h})
			continue
		}
		childPrefix := name
		if prefix != "" {
			childPrefix = prefix + "/" + name
		}
		subHash, err := buildTreeDir(ctx, store, files, childPrefix)
		if err != nil {
			return "", fmt.Errorf("engine: build tree %q: %w", childPrefix, err)
		}
		entries = append(entries, object.TreeEntry{Name: name, Mode: object.ModeDir, Hash: subHash})
	}

	return object.PutTree(ctx, store, &object.Tree{Entries: entries})
}

// flattenTree walks a tree hash recursively, returning every blob path
// (forward-slash, relative to the tree root) mapped to its blob hash.
func flattenTree(ctx context.Context, store object.Store, h object.Hash) (map[string]object.Hash, error) {
	out := make(map[string]object.Hash)
	if h == "" {
		return out, nil
	}
	if err := flattenTreeInto(ctx, store, h, "", out); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenTreeInto(ctx context.Context, store object.Store, h object.Hash, prefix string, out map[string]object.Hash) error {
	tree, err := object.GetTree(ctx, store, h)
	if err != nil {
		return fmt.Errorf("engine: flatten tree %s: %w", h, err)
	}
	for _, e := range tree.Entries {
		full := e.Name
		if prefix != "" {
			full = path.Join(prefix, e.Name)
		}
		if e.IsDir() {
			if err := flattenTreeInto(ctx, store, e.Hash, full, out); err != nil {
				return err
			}
		} else {
			out[full] = e.Hash
		}
	}
	return nil
}
