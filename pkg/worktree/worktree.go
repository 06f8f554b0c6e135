// Package worktree implements the mutable, in-memory set of live files that
// the version engine reads from and writes to between commits.
package worktree

import (
	"bytes"
	"sort"
	"strings"
	"sync"

	"github.com/corevcs/corevcs/pkg/ignore"
	"github.com/corevcs/corevcs/pkg/lang"
)

// File is one live entry in the working tree: content plus a monotonic
// version counter and advisory, content-derived metadata. Neither the
// version counter nor the metadata ever contributes to an object hash.
type File struct {
	Path     string
	Content  []byte
	Version  int
	Metadata lang.Metadata
}

// Tree holds every live file, keyed by absolute path under Root.
type Tree struct {
	mu    sync.Mutex
	Root  string
	files map[string]*File
}

// New creates an empty working tree rooted at root.
func New(root string) *Tree {
	return &Tree{Root: root, files: make(map[string]*File)}
}

// Write creates or updates the file at path. The version counter only
// advances when content differs byte-for-byte from what is already there;
// an identical write is a no-op on the counter.
func (t *Tree) Write(path string, content []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.files[path]
	if ok && bytes.Equal(existing.Content, content) {
		return
	}

	version := 0
	if ok {
		version = existing.Version + 1
	}
	t.files[path] = &File{
		Path:     path,
		Content:  append([]byte(nil), content...),
		Version:  version,
		Metadata: lang.Detect(path, content),
	}
}

// Delete removes the file at path. Deleting an absent path is a silent
// no-op.
func (t *Tree) Delete(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.files, path)
}

// Read returns the file at path, or ok=false if no such file is live.
func (t *Tree) Read(path string) (File, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	f, ok := t.files[path]
	if !ok {
		return File{}, false
	}
	return *f, true
}

// ReadOptions configures Readdir's traversal.
type ReadOptions struct {
	Recursive bool
	Filter    *ignore.Filter // nil means no filtering
}

// Readdir lists the names under dir (an absolute path prefix). With
// Recursive false it returns the immediate child segment only, folded to
// unique names; with Recursive true it returns each descendant's full
// relative-to-dir path. Results are sorted ascending.
func (t *Tree) Readdir(dir string, opts ReadOptions) []string {
	t.mu.Lock()
	paths := make([]string, 0, len(t.files))
	for p := range t.files {
		paths = append(paths, p)
	}
	t.mu.Unlock()

	prefix := strings.TrimSuffix(dir, "/") + "/"
	seen := make(map[string]struct{})
	var out []string
	for _, p := range paths {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rel := p[len(prefix):]
		if rel == "" {
			continue
		}
		if opts.Filter != nil && opts.Filter.Ignores(rel) {
			continue
		}

		name := rel
		if !opts.Recursive {
			if i := strings.IndexByte(rel, '/'); i >= 0 {
				name = rel[:i]
			}
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// All returns every live file, sorted by path ascending.
func (t *Tree) All() []File {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]File, 0, len(t.files))
	for _, f := range t.files {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Clear removes every file, used before Checkout repopulates the tree.
func (t *Tree) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.files = make(map[string]*File)
}

// RelPath converts an absolute path under Root to a forward-slash relative
// path, as stored in trees and snapshots.
func (t *Tree) RelPath(absPath string) string {
	rel := strings.TrimPrefix(absPath, strings.TrimSuffix(t.Root, "/")+"/")
	return rel
}

// AbsPath converts a forward-slash relative path back to an absolute path
// under Root.
func (t *Tree) AbsPath(relPath string) string {
	return strings.TrimSuffix(t.Root, "/") + "/" + relPath
}
