// Package refs implements the reference table and HEAD cell: the mapping
// from symbolic branch names to commit hashes, plus the pointer that names
// the engine's current position in the commit graph.
package refs

import (
	"sort"
	"strings"
	"sync"

	"github.com/corevcs/corevcs/pkg/object"
)

// NoCommits is the explicit sentinel value a branch ref holds before any
// commit has been made against it. It is never a valid 40-hex object hash.
const NoCommits object.Hash = ""

const headsPrefix = "refs/heads/"

// MainBranch is the name the table initializes at construction time.
const MainBranch = "main"

// Head identifies the engine's current position: either symbolic (Name
// non-empty, naming a ref in the table) or detached (Name empty, Hash
// holding a raw commit hash).
type Head struct {
	Name string
	Hash object.Hash
}

// Detached reports whether this Head points directly at a hash rather than
// through a symbolic ref.
func (h Head) Detached() bool { return h.Name == "" }

// Table holds every named reference plus the HEAD cell.
type Table struct {
	mu   sync.Mutex
	refs map[string]object.Hash
	head Head
}

// New constructs a table with refs/heads/main present and set to NoCommits,
// and HEAD symbolic, pointing at refs/heads/main.
func New() *Table {
	return &Table{
		refs: map[string]object.Hash{
			headsPrefix + MainBranch: NoCommits,
		},
		head: Head{Name: headsPrefix + MainBranch},
	}
}

// Head returns the current HEAD cell.
func (t *Table) Head() Head {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.head
}

// SetHeadSymbolic points HEAD at the given full ref name.
func (t *Table) SetHeadSymbolic(refName string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.head = Head{Name: refName}
}

// SetHeadDetached points HEAD directly at a commit hash.
func (t *Table) SetHeadDetached(h object.Hash) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.head = Head{Hash: h}
}

// HeadCommit resolves HEAD to a commit hash. ok is false when HEAD is
// symbolic and its ref is still NoCommits.
func (t *Table) HeadCommit() (h object.Hash, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.head.Detached() {
		return t.head.Hash, t.head.Hash != NoCommits
	}
	h, present := t.refs[t.head.Name]
	return h, present && h != NoCommits
}

// Get returns the hash a full ref name points at.
func (t *Table) Get(refName string) (object.Hash, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h, ok := t.refs[refName]
	return h, ok && h != NoCommits
}

// Set points a full ref name at h, creating the ref if it does not exist.
func (t *Table) Set(refName string, h object.Hash) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refs[refName] = h
}

// Exists reports whether refName is present in the table, regardless of
// whether it currently holds NoCommits.
func (t *Table) Exists(refName string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.refs[refName]
	return ok
}

// Delete removes a full ref name from the table.
func (t *Table) Delete(refName string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.refs, refName)
}

// All returns a snapshot copy of every reference in the table, including
// any still holding NoCommits, keyed by full ref name.
func (t *Table) All() map[string]object.Hash {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]object.Hash, len(t.refs))
	for name, h := range t.refs {
		out[name] = h
	}
	return out
}

// Branches returns every branch name under refs/heads/, sorted.
func (t *Table) Branches() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []string
	for name := range t.refs {
		if strings.HasPrefix(name, headsPrefix) {
			out = append(out, strings.TrimPrefix(name, headsPrefix))
		}
	}
	sort.Strings(out)
	return out
}

// HeadsRef returns the full ref name for a short branch name.
func HeadsRef(name string) string { return headsPrefix + name }

// IsHeadsRef reports whether name is already a full refs/heads/... name.
func IsHeadsRef(name string) bool { return strings.HasPrefix(name, headsPrefix) }
