// Package object defines the immutable, content-addressed object model:
// blobs, trees, and commits, plus the hashing and serialization rules that
// make their hashes reproducible across processes and machines.
package object

// Hash is a 40-character hex-encoded SHA-1 digest identifying an object by
// its content.
type Hash string

// ObjectType identifies the kind of object a hash resolves to.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

const (
	// ModeFile and ModeDir are the only two tree-entry modes this system
	// knows about; file-mode bits beyond this distinction are out of scope.
	ModeFile = "100644"
	ModeDir  = "040000"
)

// Blob holds the raw bytes of a single file's content.
type Blob struct {
	Content []byte
}

// TreeEntry is one entry of a Tree, naming either a Blob (file) or another
// Tree (subdirectory).
type TreeEntry struct {
	Name string
	Mode string // ModeFile or ModeDir
	Hash Hash
}

// IsDir reports whether the entry names a subtree rather than a blob.
func (e TreeEntry) IsDir() bool { return e.Mode == ModeDir }

// Tree holds a directory's entries, sorted ascending by Name. Duplicate
// names are forbidden.
type Tree struct {
	Entries []TreeEntry
}

// Commit is a history node: a tree snapshot, zero or more parents, and
// authorship/message metadata. Committer is always equal to Author in this
// system, so it is not stored separately.
type Commit struct {
	Tree      Hash
	Parents   []Hash
	Author    string
	Timestamp int64 // milliseconds since epoch
	Message   string
}

// Object is the tagged-union view of the three object kinds, used where
// code needs to dispatch on kind without knowing the concrete Go type
// (e.g. the store's Dump/Load boundary).
type Object struct {
	Type   ObjectType
	Blob   *Blob
	Tree   *Tree
	Commit *Commit
}
