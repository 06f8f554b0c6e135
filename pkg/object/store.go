package object

import (
	"context"
	"fmt"
	"sync"

	"github.com/corevcs/corevcs/pkg/vcserr"
)

// Entry pairs a hash with the object it names, used only at the Dump/Load
// snapshot boundary.
type Entry struct {
	Hash   Hash
	Object Object
}

// Store is a content-addressed repository of immutable objects. The
// interface is shaped to admit a future disk- or network-backed
// implementation: every method takes a context.Context and returns an
// error, even though the in-memory Store below never does real I/O and
// never fails Get or Put.
type Store interface {
	Get(ctx context.Context, h Hash) (Object, bool, error)
	Put(ctx context.Context, obj Object) (Hash, error)
	Dump(ctx context.Context) ([]Entry, error)
	Load(ctx context.Context, entries []Entry) error
}

// MemStore is the default, in-memory Store implementation.
type MemStore struct {
	mu      sync.Mutex
	objects map[Hash]Object
}

// NewMemStore creates an empty in-memory object store.
func NewMemStore() *MemStore {
	return &MemStore{objects: make(map[Hash]Object)}
}

// Get retrieves an object by hash. It never fails: a missing hash is
// reported via the ok return, not an error.
func (s *MemStore) Get(_ context.Context, h Hash) (Object, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[h]
	return obj, ok, nil
}

// Put stores obj under its content hash. Writing a hash that already
// exists is a no-op on content (the store is idempotent). It never fails.
func (s *MemStore) Put(_ context.Context, obj Object) (Hash, error) {
	h := hashOf(obj)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[h]; !exists {
		s.objects[h] = obj
	}
	return h, nil
}

// Dump exports every stored object as (hash, object) pairs in unspecified
// order, for snapshot serialization.
func (s *MemStore) Dump(_ context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, 0, len(s.objects))
	for h, obj := range s.objects {
		out = append(out, Entry{Hash: h, Object: obj})
	}
	return out, nil
}

// Load atomically replaces the store's entire contents with entries. It
// fails if any entry's object does not hash to the key it was stored under,
// or if two distinct objects claim the same hash; both indicate a corrupt or
// hand-edited snapshot.
func (s *MemStore) Load(_ context.Context, entries []Entry) error {
	next := make(map[Hash]Object, len(entries))
	for _, e := range entries {
		if got := hashOf(e.Object); got != e.Hash {
			return fmt.Errorf("object store load: entry %s recomputes to %s: %w", e.Hash, got, vcserr.ErrCorruption)
		}
		if existing, ok := next[e.Hash]; ok && !objectsEqual(existing, e.Object) {
			return fmt.Errorf("object store load: hash %s claimed by two distinct objects", e.Hash)
		}
		next[e.Hash] = e.Object
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = next
	return nil
}

func hashOf(obj Object) Hash {
	switch obj.Type {
	case TypeBlob:
		return HashBlob(obj.Blob)
	case TypeTree:
		return HashTree(obj.Tree)
	case TypeCommit:
		return HashCommit(obj.Commit)
	default:
		panic(fmt.Sprintf("object store: unknown object type %q", obj.Type))
	}
}

func objectsEqual(a, b Object) bool {
	return hashOf(a) == hashOf(b)
}

// ---------------------------------------------------------------------------
// Typed convenience wrappers, mirroring the shape of a disk-backed store's
// WriteBlob/ReadBlob-style API while dispatching through the tagged-union
// Object/Store boundary above.
// ---------------------------------------------------------------------------

func PutBlob(ctx context.Context, s Store, b *Blob) (Hash, error) {
	return s.Put(ctx, Object{Type: TypeBlob, Blob: b})
}

func GetBlob(ctx context.Context, s Store, h Hash) (*Blob, error) {
	obj, ok, err := s.Get(ctx, h)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("object %s: %w", h, vcserr.ErrNotFound)
	}
	if obj.Type != TypeBlob {
		return nil, fmt.Errorf("object %s: expected blob, got %s", h, obj.Type)
	}
	return obj.Blob, nil
}

func PutTree(ctx context.Context, s Store, t *Tree) (Hash, error) {
	return s.Put(ctx, Object{Type: TypeTree, Tree: t})
}

func GetTree(ctx context.Context, s Store, h Hash) (*Tree, error) {
	obj, ok, err := s.Get(ctx, h)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("object %s: %w", h, vcserr.ErrNotFound)
	}
	if obj.Type != TypeTree {
		return nil, fmt.Errorf("object %s: expected tree, got %s", h, obj.Type)
	}
	return obj.Tree, nil
}

func PutCommit(ctx context.Context, s Store, c *Commit) (Hash, error) {
	return s.Put(ctx, Object{Type: TypeCommit, Commit: c})
}

func GetCommit(ctx context.Context, s Store, h Hash) (*Commit, error) {
	obj, ok, err := s.Get(ctx, h)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("object %s: %w", h, vcserr.ErrNotFound)
	}
	if obj.Type != TypeCommit {
		return nil, fmt.Errorf("object %s: expected commit, got %s", h, obj.Type)
	}
	return obj.Commit, nil
}
