package refs

import (
	"context"

	"github.com/corevcs/corevcs/pkg/object"
)

// Resolve turns an arbitrary hash-or-ref string into an object hash, trying
// in order: an exact hash present in store, a full ref name in the table, a
// short name under refs/heads/<name>, then giving up. Resolve does not care
// what kind of object the hash names; callers that require a commit (such as
// checkout) must check the resolved object's type themselves.
func Resolve(ctx context.Context, store object.Store, t *Table, hashOrRef string) (object.Hash, bool) {
	h := object.Hash(hashOrRef)
	if _, ok, err := store.Get(ctx, h); err == nil && ok {
		return h, true
	}
	if h, ok := t.Get(hashOrRef); ok {
		return h, true
	}
	if h, ok := t.Get(HeadsRef(hashOrRef)); ok {
		return h, true
	}
	return "", false
}
