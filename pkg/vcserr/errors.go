// Package vcserr defines the error kinds the engine and its collaborators
// raise. Kinds are distinguished by sentinel/typed errors rather than by
// string matching. Errors pkg/engine raises for the conditions named below
// wrap one of these so callers can classify them with errors.Is/errors.As;
// other failures (an object of an unexpected type under a hash, an unknown
// object type in a snapshot document, a commit signer's error) are returned
// without one of these kinds.
package vcserr

import "fmt"

// Sentinel kinds that carry no extra data.
var (
	// ErrNotFound: a referenced hash, branch, or path does not exist.
	ErrNotFound = fmt.Errorf("not found")
	// ErrInvalidArgument: a checkout target that is not a commit, or a
	// branch create/delete against a name that already exists / doesn't.
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	// ErrState: an operation is invalid given the engine's current state
	// (deleting the checked-out branch, requiring a branch with HEAD
	// detached, etc).
	ErrState = fmt.Errorf("invalid state")
	// ErrHistory: no common ancestor between two commits.
	ErrHistory = fmt.Errorf("unrelated histories")
	// ErrCorruption: a stored object's recomputed hash differs from its key.
	ErrCorruption = fmt.Errorf("object corruption")
)

// ConflictError reports that a three-way merge could not auto-resolve Path.
type ConflictError struct {
	Path string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("merge conflict: %s", e.Path)
}

// Is lets errors.Is(err, vcserr.ErrConflictKind) classify any ConflictError
// without needing the specific path.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflictKind
}

// ErrConflictKind is the kind marker for ConflictError; it is never returned
// directly, only matched against via ConflictError.Is.
var ErrConflictKind = fmt.Errorf("conflict")

// IOError wraps a failure from snapshot read/write, surfaced verbatim from
// the host.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
