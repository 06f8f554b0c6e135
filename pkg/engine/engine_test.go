package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/corevcs/corevcs/pkg/object"
	"github.com/corevcs/corevcs/pkg/vcserr"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := New("/repo")
	tick := int64(1000)
	e.Clock = func() int64 { tick++; return tick }
	return e
}

func TestWriteSameBytesDoesNotBumpVersion(t *testing.T) {
	e := newTestEngine(t)
	e.Write("/repo/a.txt", []byte("x"))
	e.Write("/repo/a.txt", []byte("x"))
	f, ok := e.Read("/repo/a.txt")
	if !ok || f.Version != 0 {
		t.Fatalf("got %+v ok=%v", f, ok)
	}
}

func TestCommitWithUnchangedTreeSucceedsWithSameTreeHash(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	e.Write("/repo/a.txt", []byte("content"))

	c1, err := e.Commit(ctx, "first", "")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	c2, err := e.Commit(ctx, "second, nothing changed", "")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if c1 == c2 {
		t.Fatal("expected distinct commit hashes")
	}

	commit1, _ := getCommit(ctx, e, c1)
	commit2, _ := getCommit(ctx, e, c2)
	if commit1.Tree != commit2.Tree {
		t.Fatalf("expected identical tree hash, got %s and %s", commit1.Tree, commit2.Tree)
	}
}

func TestCommitAuthorOverrideAppliesToThatCommitOnly(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	e.Author = "default-author"

	e.Write("/repo/a.txt", []byte("1"))
	c1, err := e.Commit(ctx, "c1", "guest-author")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	e.Write("/repo/a.txt", []byte("2"))
	c2, err := e.Commit(ctx, "c2", "")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	commit1, _ := getCommit(ctx, e, c1)
	commit2, _ := getCommit(ctx, e, c2)
	if commit1.Author != "guest-author" {
		t.Fatalf("expected overridden author, got %q", commit1.Author)
	}
	if commit2.Author != "default-author" {
		t.Fatalf("expected fallback to e.Author, got %q", commit2.Author)
	}
}

func TestScenarioS1FastForward(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	e.Write("/repo/a.txt", []byte("A"))
	if _, err := e.Commit(ctx, "c1", ""); err != nil {
		t.Fatalf("commit c1: %v", err)
	}

	if err := e.CreateBranch("feat"); err != nil {
		t.Fatalf("create branch: %v", err)
	}
	if err := e.Checkout(ctx, "feat"); err != nil {
		t.Fatalf("checkout feat: %v", err)
	}
	e.Write("/repo/b.txt", []byte("B"))
	if _, err := e.Commit(ctx, "c2", ""); err != nil {
		t.Fatalf("commit c2: %v", err)
	}

	if err := e.Checkout(ctx, "main"); err != nil {
		t.Fatalf("checkout main: %v", err)
	}
	status, err := e.Merge(ctx, "feat")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if status != StatusFastForward {
		t.Fatalf("got %q, want %q", status, StatusFastForward)
	}

	f, ok := e.Read("/repo/b.txt")
	if !ok || string(f.Content) != "B" {
		t.Fatalf("got %+v ok=%v", f, ok)
	}

	log, err := e.Log(ctx)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if len(log) != 2 {
		t.Fatalf("expected 2 commits in log, got %d", len(log))
	}
}

func TestScenarioS2ThreeWayNoConflict(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	e.Write("/repo/base.txt", []byte("base"))
	if _, err := e.Commit(ctx, "init", ""); err != nil {
		t.Fatalf("init: %v", err)
	}

	if err := e.CreateBranch("feat"); err != nil {
		t.Fatalf("create branch: %v", err)
	}
	if err := e.Checkout(ctx, "feat"); err != nil {
		t.Fatalf("checkout feat: %v", err)
	}
	e.Write("/repo/feat.txt", []byte("feat"))
	if _, err := e.Commit(ctx, "fc", ""); err != nil {
		t.Fatalf("fc: %v", err)
	}

	if err := e.Checkout(ctx, "main"); err != nil {
		t.Fatalf("checkout main: %v", err)
	}
	e.Write("/repo/main.txt", []byte("main"))
	if _, err := e.Commit(ctx, "mc", ""); err != nil {
		t.Fatalf("mc: %v", err)
	}

	status, err := e.Merge(ctx, "feat")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if status != StatusMergeSuccessful {
		t.Fatalf("got %q, want %q", status, StatusMergeSuccessful)
	}

	for path, want := range map[string]string{
		"/repo/base.txt": "base",
		"/repo/feat.txt": "feat",
		"/repo/main.txt": "main",
	} {
		f, ok := e.Read(path)
		if !ok || string(f.Content) != want {
			t.Fatalf("path %q: got %+v ok=%v, want %q", path, f, ok, want)
		}
	}

	log, err := e.Log(ctx)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if len(log[0].Parents) != 2 {
		t.Fatalf("expected merge commit with 2 parents, got %d", len(log[0].Parents))
	}
}

func TestScenarioS3Conflict(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	e.Write("/repo/x", []byte("0"))
	if _, err := e.Commit(ctx, "c0", ""); err != nil {
		t.Fatalf("c0: %v", err)
	}

	if err := e.CreateBranch("b"); err != nil {
		t.Fatalf("create branch: %v", err)
	}
	if err := e.Checkout(ctx, "b"); err != nil {
		t.Fatalf("checkout b: %v", err)
	}
	e.Write("/repo/x", []byte("B"))
	if _, err := e.Commit(ctx, "cb", ""); err != nil {
		t.Fatalf("cb: %v", err)
	}

	if err := e.Checkout(ctx, "main"); err != nil {
		t.Fatalf("checkout main: %v", err)
	}
	e.Write("/repo/x", []byte("M"))
	if _, err := e.Commit(ctx, "cm", ""); err != nil {
		t.Fatalf("cm: %v", err)
	}

	_, err := e.Merge(ctx, "b")
	if err == nil {
		t.Fatal("expected conflict error")
	}
	var conflict *vcserr.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Path != "x" {
		t.Fatalf("expected conflict naming x, got %q", conflict.Path)
	}

	f, ok := e.Read("/repo/x")
	if !ok || string(f.Content) != "M" {
		t.Fatalf("expected working tree untouched on conflict, got %+v ok=%v", f, ok)
	}
}

func TestScenarioS4StatusTaxonomy(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	e.Write("/repo/a", []byte("1"))
	if _, err := e.Commit(ctx, "c1", ""); err != nil {
		t.Fatalf("c1: %v", err)
	}

	e.Write("/repo/a", []byte("1'"))
	e.Write("/repo/b", []byte("2"))
	e.Delete("/repo/missing") // no-op

	status, err := e.ComputeStatus(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !equal(status.Modified, []string{"a"}) {
		t.Fatalf("modified = %v", status.Modified)
	}
	if !equal(status.New, []string{"b"}) {
		t.Fatalf("new = %v", status.New)
	}
	if len(status.Deleted) != 0 {
		t.Fatalf("deleted = %v", status.Deleted)
	}
}

func TestScenarioS5DetachedHeadAndBranchDeleteGuard(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	e.Write("/repo/a", []byte("1"))
	c1, err := e.Commit(ctx, "c1", "")
	if err != nil {
		t.Fatalf("c1: %v", err)
	}
	e.Write("/repo/a", []byte("2"))
	if _, err := e.Commit(ctx, "c2", ""); err != nil {
		t.Fatalf("c2: %v", err)
	}

	if err := e.Checkout(ctx, string(c1)); err != nil {
		t.Fatalf("checkout c1: %v", err)
	}
	if !e.Refs.Head().Detached() {
		t.Fatal("expected detached HEAD")
	}

	// Detached: deleting main must not be blocked by the guard.
	if err := e.DeleteBranch("main"); err != nil {
		t.Fatalf("expected delete to succeed while detached, got %v", err)
	}
	if err := e.CreateBranch("main"); err != nil {
		t.Fatalf("recreate main: %v", err)
	}

	if err := e.Checkout(ctx, "main"); err != nil {
		t.Fatalf("checkout main: %v", err)
	}
	if err := e.DeleteBranch("main"); err == nil {
		t.Fatal("expected delete of checked-out branch to fail")
	}
}

func TestCheckoutNonCommitHashIsInvalidArgumentNotNotFound(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	e.Write("/repo/a", []byte("1"))
	if _, err := e.Commit(ctx, "c1", ""); err != nil {
		t.Fatalf("c1: %v", err)
	}
	blobHash := object.HashBlob(&object.Blob{Content: []byte("1")})

	err := e.Checkout(ctx, string(blobHash))
	if err == nil {
		t.Fatal("expected checkout of a non-commit hash to fail")
	}
	if !errors.Is(err, vcserr.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if errors.Is(err, vcserr.ErrNotFound) {
		t.Fatalf("a present blob hash must not be reported as not found: %v", err)
	}
}

func TestScenarioS6SnapshotFidelity(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	e.Write("/repo/k", []byte("v"))
	if _, err := e.Commit(ctx, "c", ""); err != nil {
		t.Fatalf("commit: %v", err)
	}
	e.Write("/repo/k", []byte("v2"))

	tmp := t.TempDir() + "/snapshot.bin"
	if err := e.SaveSnapshot(ctx, tmp); err != nil {
		t.Fatalf("save: %v", err)
	}

	fresh := New("/repo")
	if err := fresh.LoadSnapshot(ctx, tmp); err != nil {
		t.Fatalf("load: %v", err)
	}

	f, ok := fresh.Read("/repo/k")
	if !ok || string(f.Content) != "v2" {
		t.Fatalf("got %+v ok=%v", f, ok)
	}

	log, err := fresh.Log(ctx)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if len(log) != 1 || log[0].Message != "c" {
		t.Fatalf("got %+v", log)
	}
}

func TestMergeEqualHeadsAlreadyUpToDate(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	e.Write("/repo/a", []byte("1"))
	if _, err := e.Commit(ctx, "c1", ""); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := e.CreateBranch("other"); err != nil {
		t.Fatalf("create branch: %v", err)
	}

	status, err := e.Merge(ctx, "other")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if status != StatusAlreadyUpToDate {
		t.Fatalf("got %q, want %q", status, StatusAlreadyUpToDate)
	}
}

func TestDeleteBranchNonexistentFails(t *testing.T) {
	e := newTestEngine(t)
	if err := e.DeleteBranch("ghost"); err == nil {
		t.Fatal("expected failure deleting nonexistent branch")
	}
}

func TestIgnoreFilterAppliesToCommit(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	e.Write("/repo/.gitignore", []byte("*.log"))
	e.Write("/repo/keep.txt", []byte("keep"))
	e.Write("/repo/debug.log", []byte("noisy"))

	hash, err := e.Commit(ctx, "c1", "")
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	commit, err := getCommit(ctx, e, hash)
	if err != nil {
		t.Fatalf("get commit: %v", err)
	}
	files, err := flattenTree(ctx, e.Store, commit.Tree)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if _, ok := files["debug.log"]; ok {
		t.Fatal("expected debug.log to be excluded from the committed tree")
	}
	if _, ok := files["keep.txt"]; !ok {
		t.Fatal("expected keep.txt to be included")
	}
}

func getCommit(ctx context.Context, e *Engine, h object.Hash) (*object.Commit, error) {
	return object.GetCommit(ctx, e.Store, h)
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
