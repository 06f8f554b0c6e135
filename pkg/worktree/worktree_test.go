package worktree

import (
	"testing"

	"github.com/corevcs/corevcs/pkg/ignore"
)

func TestWriteCreatesAndVersions(t *testing.T) {
	wt := New("/repo")
	wt.Write("/repo/a.txt", []byte("1"))
	f, ok := wt.Read("/repo/a.txt")
	if !ok || f.Version != 0 {
		t.Fatalf("got %+v, ok=%v", f, ok)
	}

	wt.Write("/repo/a.txt", []byte("2"))
	f, _ = wt.Read("/repo/a.txt")
	if f.Version != 1 {
		t.Fatalf("expected version 1 after change, got %d", f.Version)
	}
}

func TestWriteSameBytesDoesNotBumpVersion(t *testing.T) {
	wt := New("/repo")
	wt.Write("/repo/a.txt", []byte("same"))
	wt.Write("/repo/a.txt", []byte("same"))
	f, _ := wt.Read("/repo/a.txt")
	if f.Version != 0 {
		t.Fatalf("expected version to stay 0, got %d", f.Version)
	}
}

func TestDeleteAbsentIsNoop(t *testing.T) {
	wt := New("/repo")
	wt.Delete("/repo/missing.txt") // must not panic
	if _, ok := wt.Read("/repo/missing.txt"); ok {
		t.Fatal("expected absent")
	}
}

func TestDeleteRemovesFile(t *testing.T) {
	wt := New("/repo")
	wt.Write("/repo/a.txt", []byte("x"))
	wt.Delete("/repo/a.txt")
	if _, ok := wt.Read("/repo/a.txt"); ok {
		t.Fatal("expected file to be gone")
	}
}

func TestReaddirNonRecursiveFoldsToImmediateSegment(t *testing.T) {
	wt := New("/repo")
	wt.Write("/repo/a.txt", []byte("1"))
	wt.Write("/repo/sub/b.txt", []byte("2"))
	wt.Write("/repo/sub/c.txt", []byte("3"))
	wt.Write("/repo/sub/deep/d.txt", []byte("4"))

	got := wt.Readdir("/repo", ReadOptions{Recursive: false})
	want := []string{"a.txt", "sub"}
	if !equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestReaddirRecursiveListsFullRelativePaths(t *testing.T) {
	wt := New("/repo")
	wt.Write("/repo/a.txt", []byte("1"))
	wt.Write("/repo/sub/b.txt", []byte("2"))

	got := wt.Readdir("/repo", ReadOptions{Recursive: true})
	want := []string{"a.txt", "sub/b.txt"}
	if !equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestReaddirAppliesIgnoreFilter(t *testing.T) {
	wt := New("/repo")
	wt.Write("/repo/a.txt", []byte("1"))
	wt.Write("/repo/a.log", []byte("2"))
	f := ignore.Parse("*.log", nil)

	got := wt.Readdir("/repo", ReadOptions{Recursive: true, Filter: f})
	want := []string{"a.txt"}
	if !equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestClearRemovesEverything(t *testing.T) {
	wt := New("/repo")
	wt.Write("/repo/a.txt", []byte("1"))
	wt.Clear()
	if len(wt.All()) != 0 {
		t.Fatalf("expected empty tree after Clear, got %v", wt.All())
	}
}

func TestRelAndAbsPathRoundTrip(t *testing.T) {
	wt := New("/repo")
	abs := "/repo/sub/file.go"
	rel := wt.RelPath(abs)
	if rel != "sub/file.go" {
		t.Fatalf("RelPath = %q", rel)
	}
	if wt.AbsPath(rel) != abs {
		t.Fatalf("AbsPath(%q) = %q, want %q", rel, wt.AbsPath(rel), abs)
	}
}

func TestAllSortedByPath(t *testing.T) {
	wt := New("/repo")
	wt.Write("/repo/b.txt", []byte("1"))
	wt.Write("/repo/a.txt", []byte("2"))
	all := wt.All()
	if len(all) != 2 || all[0].Path != "/repo/a.txt" || all[1].Path != "/repo/b.txt" {
		t.Fatalf("got %+v", all)
	}
}

func TestWriteDerivesAdvisoryMetadataWithoutAffectingHashableContent(t *testing.T) {
	wt := New("/repo")
	wt.Write("/repo/main.go", []byte("package main\n\nimport \"fmt\"\n\nfunc Run() {}\n"))
	f, _ := wt.Read("/repo/main.go")
	if f.Metadata.Language != "go" {
		t.Fatalf("expected go language detection, got %q", f.Metadata.Language)
	}
	if len(f.Metadata.Imports) != 1 || f.Metadata.Imports[0] != "fmt" {
		t.Fatalf("expected imports=[fmt], got %v", f.Metadata.Imports)
	}
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
