package object

import (
	"context"
	"errors"
	"testing"

	"github.com/corevcs/corevcs/pkg/vcserr"
)

func TestMemStorePutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	b := &Blob{Content: []byte("data")}
	h, err := PutBlob(ctx, s, b)
	if err != nil {
		t.Fatalf("PutBlob: %v", err)
	}
	if h != HashBlob(b) {
		t.Fatalf("hash mismatch: got %s want %s", h, HashBlob(b))
	}

	got, err := GetBlob(ctx, s, h)
	if err != nil {
		t.Fatalf("GetBlob: %v", err)
	}
	if string(got.Content) != "data" {
		t.Fatalf("got %q", got.Content)
	}
}

func TestMemStoreGetAbsentNeverFails(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	obj, ok, err := s.Get(ctx, Hash("nonexistent"))
	if err != nil {
		t.Fatalf("Get must never fail, got %v", err)
	}
	if ok {
		t.Fatalf("expected absent, got %+v", obj)
	}
}

func TestMemStorePutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	b := &Blob{Content: []byte("x")}
	h1, _ := PutBlob(ctx, s, b)
	h2, _ := PutBlob(ctx, s, b)
	if h1 != h2 {
		t.Fatalf("expected stable hash, got %s and %s", h1, h2)
	}
	dump, _ := s.Dump(ctx)
	if len(dump) != 1 {
		t.Fatalf("expected exactly one stored object, got %d", len(dump))
	}
}

func TestMemStoreDumpLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	h1, _ := PutBlob(ctx, s, &Blob{Content: []byte("a")})
	h2, _ := PutBlob(ctx, s, &Blob{Content: []byte("b")})

	entries, err := s.Dump(ctx)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}

	fresh := NewMemStore()
	if err := fresh.Load(ctx, entries); err != nil {
		t.Fatalf("Load: %v", err)
	}

	for _, h := range []Hash{h1, h2} {
		if _, ok, _ := fresh.Get(ctx, h); !ok {
			t.Fatalf("expected hash %s to survive load", h)
		}
	}
}

func TestMemStoreLoadRejectsHashCollision(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	collidingHash := Hash("deadbeef")
	entries := []Entry{
		{Hash: collidingHash, Object: Object{Type: TypeBlob, Blob: &Blob{Content: []byte("a")}}},
		{Hash: collidingHash, Object: Object{Type: TypeBlob, Blob: &Blob{Content: []byte("b")}}},
	}
	if err := s.Load(ctx, entries); err == nil {
		t.Fatal("expected error on non-injective hash mapping")
	}
}

func TestMemStoreLoadRejectsCorruptEntry(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	entries := []Entry{
		{Hash: Hash("not-the-real-hash"), Object: Object{Type: TypeBlob, Blob: &Blob{Content: []byte("a")}}},
	}
	err := s.Load(ctx, entries)
	if !errors.Is(err, vcserr.ErrCorruption) {
		t.Fatalf("expected ErrCorruption, got %v", err)
	}
}
