package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/corevcs/corevcs/pkg/object"
	"github.com/corevcs/corevcs/pkg/refs"
	"github.com/corevcs/corevcs/pkg/vcserr"
	"github.com/corevcs/corevcs/pkg/worktree"
)

// objectDTO is the JSON shape of a single stored object, discriminated by
// Type; only the fields relevant to that type are populated.
type objectDTO struct {
	Type string `json:"type"`

	// Blob
	Content string `json:"content,omitempty"`

	// Tree
	Entries []treeEntryDTO `json:"entries,omitempty"`

	// Commit
	Tree      string   `json:"tree,omitempty"`
	Parents   []string `json:"parents,omitempty"`
	Author    string   `json:"author,omitempty"`
	Timestamp int64    `json:"timestamp,omitempty"`
	Message   string   `json:"message,omitempty"`
}

type treeEntryDTO struct {
	Name string `json:"name"`
	Mode string `json:"mode"`
	Hash string `json:"hash"`
}

func toDTO(obj object.Object) objectDTO {
	switch obj.Type {
	case object.TypeBlob:
		return objectDTO{Type: string(object.TypeBlob), Content: string(obj.Blob.Content)}
	case object.TypeTree:
		entries := make([]treeEntryDTO, len(obj.Tree.Entries))
		for i, e := range obj.Tree.Entries {
			entries[i] = treeEntryDTO{Name: e.Name, Mode: e.Mode, Hash: string(e.Hash)}
		}
		return objectDTO{Type: string(object.TypeTree), Entries: entries}
	case object.TypeCommit:
		parents := make([]string, len(obj.Commit.Parents))
		for i, p := range obj.Commit.Parents {
			parents[i] = string(p)
		}
		return objectDTO{
			Type:      string(object.TypeCommit),
			Tree:      string(obj.Commit.Tree),
			Parents:   parents,
			Author:    obj.Commit.Author,
			Timestamp: obj.Commit.Timestamp,
			Message:   obj.Commit.Message,
		}
	default:
		return objectDTO{}
	}
}

func fromDTO(dto objectDTO) (object.Object, error) {
	switch object.ObjectType(dto.Type) {
	case object.TypeBlob:
		return object.Object{Type: object.TypeBlob, Blob: &object.Blob{Content: []byte(dto.Content)}}, nil
	case object.TypeTree:
		entries := make([]object.TreeEntry, len(dto.Entries))
		for i, e := range dto.Entries {
			entries[i] = object.TreeEntry{Name: e.Name, Mode: e.Mode, Hash: object.Hash(e.Hash)}
		}
		return object.Object{Type: object.TypeTree, Tree: &object.Tree{Entries: entries}}, nil
	case object.TypeCommit:
		parents := make([]object.Hash, len(dto.Parents))
		for i, p := range dto.Parents {
			parents[i] = object.Hash(p)
		}
		return object.Object{Type: object.TypeCommit, Commit: &object.Commit{
			Tree:      object.Hash(dto.Tree),
			Parents:   parents,
			Author:    dto.Author,
			Timestamp: dto.Timestamp,
			Message:   dto.Message,
		}}, nil
	default:
		return object.Object{}, fmt.Errorf("snapshot: unknown object type %q", dto.Type)
	}
}

// objectPair is a (hash, object) tuple serialized as a two-element JSON
// array, per the snapshot's normative shape.
type objectPair struct {
	Hash string
	DTO  objectDTO
}

func (p objectPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.Hash, p.DTO})
}

func (p *objectPair) UnmarshalJSON(data []byte) error {
	var arr [2]json.RawMessage
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	if err := json.Unmarshal(arr[0], &p.Hash); err != nil {
		return err
	}
	return json.Unmarshal(arr[1], &p.DTO)
}

// refPair is a (name, hash) tuple serialized as a two-element JSON array.
type refPair struct {
	Name string
	Hash string
}

func (p refPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{p.Name, p.Hash})
}

func (p *refPair) UnmarshalJSON(data []byte) error {
	var arr [2]string
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	p.Name, p.Hash = arr[0], arr[1]
	return nil
}

type workingFileDTO struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

type snapshotDoc struct {
	Objects      []objectPair     `json:"objects"`
	Refs         []refPair        `json:"refs"`
	Head         string           `json:"head"`
	WorkingFiles []workingFileDTO `json:"workingFiles"`
}

// SaveSnapshot writes a self-describing, zstd-compressed document capturing
// every stored object, every reference, HEAD, and every working-tree file
// to hostPath.
func (e *Engine) SaveSnapshot(ctx context.Context, hostPath string) error {
	entries, err := e.Store.Dump(ctx)
	if err != nil {
		return &vcserr.IOError{Op: "save snapshot: dump store", Err: err}
	}

	doc := snapshotDoc{}
	for _, entry := range entries {
		doc.Objects = append(doc.Objects, objectPair{Hash: string(entry.Hash), DTO: toDTO(entry.Object)})
	}
	for name, h := range e.Refs.All() {
		doc.Refs = append(doc.Refs, refPair{Name: name, Hash: string(h)})
	}
	head := e.Refs.Head()
	if head.Detached() {
		doc.Head = string(head.Hash)
	} else {
		doc.Head = head.Name
	}
	for _, f := range e.WT.All() {
		doc.WorkingFiles = append(doc.WorkingFiles, workingFileDTO{Path: f.Path, Content: string(f.Content)})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &vcserr.IOError{Op: "save snapshot: marshal", Err: err}
	}

	compressed, err := compress(data)
	if err != nil {
		return &vcserr.IOError{Op: "save snapshot: compress", Err: err}
	}

	if err := writeFileAtomic(hostPath, compressed); err != nil {
		return &vcserr.IOError{Op: "save snapshot: write", Err: err}
	}
	return nil
}

// LoadSnapshot reads and reconstructs the store, references, HEAD, and
// working tree from hostPath. The new state is built in local variables and
// only swapped into the engine once the entire document has parsed
// successfully; a failure anywhere leaves the engine's prior state intact.
func (e *Engine) LoadSnapshot(ctx context.Context, hostPath string) error {
	compressed, err := os.ReadFile(hostPath)
	if err != nil {
		return &vcserr.IOError{Op: "load snapshot: read", Err: err}
	}

	data, err := decompress(compressed)
	if err != nil {
		return &vcserr.IOError{Op: "load snapshot: decompress", Err: err}
	}

	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return &vcserr.IOError{Op: "load snapshot: unmarshal", Err: err}
	}

	newStore := object.NewMemStore()
	entries := make([]object.Entry, 0, len(doc.Objects))
	for _, pair := range doc.Objects {
		obj, err := fromDTO(pair.DTO)
		if err != nil {
			return fmt.Errorf("engine: load snapshot: %w", err)
		}
		entries = append(entries, object.Entry{Hash: object.Hash(pair.Hash), Object: obj})
	}
	if err := newStore.Load(ctx, entries); err != nil {
		return fmt.Errorf("engine: load snapshot: %w", err)
	}

	newRefs := refs.New()
	for _, pair := range doc.Refs {
		newRefs.Set(pair.Name, object.Hash(pair.Hash))
	}
	if refs.IsHeadsRef(doc.Head) {
		newRefs.SetHeadSymbolic(doc.Head)
	} else {
		newRefs.SetHeadDetached(object.Hash(doc.Head))
	}

	newWT := worktree.New(e.WT.Root)
	for _, f := range doc.WorkingFiles {
		newWT.Write(f.Path, []byte(f.Content))
	}

	e.Store = newStore
	e.Refs = newRefs
	e.WT = newWT
	return nil
}

// DatabaseDump is the shape returned by GetDatabaseDump: every object, every
// reference, and HEAD, without the working tree.
type DatabaseDump struct {
	Objects []object.Entry
	Refs    map[string]object.Hash
	Head    string
}

// GetDatabaseDump exports the object store, reference table, and HEAD for
// inspection.
func (e *Engine) GetDatabaseDump(ctx context.Context) (DatabaseDump, error) {
	entries, err := e.Store.Dump(ctx)
	if err != nil {
		return DatabaseDump{}, fmt.Errorf("engine: database dump: %w", err)
	}
	head := e.Refs.Head()
	headStr := head.Name
	if head.Detached() {
		headStr = string(head.Hash)
	}
	return DatabaseDump{Objects: entries, Refs: e.Refs.All(), Head: headStr}, nil
}

func compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".snapshot-tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
