package object

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SerializeBlob returns a Blob's normative serialization: its raw content,
// unmodified.
func SerializeBlob(b *Blob) []byte {
	out := make([]byte, len(b.Content))
	copy(out, b.Content)
	return out
}

// DeserializeBlob is the inverse of SerializeBlob.
func DeserializeBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Content: out}, nil
}

// SerializeTree returns a Tree's normative serialization: one line per
// entry, "<mode> <kind> <hex-hash> <name>", joined by a single newline with
// no trailing newline. Entries must already be sorted ascending by Name;
// SerializeTree re-sorts defensively but callers are expected to maintain
// the invariant themselves.
func SerializeTree(t *Tree) []byte {
	entries := make([]TreeEntry, len(t.Entries))
	copy(entries, t.Entries)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	lines := make([]string, len(entries))
	for i, e := range entries {
		kind := TypeBlob
		if e.IsDir() {
			kind = TypeTree
		}
		lines[i] = fmt.Sprintf("%s %s %s %s", e.Mode, kind, string(e.Hash), e.Name)
	}
	return []byte(strings.Join(lines, "\n"))
}

// DeserializeTree is the inverse of SerializeTree.
func DeserializeTree(data []byte) (*Tree, error) {
	t := &Tree{}
	text := string(data)
	if text == "" {
		return t, nil
	}
	for _, line := range strings.Split(text, "\n") {
		parts := strings.SplitN(line, " ", 4)
		if len(parts) != 4 {
			return nil, fmt.Errorf("deserialize tree: malformed entry %q", line)
		}
		mode := parts[0]
		if mode != ModeFile && mode != ModeDir {
			return nil, fmt.Errorf("deserialize tree: unknown mode %q", mode)
		}
		t.Entries = append(t.Entries, TreeEntry{
			Mode: mode,
			Hash: Hash(parts[2]),
			Name: parts[3],
		})
	}
	return t, nil
}

// SerializeCommit returns a Commit's normative serialization: "tree <hex>",
// one "parent <hex>" per parent in declared order, "author <author>
// <timestamp>", "committer <author> <timestamp>" (committer equals
// author), a blank line, then the message verbatim. Lines are joined by a
// single newline with no trailing newline.
func SerializeCommit(c *Commit) []byte {
	var lines []string
	lines = append(lines, fmt.Sprintf("tree %s", string(c.Tree)))
	for _, p := range c.Parents {
		lines = append(lines, fmt.Sprintf("parent %s", string(p)))
	}
	lines = append(lines, fmt.Sprintf("author %s %d", c.Author, c.Timestamp))
	lines = append(lines, fmt.Sprintf("committer %s %d", c.Author, c.Timestamp))
	lines = append(lines, "", c.Message)

	return []byte(strings.Join(lines, "\n"))
}

// DeserializeCommit is the inverse of SerializeCommit.
func DeserializeCommit(data []byte) (*Commit, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("deserialize commit: missing header/message separator")
	}
	header := string(data[:idx])
	message := string(data[idx+2:])

	c := &Commit{Message: message}
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("deserialize commit: malformed header line %q", line)
		}
		switch key {
		case "tree":
			c.Tree = Hash(val)
		case "parent":
			c.Parents = append(c.Parents, Hash(val))
		case "author":
			author, ts, err := splitAuthorTimestamp(val)
			if err != nil {
				return nil, fmt.Errorf("deserialize commit: %w", err)
			}
			c.Author = author
			c.Timestamp = ts
		case "committer":
			// Committer duplicates author in this system; already captured.
		default:
			return nil, fmt.Errorf("deserialize commit: unknown header key %q", key)
		}
	}
	return c, nil
}

func splitAuthorTimestamp(val string) (string, int64, error) {
	lastSpace := strings.LastIndex(val, " ")
	if lastSpace < 0 {
		return "", 0, fmt.Errorf("malformed author/committer field %q", val)
	}
	ts, err := strconv.ParseInt(val[lastSpace+1:], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("bad timestamp in %q: %w", val, err)
	}
	return val[:lastSpace], ts, nil
}
