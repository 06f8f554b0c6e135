package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// HashObject computes the SHA-1 of the envelope "type len\0content", where
// content is the object's normative serialization. This is the single
// hashing rule every object kind in the store goes through; changing it
// breaks hash stability across processes.
func HashObject(objType ObjectType, content []byte) Hash {
	header := fmt.Sprintf("%s %d\x00", objType, len(content))
	h := sha1.New()
	h.Write([]byte(header))
	h.Write(content)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// HashBlob, HashTree and HashCommit compute an object's hash from its
// serialized form without requiring a store round-trip.
func HashBlob(b *Blob) Hash     { return HashObject(TypeBlob, SerializeBlob(b)) }
func HashTree(t *Tree) Hash     { return HashObject(TypeTree, SerializeTree(t)) }
func HashCommit(c *Commit) Hash { return HashObject(TypeCommit, SerializeCommit(c)) }
