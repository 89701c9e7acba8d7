package api

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Hash returns a deterministic BLAKE3 digest of the node tree.
// Two trees hash equal when every node has the same type, span, content
// and children in the same order.
func (n *Node) Hash() string {
	h := blake3.New()
	writeNode(h, n)
	return hex.EncodeToString(h.Sum(nil))
}

func writeNode(h *blake3.Hasher, n *Node) {
	var buf [8]byte
	if n == nil {
		h.Write([]byte{0})
		return
	}
	h.Write([]byte{1})

	h.Write([]byte(n.Type))
	h.Write([]byte{0})

	binary.BigEndian.PutUint64(buf[:], uint64(n.From))
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], uint64(n.To))
	h.Write(buf[:])

	// Length-prefix content; it may contain NUL.
	binary.BigEndian.PutUint64(buf[:], uint64(len(n.Content)))
	h.Write(buf[:])
	h.Write([]byte(n.Content))

	binary.BigEndian.PutUint64(buf[:], uint64(len(n.Children)))
	h.Write(buf[:])
	for _, c := range n.Children {
		writeNode(h, c)
	}
}

// Digest returns the hex BLAKE3 digest of a Markdown source, optionally
// salted with extra parts (renderer options) so that different configurations
// never share a cache key.
func Digest(source string, parts ...string) string {
	h := blake3.New()
	h.Write([]byte(source))
	for _, p := range parts {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
