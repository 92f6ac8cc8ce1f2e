package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Hash returns the hex SHA-256 of data. Graph source files and canonical
// graph encodings are identified by it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// digest returns "kind:<hex>" over parts. Each part is length-prefixed so
// that node "a" at format "bc" never collides with node "ab" at format "c".
func digest(kind string, parts ...string) string {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(n[:], uint64(len(p)))
		h.Write(n[:])
		h.Write([]byte(p))
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}
