package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// entryKey builds "kind:corp:sum", where sum covers the board digest and
// the key options. Keeping the corporation readable lets operators find a
// corporation's entries in a shared backend.
func entryKey(kind, boardDigest, corp string, opts any) string {
	h := sha256.New()
	h.Write([]byte(boardDigest))
	h.Write([]byte{0})
	// Key options are plain structs of strings, ints and bools.
	data, _ := json.Marshal(opts)
	h.Write(data)
	return kind + ":" + corp + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
