package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// InputFingerprint fingerprints raw input rows together with the transform
// parameters that shape them. Identical raw input + identical parameters
// always hash to the same value, which keys the pure-transform memo cache.
func InputFingerprint(parts ...any) Hash {
	var data strings.Builder
	for _, p := range parts {
		fmt.Fprintf(&data, "%v|", p)
	}
	return NewHash([]byte(data.String()))
}
