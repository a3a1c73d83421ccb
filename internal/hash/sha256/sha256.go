// Package sha256 digests artifact payloads so saved snapshots can be compared
// across runs.
package sha256

import (
	"crypto/sha256"
	"encoding/hex"
)

// Prefix marks the algorithm in every digest.
const Prefix = "sha256:"

// Hasher produces algorithm-prefixed hex digests.
type Hasher struct{}

// New returns a SHA-256 hasher.
func New() *Hasher {
	return &Hasher{}
}

// Digest returns "sha256:<hex>" for data.
func (h *Hasher) Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return Prefix + hex.EncodeToString(sum[:])
}
