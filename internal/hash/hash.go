// Package hash provides file hashing for content comparison.
//
// Verify uses SHA-256 digests to compare the reconstructed baseline with the
// working tree without holding both copies of every file in memory at once.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/danieljhkim/pod/internal/fsops"
)

// Hasher computes content digests of files on an FS.
type Hasher interface {
	// HashFile computes the hash of the file at path.
	HashFile(fs fsops.FS, path string) (string, error)
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// HashFile computes the SHA-256 hash of the file at path.
func (h *SHA256Hasher) HashFile(fs fsops.FS, path string) (string, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return Sum(data), nil
}

// Sum returns the hex SHA-256 digest of data.
func Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
