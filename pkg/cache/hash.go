package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ReleasesKey returns the key under which the release list of a repository
// ("owner/name") is stored. Family lists use the family repository.
func ReleasesKey(repo string) string {
	return "releases:" + strings.ToLower(repo)
}
