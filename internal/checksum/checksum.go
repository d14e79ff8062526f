// Package checksum fingerprints exported content so unchanged packs can be skipped.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Sum returns the hex-encoded SHA-256 digest of parts. Each part is
// length-prefixed, so ("ab", "c") and ("a", "bc") differ.
func Sum(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%d:", len(p))
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// JSON returns the digest of v's JSON encoding followed by extra parts.
func JSON(v any, extra ...string) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("checksum: encode: %w", err)
	}
	parts := [][]byte{data}
	for _, e := range extra {
		parts = append(parts, []byte(e))
	}
	return Sum(parts...), nil
}
