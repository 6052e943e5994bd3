package util

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// HashString returns a stable FNV-1a hash of s, rendered as fixed-width hex.
// The same input always yields the same output across runs and platforms.
func HashString(s string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))

	return fmt.Sprintf("%08x", h.Sum32())
}

// DefaultAvatarURL derives a deterministic placeholder avatar for a user
// without one, keyed on the lower-cased email.
func DefaultAvatarURL(email string) string {
	return "https://avatars.userhub.example.com/" + HashString(strings.ToLower(strings.TrimSpace(email))) + ".png"
}
