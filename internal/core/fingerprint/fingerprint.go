// Package fingerprint derives stable grouping keys for log events.
//
// Two events with the same message, source, and stack collapse to the same
// key across processes and restarts, which is what retrieval and duplicate
// tracking group on.
package fingerprint

import (
	"crypto/sha1"
	"encoding/hex"
)

// Size is the number of hex characters in a fingerprint
const Size = 16

// Derive returns the first 16 hex characters of SHA-1 over
// "message|source|stack". SHA-1 is fine here: the key groups rows,
// it never authenticates anything
func Derive(message, source, stack string) string {
	sum := sha1.Sum([]byte(message + "|" + source + "|" + stack))
	return hex.EncodeToString(sum[:])[:Size]
}

// StackOf pulls the "stack" string out of a decoded event context.
// Absent or non-string values contribute the empty string, so the
// material keeps its trailing pipe
func StackOf(ctx map[string]any) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx["stack"]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
