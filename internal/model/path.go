package model

import (
	"path"
	"strings"
)

// NormalizePath canonicalizes a raw path string from the log into a stable
// comparison key: surrounding whitespace is trimmed, backslashes become
// forward slashes, and redundant separators and "." elements are removed.
// Normalizing an already-normalized path returns it unchanged.
//
// Casing is preserved; callers that need case-insensitive comparison (the
// include graph) lower-case the result themselves.
func NormalizePath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		return ""
	}
	return path.Clean(strings.ReplaceAll(trimmed, `\`, "/"))
}
