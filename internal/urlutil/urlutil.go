// Package urlutil provides URL parsing utilities for GitHub API URLs.
package urlutil

import "strings"

// Repository extracts the owner and repository path segments from a GitHub
// API or HTML URL. Both URL families carry the owner as the 4th and the
// repository as the 5th "/"-separated segment.
func Repository(url string) (owner, name string, ok bool) {
	parts := strings.Split(url, "/")
	if len(parts) < 6 {
		return "", "", false
	}
	return parts[4], parts[5], true
}

// SameRepository reports whether two GitHub URLs point into the same
// repository. Malformed URLs never match.
func SameRepository(a, b string) bool {
	aOwner, aName, ok := Repository(a)
	if !ok {
		return false
	}
	bOwner, bName, ok := Repository(b)
	if !ok {
		return false
	}
	return aOwner == bOwner && aName == bName
}
