package tagging

import "strings"

// Rewrite replaces a leading libraryPrefix in shortID with namespace.
// Identifiers without the prefix are returned unchanged.
func Rewrite(shortID, libraryPrefix, namespace string) string {
	if !strings.HasPrefix(shortID, libraryPrefix) {
		return shortID
	}
	return namespace + shortID[len(libraryPrefix):]
}
