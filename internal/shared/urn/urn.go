// Package urn implements the resource naming scheme used across the API:
// urn:mvn:<kind>:<id>. Early records stored bare ids in owner columns, so
// comparison helpers accept both forms.
package urn

import "strings"

const prefix = "urn:mvn:"

// Resource kinds.
const (
	KindUser   = "user"
	KindSeries = "series"
	KindUnit   = "unit"
)

// New builds a URN from a kind and an id.
func New(kind, id string) string {
	return prefix + kind + ":" + id
}

// Is reports whether the value is a URN of the given kind.
func Is(kind, value string) bool {
	return strings.HasPrefix(value, prefix+kind+":")
}

// Kind extracts the kind from a URN, or "" for anything that is not a URN.
func Kind(value string) string {
	if !strings.HasPrefix(value, prefix) {
		return ""
	}
	rest := value[len(prefix):]
	if sep := strings.IndexByte(rest, ':'); sep > 0 {
		return rest[:sep]
	}
	return ""
}

// ID extracts the id part from a URN of the given kind. A bare id is
// returned unchanged (legacy form).
func ID(kind, value string) string {
	return strings.TrimPrefix(value, prefix+kind+":")
}

// Normalize returns the full URN form of a value that may be a bare legacy
// id. Values already carrying the prefix pass through unchanged.
func Normalize(kind, value string) string {
	if value == "" || strings.HasPrefix(value, prefix) {
		return value
	}
	return New(kind, value)
}

// Equal compares two identifiers of the same kind, tolerating the legacy
// bare-id form on either side.
func Equal(kind, a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return ID(kind, a) == ID(kind, b)
}
