package namespace

import (
	"fmt"
	"strings"
)

// Separator delimits path segments.
const Separator = "/"

// splitPath splits p on the separator and drops empty segments, so leading,
// trailing and repeated separators collapse. No "." or ".." handling.
func splitPath(p string) []string {
	parts := strings.Split(p, Separator)
	segs := parts[:0]
	for _, part := range parts {
		if part != "" {
			segs = append(segs, part)
		}
	}
	return segs
}

// splitLeaf splits p at its last separator into the parent directory path and
// the leaf name. ok is false when p has no separator.
func splitLeaf(p string) (parent, leaf string, ok bool) {
	i := strings.LastIndex(p, Separator)
	if i < 0 {
		return "", "", false
	}
	return p[:i], p[i+1:], true
}

// leafName returns the part of p after its last separator, or p itself.
func leafName(p string) string {
	return p[strings.LastIndex(p, Separator)+1:]
}

// joinPath appends name to parent without doubling the separator, so "",
// "/" and "//" as parent all yield "/docs".
func joinPath(parent, name string) string {
	return strings.TrimRight(parent, Separator) + Separator + name
}

// ValidateName reports whether name can be stored on a node.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if strings.Contains(name, Separator) {
		return fmt.Errorf("%w: %q contains %q", ErrInvalidName, name, Separator)
	}
	return nil
}
