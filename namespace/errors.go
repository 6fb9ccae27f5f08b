package namespace

import "errors"

// Sentinel errors for package namespace.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// ErrNotFound covers every resolution failure: a missing intermediate
	// directory, a missing leaf, or a path lacking a required separator.
	ErrNotFound = errors.New("path not found")

	// ErrInvalidName is returned for empty names and names containing the separator
	ErrInvalidName = errors.New("invalid name")

	// ErrRootImmutable is returned when deleting or renaming the root directory
	ErrRootImmutable = errors.New("root directory cannot be deleted or renamed")

	// Tree invariant errors
	ErrAttached = errors.New("node already has a parent directory")
	ErrCycle    = errors.New("directory cannot be its own ancestor")
)
