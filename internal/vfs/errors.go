package vfs

import "errors"

var (
	// ErrNotFound means a path segment or node ID did not resolve. Cut-paste
	// flows treat this as benign on the origin delete (the node may already
	// have been moved by a prior partial paste).
	ErrNotFound = errors.New("not found")

	// ErrConflict means a sibling with the same name and kind already exists.
	ErrConflict = errors.New("name conflict")

	// ErrNotDir means the target of an insert resolved to a file.
	ErrNotDir = errors.New("not a directory")
)
