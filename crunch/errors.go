package crunch

import (
	"errors"
	"fmt"
)

// ErrBuildSealed is returned when files are added to a build after Finish.
var ErrBuildSealed = errors.New("build is sealed")

// CollisionError reports two distinct chunk contents hashing to the same
// fingerprint. A collided store could silently serve wrong bytes, so the
// store refuses the insert and the whole build is considered poisoned.
type CollisionError struct {
	FP   Fingerprint
	Path string // file being chunked when the collision surfaced, if known
}

func (e *CollisionError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("fingerprint collision on %s while chunking %q", e.FP.Short(), e.Path)
	}
	return fmt.Sprintf("fingerprint collision on %s", e.FP.Short())
}

// DuplicatePathError reports a second registration of an already-registered
// path.
type DuplicatePathError struct {
	Path string
}

func (e *DuplicatePathError) Error() string {
	return fmt.Sprintf("path %q already registered", e.Path)
}

// UnknownChunkError reports a fingerprint with no stored bytes. A sealed
// store only produces it when an entry references a chunk that was never
// inserted, which indicates a bug in the build pass rather than bad input.
type UnknownChunkError struct {
	FP Fingerprint
}

func (e *UnknownChunkError) Error() string {
	return fmt.Sprintf("no chunk stored for fingerprint %s", e.FP.Short())
}

// PathNotFoundError reports a read against a path the store never registered.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path %q not found", e.Path)
}
