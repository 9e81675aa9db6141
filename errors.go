package ar

import (
	"errors"
	"fmt"

	"github.com/meigma/ar/internal/arfile"
	"github.com/meigma/ar/internal/arwriter"
)

// ErrFormat is returned when an input archive container is malformed.
var ErrFormat = arfile.ErrFormat

// ErrMemberName is returned when an archive member's name is not valid
// UTF-8.
var ErrMemberName = errors.New("ar: invalid member name")

// UnknownKindError reports a target archive format tag with no known
// encoding. Build treats it as a configuration error and fails before
// touching the filesystem.
type UnknownKindError = arwriter.UnknownKindError

// BuildError reports a fatal failure while building an archive. Path is
// the output the build was for; Err is the underlying cause.
type BuildError struct {
	Path string
	Err  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("failed to build archive %s: %v", e.Path, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }
