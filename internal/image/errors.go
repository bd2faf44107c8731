package image

import (
	"errors"
	"fmt"
)

// ErrPrecondition is matched by every *PreconditionError.
var ErrPrecondition = errors.New("image precondition failed")

// PreconditionError reports a build whose required artifact is missing. The
// engine is never invoked in that case.
type PreconditionError struct {
	Tag      string
	Artifact string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: image %s requires artifact %s, which does not exist", ErrPrecondition, e.Tag, e.Artifact)
}

func (e *PreconditionError) Unwrap() error { return ErrPrecondition }
