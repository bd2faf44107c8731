package assembler

import (
	"errors"
	"fmt"
)

var (
	ErrMissingSource  = errors.New("missing source")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// MissingSourceError is returned when a declared classpath source does not
// exist on disk.
type MissingSourceError struct {
	Artifact string
	Source   string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("%s for %s: %s", ErrMissingSource, e.Artifact, e.Source)
}

func (e *MissingSourceError) Unwrap() error { return ErrMissingSource }

// DuplicateEntryError is returned under the fail policy.
type DuplicateEntryError struct {
	Path   string
	First  string
	Second string
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("%s %q: provided by %s and %s", ErrDuplicateEntry, e.Path, e.First, e.Second)
}

func (e *DuplicateEntryError) Unwrap() error { return ErrDuplicateEntry }
