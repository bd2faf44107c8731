package assembler

import (
	"fmt"
	"strings"
)

// DuplicatePolicy decides what happens when two sources contribute the
// same archive path.
type DuplicatePolicy string

const (
	// Exclude keeps the entry from the first source in declaration order and
	// silently drops later ones.
	Exclude DuplicatePolicy = "exclude"
	// Warn behaves like Exclude but logs every dropped entry.
	Warn DuplicatePolicy = "warn"
	// Fail aborts assembly with a DuplicateEntryError.
	Fail DuplicatePolicy = "fail"
)

// ParsePolicy converts a declaration string into a DuplicatePolicy. The empty
// string selects Exclude.
func ParsePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return Exclude, nil
	case Exclude, Warn, Fail:
		return p, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q: must be one of exclude, warn, fail", s)
	}
}

// ArtifactSpec describes one runnable archive.
type ArtifactSpec struct {
	// Output is the archive path. Its base name is the artifact file name.
	Output string
	// EntryPoint is written as the Main-Class manifest attribute.
	EntryPoint string
	// Sources are classpath entries in declaration order. A directory is
	// walked; anything else is expanded as a zip archive. A glob pattern
	// stands for its matches in lexical order and may match nothing.
	Sources []string
	// Policy resolves path collisions between sources.
	Policy DuplicatePolicy
	// Exclude holds path.Match patterns dropped from every source.
	Exclude []string
	// Manifest holds extra manifest attributes.
	Manifest map[string]string
	// PreserveTimestamps keeps source modification times instead of the
	// fixed reproducible timestamp.
	PreserveTimestamps bool
}

// Validate checks the fields that do not require touching the filesystem.
func (s ArtifactSpec) Validate() error {
	if strings.TrimSpace(s.Output) == "" {
		return fmt.Errorf("artifact output path is required")
	}
	if strings.TrimSpace(s.EntryPoint) == "" {
		return fmt.Errorf("artifact %s: entry point is required", s.Output)
	}
	if _, err := ParsePolicy(string(s.Policy)); err != nil {
		return fmt.Errorf("artifact %s: %w", s.Output, err)
	}
	for _, pattern := range s.Exclude {
		if _, err := pathMatch(pattern, ""); err != nil {
			return fmt.Errorf("artifact %s: bad exclude pattern %q: %w", s.Output, pattern, err)
		}
	}
	return nil
}
