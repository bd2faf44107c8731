package assembler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zip"
	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/shipgrid/internal/ctxlog"
)

// reproducibleTime is stamped on every entry unless timestamps are preserved.
var reproducibleTime = time.Date(1980, time.February, 1, 0, 0, 0, 0, time.UTC)

// Assembler merges classpath sources into a runnable archive.
type Assembler struct {
	// IndexConcurrency bounds how many sources are enumerated at once.
	// Zero means runtime.NumCPU().
	IndexConcurrency int
}

// New creates an Assembler with default settings.
func New() *Assembler {
	return &Assembler{}
}

// Report summarizes one assembly.
type Report struct {
	Path       string
	Entries    int
	Duplicates int
	Size       int64
}

// Assemble writes the archive described by spec and returns its path.
//
// Sources are enumerated concurrently but merged strictly in declaration
// order, so the output depends only on the ordered sources and the policy.
func (a *Assembler) Assemble(ctx context.Context, spec ArtifactSpec) (string, error) {
	report, err := a.AssembleReport(ctx, spec)
	if err != nil {
		return "", err
	}
	return report.Path, nil
}

// AssembleReport is Assemble with statistics.
func (a *Assembler) AssembleReport(ctx context.Context, spec ArtifactSpec) (*Report, error) {
	logger := ctxlog.FromContext(ctx).With("artifact", filepath.Base(spec.Output))

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	policy, _ := ParsePolicy(string(spec.Policy))

	sources, err := expandSources(ctx, spec)
	if err != nil {
		return nil, err
	}

	indexes, err := a.indexAll(ctx, sources)
	defer func() {
		for _, idx := range indexes {
			_ = idx.Close()
		}
	}()
	if err != nil {
		return nil, err
	}

	plan, dupes, err := merge(ctx, spec, policy, indexes)
	if err != nil {
		return nil, err
	}
	logger.Debug("Merged classpath sources.", "sources", len(indexes), "entries", len(plan), "duplicates_dropped", dupes)

	size, err := writeArchive(spec, plan)
	if err != nil {
		return nil, err
	}

	logger.Info("Artifact assembled.", "path", spec.Output, "entries", len(plan)+2, "size", humanize.Bytes(uint64(size)))
	return &Report{Path: spec.Output, Entries: len(plan) + 2, Duplicates: dupes, Size: size}, nil
}

// expandSources checks that every literal source exists. A source containing
// glob metacharacters expands to its sorted matches; an empty match is an
// empty classpath segment, not an error.
func expandSources(ctx context.Context, spec ArtifactSpec) ([]string, error) {
	var out []string
	for _, src := range spec.Sources {
		if strings.ContainsAny(src, "*?[") {
			matches, err := filepath.Glob(src)
			if err != nil {
				return nil, fmt.Errorf("bad source pattern %q: %w", src, err)
			}
			if len(matches) == 0 {
				ctxlog.FromContext(ctx).Debug("Source pattern matched nothing.", "pattern", src)
				continue
			}
			sort.Strings(matches)
			out = append(out, matches...)
			continue
		}
		if _, err := os.Stat(src); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &MissingSourceError{Artifact: spec.Output, Source: src}
			}
			return nil, fmt.Errorf("checking source %s: %w", src, err)
		}
		out = append(out, src)
	}
	return out, nil
}

// indexAll enumerates every source. Results keep declaration order
// regardless of which goroutine finishes first.
func (a *Assembler) indexAll(ctx context.Context, sources []string) ([]*sourceIndex, error) {
	limit := a.IndexConcurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	indexes := make([]*sourceIndex, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			idx, err := indexSource(src)
			if err != nil {
				return err
			}
			indexes[i] = idx
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return indexes, err
	}
	return indexes, nil
}

// merge applies the exclude patterns and the duplicate policy. The manifest
// is owned by the assembler, so source manifests always lose.
func merge(ctx context.Context, spec ArtifactSpec, policy DuplicatePolicy, indexes []*sourceIndex) ([]entry, int, error) {
	logger := ctxlog.FromContext(ctx)

	owner := map[string]string{
		manifestDir:  "manifest",
		manifestPath: "manifest",
	}
	var plan []entry
	dupes := 0

	for _, idx := range indexes {
		for _, e := range idx.entries {
			excluded, err := isExcluded(spec.Exclude, e.name)
			if err != nil {
				return nil, 0, err
			}
			if excluded {
				continue
			}

			first, taken := owner[e.name]
			if !taken {
				owner[e.name] = e.source
				plan = append(plan, e)
				continue
			}
			if e.dir || first == "manifest" {
				continue
			}

			dupes++
			switch policy {
			case Fail:
				return nil, dupes, &DuplicateEntryError{Path: e.name, First: first, Second: e.source}
			case Warn:
				logger.Warn("Duplicate entry dropped.", "path", e.name, "kept_from", first, "dropped_from", e.source)
			}
		}
	}
	return plan, dupes, nil
}

func isExcluded(patterns []string, name string) (bool, error) {
	for _, p := range patterns {
		ok, err := pathMatch(p, name)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// writeArchive streams the plan into a temporary file next to the output and
// renames it into place.
func writeArchive(spec ArtifactSpec, plan []entry) (int64, error) {
	dir := filepath.Dir(spec.Output)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(spec.Output)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temporary archive: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	zw := zip.NewWriter(tmp)
	stamp := func(t time.Time) time.Time {
		if spec.PreserveTimestamps && !t.IsZero() {
			return t
		}
		return reproducibleTime
	}

	if _, err := zw.CreateHeader(&zip.FileHeader{Name: manifestDir, Method: zip.Store, Modified: reproducibleTime}); err != nil {
		return 0, err
	}
	mw, err := zw.CreateHeader(&zip.FileHeader{Name: manifestPath, Method: zip.Deflate, Modified: reproducibleTime})
	if err != nil {
		return 0, err
	}
	if _, err := mw.Write(renderManifest(spec.EntryPoint, spec.Manifest)); err != nil {
		return 0, err
	}

	for _, e := range plan {
		hdr := &zip.FileHeader{Name: e.name, Modified: stamp(e.modified)}
		hdr.SetMode(e.mode)
		if e.dir {
			hdr.Method = zip.Store
			if _, err := zw.CreateHeader(hdr); err != nil {
				return 0, err
			}
			continue
		}
		hdr.Method = zip.Deflate
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return 0, err
		}
		if err := copyEntry(w, e); err != nil {
			return 0, err
		}
	}

	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("finalizing archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmpName, spec.Output); err != nil {
		return 0, fmt.Errorf("moving archive into place: %w", err)
	}
	committed = true

	info, err := os.Stat(spec.Output)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func copyEntry(w io.Writer, e entry) error {
	r, err := e.open()
	if err != nil {
		return fmt.Errorf("reading %s from %s: %w", e.name, e.source, err)
	}
	defer r.Close()
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying %s from %s: %w", e.name, e.source, err)
	}
	return nil
}
