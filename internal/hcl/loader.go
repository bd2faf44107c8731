package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/specialistvlad/shipgrid/internal/config"
	"github.com/specialistvlad/shipgrid/internal/ctxlog"
	"github.com/specialistvlad/shipgrid/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	// Vars override variable defaults by name.
	Vars map[string]string
	// Environ replaces os.Environ() as the source of `env`.
	Environ []string
}

// NewLoader creates a new HCL declaration loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

type parsedFile struct {
	path string
	root fileRoot
}

// Load parses every file first, evaluates all variables, then decodes task
// bodies with `var` in scope. Tasks keep file order, then block order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	var parsed []parsedFile
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		parsed = append(parsed, parsedFile{path: file, root: root})
	}

	baseCtx := newEvalContext(l.Environ)
	vars, model, err := l.evalVariables(ctx, baseCtx, parsed)
	if err != nil {
		return nil, err
	}
	evalCtx := withVariables(baseCtx, vars)

	for _, pf := range parsed {
		for _, tb := range pf.root.Tasks {
			var body taskBody
			if diags := gohcl.DecodeBody(tb.Body, evalCtx, &body); diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode task %q in %s: %w", tb.Name, pf.path, diags)
			}
			t := translateTask(tb.Name, &body)
			if err := t.Validate(); err != nil {
				return nil, fmt.Errorf("%s: %w", pf.path, err)
			}
			model.Tasks = append(model.Tasks, t)
		}
	}

	logger.Debug("HCL loading complete.", "variables", len(model.Variables), "tasks", len(model.Tasks))
	return model, nil
}

// evalVariables resolves every declared variable from its override or its
// default and converts it to the declared type.
func (l *Loader) evalVariables(ctx context.Context, evalCtx *hcl.EvalContext, parsed []parsedFile) (map[string]cty.Value, *config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	vars := make(map[string]cty.Value)
	model := &config.Model{Variables: make(map[string]string)}

	for _, pf := range parsed {
		for _, vb := range pf.root.Variables {
			if _, dup := vars[vb.Name]; dup {
				return nil, nil, fmt.Errorf("%s: variable %q is declared more than once", pf.path, vb.Name)
			}
			ty, err := typeExprToCtyType(ctx, vb.Type)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: variable %q: %w", pf.path, vb.Name, err)
			}

			var val cty.Value
			if override, ok := l.Vars[vb.Name]; ok {
				logger.Debug("Applying variable override.", "variable", vb.Name)
				val = cty.StringVal(override)
			} else if isExprDefined(vb.Default) {
				v, diags := vb.Default.Value(evalCtx)
				if diags.HasErrors() {
					return nil, nil, fmt.Errorf("%s: invalid default for variable %q: %w", pf.path, vb.Name, diags)
				}
				val = v
			} else {
				return nil, nil, fmt.Errorf("%s: variable %q has no default and no value was given", pf.path, vb.Name)
			}

			typed, err := convert.Convert(val, ty)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: variable %q: %w", pf.path, vb.Name, err)
			}
			vars[vb.Name] = typed

			str, err := convert.Convert(typed, cty.String)
			if err != nil || str.IsNull() {
				return nil, nil, fmt.Errorf("%s: variable %q cannot be rendered as a string", pf.path, vb.Name)
			}
			model.Variables[vb.Name] = str.AsString()
		}
	}

	for name := range l.Vars {
		if _, ok := vars[name]; !ok {
			return nil, nil, fmt.Errorf("value given for undeclared variable %q", name)
		}
	}
	return vars, model, nil
}

// findAllHCLFiles expands directories into their .hcl files. Explicit files
// are taken as is. Missing paths are an error.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			add(filepath.Clean(path))
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}
	return allFiles, nil
}
