package hcl

import (
	"io"
	"sort"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/shipgrid/internal/config"
)

// Write renders m as an HCL declaration that Loader reads back to an
// equivalent model. Variables are written in name order, tasks in
// declaration order. Empty attributes are omitted.
func Write(w io.Writer, m *config.Model) error {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	names := make([]string, 0, len(m.Variables))
	for name := range m.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		vb := root.AppendNewBlock("variable", []string{name}).Body()
		vb.SetAttributeValue("default", cty.StringVal(m.Variables[name]))
		root.AppendNewline()
	}

	for i, t := range m.Tasks {
		if i > 0 {
			root.AppendNewline()
		}
		writeTask(root.AppendNewBlock("task", []string{t.Name}).Body(), t)
	}

	_, err := w.Write(f.Bytes())
	return err
}

func writeTask(b *hclwrite.Body, t *config.Task) {
	setString(b, "group", t.Group)
	setString(b, "description", t.Description)
	setList(b, "depends_on", t.DependsOn)

	if a := t.Artifact; a != nil {
		b.AppendNewline()
		ab := b.AppendNewBlock("artifact", nil).Body()
		setString(ab, "output", a.Output)
		setString(ab, "entry_point", a.EntryPoint)
		ab.SetAttributeValue("sources", stringList(a.Sources))
		setString(ab, "duplicates", a.Duplicates)
		setList(ab, "exclude", a.Exclude)
		setMap(ab, "manifest", a.Manifest)
		if a.PreserveTimestamps {
			ab.SetAttributeValue("preserve_timestamps", cty.True)
		}
	}
	if i := t.Image; i != nil {
		b.AppendNewline()
		ib := b.AppendNewBlock("image", nil).Body()
		setString(ib, "tag", i.Tag)
		setString(ib, "recipe", i.Recipe)
		setString(ib, "context", i.Context)
		setString(ib, "artifact", i.Artifact)
		setMap(ib, "build_args", i.BuildArgs)
		setString(ib, "platform", i.Platform)
	}
	if s := t.Stack; s != nil {
		b.AppendNewline()
		sb := b.AppendNewBlock("stack", nil).Body()
		setString(sb, "file", s.File)
		setList(sb, "files", s.Files)
		setList(sb, "images", s.Images)
		setString(sb, "project", s.Project)
		if s.Detach {
			sb.SetAttributeValue("detach", cty.True)
		}
	}
	if e := t.Exec; e != nil {
		b.AppendNewline()
		eb := b.AppendNewBlock("exec", nil).Body()
		eb.SetAttributeValue("command", stringList(e.Command))
		setString(eb, "dir", e.Dir)
		setMap(eb, "env", e.Env)
	}
}

func setString(b *hclwrite.Body, name, v string) {
	if v != "" {
		b.SetAttributeValue(name, cty.StringVal(v))
	}
}

func setList(b *hclwrite.Body, name string, v []string) {
	if len(v) > 0 {
		b.SetAttributeValue(name, stringList(v))
	}
}

func setMap(b *hclwrite.Body, name string, v map[string]string) {
	if len(v) == 0 {
		return
	}
	vals := make(map[string]cty.Value, len(v))
	for k, s := range v {
		vals[k] = cty.StringVal(s)
	}
	b.SetAttributeValue(name, cty.MapVal(vals))
}

func stringList(v []string) cty.Value {
	if len(v) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(v))
	for i, s := range v {
		vals[i] = cty.StringVal(s)
	}
	return cty.ListVal(vals)
}
