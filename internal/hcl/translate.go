package hcl

import "github.com/specialistvlad/shipgrid/internal/config"

// translateTask converts the decoded HCL task body into the agnostic model.
func translateTask(name string, b *taskBody) *config.Task {
	t := &config.Task{
		Name:        name,
		Group:       b.Group,
		Description: b.Description,
		DependsOn:   b.DependsOn,
	}
	if a := b.Artifact; a != nil {
		t.Artifact = &config.Artifact{
			Output:             a.Output,
			EntryPoint:         a.EntryPoint,
			Sources:            a.Sources,
			Duplicates:         a.Duplicates,
			Exclude:            a.Exclude,
			Manifest:           a.Manifest,
			PreserveTimestamps: a.PreserveTimestamps,
		}
	}
	if i := b.Image; i != nil {
		t.Image = &config.Image{
			Tag:       i.Tag,
			Recipe:    i.Recipe,
			Context:   i.Context,
			Artifact:  i.Artifact,
			BuildArgs: i.BuildArgs,
			Platform:  i.Platform,
		}
	}
	if s := b.Stack; s != nil {
		t.Stack = &config.Stack{
			File:    s.File,
			Files:   s.Files,
			Images:  s.Images,
			Project: s.Project,
			Detach:  s.Detach,
		}
	}
	if e := b.Exec; e != nil {
		t.Exec = &config.Exec{
			Command: e.Command,
			Dir:     e.Dir,
			Env:     e.Env,
		}
	}
	return t
}
