package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is used to decode all top-level blocks from any file. Unknown
// blocks are rejected. Task bodies are kept raw until variables are known.
type fileRoot struct {
	Variables []*variableBlock `hcl:"variable,block"`
	Tasks     []*taskBlock     `hcl:"task,block"`
}

type variableBlock struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type,optional"`
	Default     hcl.Expression `hcl:"default,optional"`
	Description string         `hcl:"description,optional"`
}

type taskBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

type taskBody struct {
	Group       string   `hcl:"group,optional"`
	Description string   `hcl:"description,optional"`
	DependsOn   []string `hcl:"depends_on,optional"`

	Artifact *artifactBlock `hcl:"artifact,block"`
	Image    *imageBlock    `hcl:"image,block"`
	Stack    *stackBlock    `hcl:"stack,block"`
	Exec     *execBlock     `hcl:"exec,block"`
}

type artifactBlock struct {
	Output             string            `hcl:"output"`
	EntryPoint         string            `hcl:"entry_point"`
	Sources            []string          `hcl:"sources"`
	Duplicates         string            `hcl:"duplicates,optional"`
	Exclude            []string          `hcl:"exclude,optional"`
	Manifest           map[string]string `hcl:"manifest,optional"`
	PreserveTimestamps bool              `hcl:"preserve_timestamps,optional"`
}

type imageBlock struct {
	Tag       string            `hcl:"tag"`
	Recipe    string            `hcl:"recipe"`
	Context   string            `hcl:"context,optional"`
	Artifact  string            `hcl:"artifact,optional"`
	BuildArgs map[string]string `hcl:"build_args,optional"`
	Platform  string            `hcl:"platform,optional"`
}

type stackBlock struct {
	File    string   `hcl:"file"`
	Files   []string `hcl:"files,optional"`
	Images  []string `hcl:"images,optional"`
	Project string   `hcl:"project,optional"`
	Detach  bool     `hcl:"detach,optional"`
}

type execBlock struct {
	Command []string          `hcl:"command"`
	Dir     string            `hcl:"dir,optional"`
	Env     map[string]string `hcl:"env,optional"`
}
