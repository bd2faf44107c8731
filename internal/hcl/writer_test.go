package hcl

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/specialistvlad/shipgrid/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_LoadsBackToSameModel(t *testing.T) {
	// --- Arrange ---
	model := &config.Model{
		Variables: map[string]string{"version": "1.0-SNAPSHOT"},
		Tasks: []*config.Task{
			{
				Name:  "createServerJar",
				Group: "build",
				Artifact: &config.Artifact{
					Output:     "build/libs/server-node.jar",
					EntryPoint: "com.example.server.ServerNodeKt",
					Sources:    []string{"build/classes"},
					Duplicates: "exclude",
					Manifest:   map[string]string{"Implementation-Version": "1.0-SNAPSHOT"},
				},
			},
			{
				Name:      "buildServerDocker",
				DependsOn: []string{"createServerJar"},
				Image:     &config.Image{Tag: "server-node:latest", Recipe: "docker/Dockerfile.server", Context: "."},
			},
			{Name: "buildDockers", Group: "docker", DependsOn: []string{"buildServerDocker"}},
			{Name: "composeUp", Stack: &config.Stack{File: "docker-compose.yml", Detach: true}},
			{Name: "test", Exec: &config.Exec{Command: []string{"gradle", "test"}}},
		},
	}

	// --- Act ---
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, model))
	path := writeHCL(t, t.TempDir(), "shipgrid.hcl", buf.String())
	got, err := NewLoader().Load(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	if diff := cmp.Diff(model, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("model mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, buf.String(), `task "composeUp" {`)
	assert.Equal(t, "shipgrid.hcl", filepath.Base(path))
}
