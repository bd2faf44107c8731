package image

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/specialistvlad/shipgrid/internal/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifact(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "worker-node.jar")
	require.NoError(t, os.WriteFile(p, []byte("jar"), 0o644))
	return p
}

func TestImageSpec_Args(t *testing.T) {
	spec := ImageSpec{
		Tag:       "worker-node:latest",
		Recipe:    "docker/Dockerfile.worker",
		BuildArgs: map[string]string{"JAR": "worker-node.jar", "BASE": "eclipse-temurin:21"},
		Platform:  "linux/amd64",
	}

	want := []string{
		"build", "-t", "worker-node:latest", "-f", "docker/Dockerfile.worker",
		"--build-arg", "BASE=eclipse-temurin:21",
		"--build-arg", "JAR=worker-node.jar",
		"--platform", "linux/amd64",
		".",
	}
	assert.Equal(t, want, spec.Args())
}

func TestBuild_Success(t *testing.T) {
	// --- Arrange ---
	mock := &process.MockRunner{}
	b := NewBuilder(mock)
	spec := ImageSpec{
		Tag:      "worker-node:latest",
		Recipe:   "docker/Dockerfile.worker",
		Context:  ".",
		Artifact: writeArtifact(t),
	}

	// --- Act ---
	tag, err := b.Build(context.Background(), spec)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "worker-node:latest", tag)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "docker", calls[0].Name)
	assert.Equal(t, []string{"build", "-t", "worker-node:latest", "-f", "docker/Dockerfile.worker", "."}, calls[0].Args)
}

func TestBuild_MissingArtifact(t *testing.T) {
	mock := &process.MockRunner{RunFunc: func(ctx context.Context, cmd process.Command) (*process.Result, error) {
		return process.Unexpected(cmd)
	}}
	b := NewBuilder(mock)
	spec := ImageSpec{
		Tag:      "server-node:latest",
		Recipe:   "docker/Dockerfile.server",
		Artifact: filepath.Join(t.TempDir(), "server-node.jar"),
	}

	_, err := b.Build(context.Background(), spec)

	var pre *PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, spec.Artifact, pre.Artifact)
	assert.Empty(t, mock.Calls(), "engine must not be invoked")
}

func TestBuild_EngineFailure(t *testing.T) {
	mock := &process.MockRunner{RunFunc: func(ctx context.Context, cmd process.Command) (*process.Result, error) {
		return process.Exit(cmd, 1, "failed to read dockerfile")
	}}
	b := NewBuilder(mock, WithEngine("podman"))

	_, err := b.Build(context.Background(), ImageSpec{Tag: "t", Recipe: "Dockerfile", Artifact: writeArtifact(t)})

	var toolErr *process.ExternalToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "podman", toolErr.Tool)
	assert.Equal(t, 1, toolErr.ExitCode)
	assert.Len(t, mock.Calls(), 1, "failed builds are not retried")
}

func TestBuild_BoundsConcurrency(t *testing.T) {
	var active, peak atomic.Int32
	mock := &process.MockRunner{RunFunc: func(ctx context.Context, cmd process.Command) (*process.Result, error) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		active.Add(-1)
		return &process.Result{}, nil
	}}
	b := NewBuilder(mock, WithJobs(2))
	artifact := writeArtifact(t)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := b.Build(context.Background(), ImageSpec{Tag: "t", Recipe: "Dockerfile", Artifact: artifact})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Len(t, mock.Calls(), 6)
}

func TestImageSpec_Validate(t *testing.T) {
	assert.ErrorContains(t, ImageSpec{}.Validate(), "tag is required")
	assert.ErrorContains(t, ImageSpec{Tag: "t"}.Validate(), "recipe is required")
	assert.ErrorContains(t, ImageSpec{Tag: "t", Recipe: "Dockerfile"}.Validate(), "source artifact is required")
	assert.NoError(t, ImageSpec{Tag: "t", Recipe: "Dockerfile", Artifact: "build/libs/worker-node.jar"}.Validate())
}

func TestBuild_RequiresArtifact(t *testing.T) {
	mock := &process.MockRunner{}
	b := NewBuilder(mock)

	_, err := b.Build(context.Background(), ImageSpec{Tag: "worker-node:latest", Recipe: "docker/Dockerfile.worker"})

	assert.ErrorContains(t, err, "source artifact is required")
	assert.Empty(t, mock.Calls(), "engine must not be invoked")
}
