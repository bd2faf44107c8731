package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/shipgrid/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestRun_InvalidBuildFile(t *testing.T) {
	// --- Arrange ---
	// A declaration with a syntax error fails while the app is constructed.
	invalidHCL := `
		task "createJars" {
			depends_on = ["createWorkerJar"
		// Missing closing bracket and brace here
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	err := os.WriteFile(filePath, []byte(invalidHCL), 0600)
	require.NoError(t, err, "failed to set up test file")
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	args := []string{"run", "-f", filePath, "createJars"}
	out, logs := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	runErr := run(context.Background(), out, logs, args)

	// --- Assert ---
	var exitErr *cli.ExitError
	require.ErrorAs(t, runErr, &exitErr)
	require.Equal(t, 1, exitErr.Code)
	require.Contains(t, exitErr.Message, "failed to load build declaration")
}

func TestRun_Help(t *testing.T) {
	// --- Arrange ---
	// The "-h" (help) flag prints usage and succeeds.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error for help")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
	require.Contains(t, out.String(), "tasks")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Providing an unknown flag is a usage error.
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, args)

	// --- Assert ---
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}
