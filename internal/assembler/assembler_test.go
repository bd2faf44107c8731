package assembler

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/shipgrid/internal/ctxlog"
	"github.com/specialistvlad/shipgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workerSpec(dir string, sources ...string) ArtifactSpec {
	return ArtifactSpec{
		Output:     filepath.Join(dir, "out", "worker-node.jar"),
		EntryPoint: "com.example.worker.WorkerNodeKt",
		Sources:    sources,
	}
}

func TestAssemble_FirstSourceWins(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	s1 := testutil.WriteTree(t, filepath.Join(dir, "classes"), map[string]string{
		"p":                   "v1",
		"com/example/A.class": "A",
	})
	s2 := testutil.WriteZip(t, filepath.Join(dir, "lib", "dep.jar"), map[string]string{
		"p":                   "v2",
		"com/example/B.class": "B",
	})

	// --- Act ---
	out, err := New().Assemble(context.Background(), workerSpec(dir, s1, s2))

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "worker-node.jar"), out)

	names, contents := testutil.ReadZip(t, out)
	assert.Equal(t, "v1", contents["p"])
	assert.Equal(t, "A", contents["com/example/A.class"])
	assert.Equal(t, "B", contents["com/example/B.class"])
	assert.Equal(t, []string{"META-INF/", "META-INF/MANIFEST.MF"}, names[:2])

	count := 0
	for _, n := range names {
		if n == "p" {
			count++
		}
	}
	assert.Equal(t, 1, count, "duplicate path must appear once")
}

func TestAssemble_ManifestOwnedByAssembler(t *testing.T) {
	dir := t.TempDir()
	src := testutil.WriteZip(t, filepath.Join(dir, "dep.jar"), map[string]string{
		"META-INF/MANIFEST.MF": "Manifest-Version: 1.0\r\nMain-Class: other.Main\r\n\r\n",
		"x.txt":                "x",
	})
	spec := workerSpec(dir, src)
	spec.Manifest = map[string]string{"Implementation-Version": "1.0-SNAPSHOT"}

	out, err := New().Assemble(context.Background(), spec)
	require.NoError(t, err)

	_, contents := testutil.ReadZip(t, out)
	mf := contents["META-INF/MANIFEST.MF"]
	assert.Contains(t, mf, "Main-Class: com.example.worker.WorkerNodeKt\r\n")
	assert.Contains(t, mf, "Implementation-Version: 1.0-SNAPSHOT\r\n")
	assert.NotContains(t, mf, "other.Main")
}

func TestAssemble_MissingSource(t *testing.T) {
	dir := t.TempDir()
	spec := workerSpec(dir, filepath.Join(dir, "does-not-exist"))

	_, err := New().Assemble(context.Background(), spec)

	var missing *MissingSourceError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, filepath.Join(dir, "does-not-exist"), missing.Source)
	assert.ErrorIs(t, err, ErrMissingSource)
	assert.NoFileExists(t, spec.Output)
}

func TestAssemble_GlobSources(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteZip(t, filepath.Join(dir, "runtime", "b.jar"), map[string]string{"shared": "from-b"})
	testutil.WriteZip(t, filepath.Join(dir, "runtime", "a.jar"), map[string]string{"shared": "from-a"})

	out, err := New().Assemble(context.Background(), workerSpec(dir, filepath.Join(dir, "runtime", "*.jar")))
	require.NoError(t, err)

	_, contents := testutil.ReadZip(t, out)
	assert.Equal(t, "from-a", contents["shared"], "matches are taken in lexical order")

}

func TestAssemble_EmptyGlobIsEmptyClasspath(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	classes := testutil.WriteTree(t, filepath.Join(dir, "classes"), map[string]string{"Main.class": "main"})
	var logs testutil.SafeBuffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))

	// --- Act ---
	out, err := New().Assemble(ctx, workerSpec(dir, classes, filepath.Join(dir, "runtime", "*.jar")))

	// --- Assert ---
	require.NoError(t, err)
	_, contents := testutil.ReadZip(t, out)
	assert.Equal(t, "main", contents["Main.class"])
	assert.Contains(t, logs.String(), "Source pattern matched nothing.")

	_, err = New().Assemble(context.Background(), workerSpec(dir, filepath.Join(dir, "lib", "missing.jar")))
	assert.ErrorIs(t, err, ErrMissingSource, "literal sources must still exist")
}

func TestAssemble_Policies(t *testing.T) {
	dir := t.TempDir()
	s1 := testutil.WriteTree(t, filepath.Join(dir, "a"), map[string]string{"shared.txt": "a"})
	s2 := testutil.WriteTree(t, filepath.Join(dir, "b"), map[string]string{"shared.txt": "b"})

	t.Run("fail", func(t *testing.T) {
		spec := workerSpec(dir, s1, s2)
		spec.Policy = Fail

		_, err := New().Assemble(context.Background(), spec)

		var dup *DuplicateEntryError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "shared.txt", dup.Path)
		assert.Equal(t, s1, dup.First)
		assert.Equal(t, s2, dup.Second)
		assert.NoFileExists(t, spec.Output)
	})

	t.Run("warn", func(t *testing.T) {
		var logs testutil.SafeBuffer
		logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
		ctx := ctxlog.WithLogger(context.Background(), logger)

		spec := workerSpec(dir, s1, s2)
		spec.Policy = Warn

		report, err := New().AssembleReport(ctx, spec)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Duplicates)
		assert.Contains(t, logs.String(), "Duplicate entry dropped.")
		assert.Contains(t, logs.String(), "path=shared.txt")

		_, contents := testutil.ReadZip(t, report.Path)
		assert.Equal(t, "a", contents["shared.txt"])
	})

	t.Run("exclude is silent", func(t *testing.T) {
		var logs testutil.SafeBuffer
		ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&logs, nil)))

		report, err := New().AssembleReport(ctx, workerSpec(dir, s1, s2))
		require.NoError(t, err)
		assert.Equal(t, 1, report.Duplicates)
		assert.NotContains(t, logs.String(), "Duplicate entry dropped.")
	})

	t.Run("unknown policy", func(t *testing.T) {
		spec := workerSpec(dir, s1)
		spec.Policy = "merge"
		_, err := New().Assemble(context.Background(), spec)
		assert.ErrorContains(t, err, "unknown duplicate policy")
	})
}

func TestAssemble_ExcludePatterns(t *testing.T) {
	dir := t.TempDir()
	src := testutil.WriteZip(t, filepath.Join(dir, "dep.jar"), map[string]string{
		"META-INF/DEP.SF":  "sig",
		"META-INF/DEP.RSA": "sig",
		"lib/Keep.class":   "keep",
	})
	spec := workerSpec(dir, src)
	spec.Exclude = []string{"META-INF/*.SF", "META-INF/*.RSA"}

	out, err := New().Assemble(context.Background(), spec)
	require.NoError(t, err)

	_, contents := testutil.ReadZip(t, out)
	assert.NotContains(t, contents, "META-INF/DEP.SF")
	assert.NotContains(t, contents, "META-INF/DEP.RSA")
	assert.Equal(t, "keep", contents["lib/Keep.class"])
}

func TestAssemble_Deterministic(t *testing.T) {
	dir := t.TempDir()
	s1 := testutil.WriteTree(t, filepath.Join(dir, "classes"), map[string]string{
		"com/example/Main.class": "main",
		"application.conf":       "port = 8080",
	})
	s2 := testutil.WriteZip(t, filepath.Join(dir, "dep.jar"), map[string]string{
		"org/lib/Util.class": "util",
		"application.conf":   "ignored",
	})

	first := workerSpec(dir, s1, s2)
	first.Output = filepath.Join(dir, "one", "worker-node.jar")
	second := workerSpec(dir, s1, s2)
	second.Output = filepath.Join(dir, "two", "worker-node.jar")

	_, err := New().Assemble(context.Background(), first)
	require.NoError(t, err)
	_, err = (&Assembler{IndexConcurrency: 1}).Assemble(context.Background(), second)
	require.NoError(t, err)

	a, err := os.ReadFile(first.Output)
	require.NoError(t, err)
	b, err := os.ReadFile(second.Output)
	require.NoError(t, err)
	assert.Equal(t, a, b, "identical inputs must produce byte-identical archives")
}

func TestAssemble_OverwritesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	src := testutil.WriteTree(t, filepath.Join(dir, "classes"), map[string]string{"v.txt": "new"})
	spec := workerSpec(dir, src)
	require.NoError(t, os.MkdirAll(filepath.Dir(spec.Output), 0o755))
	require.NoError(t, os.WriteFile(spec.Output, []byte("stale"), 0o644))

	_, err := New().Assemble(context.Background(), spec)
	require.NoError(t, err)

	_, contents := testutil.ReadZip(t, spec.Output)
	assert.Equal(t, "new", contents["v.txt"])

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(spec.Output), ".*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestArtifactSpec_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		spec    ArtifactSpec
		wantErr string
	}{
		{name: "valid", spec: ArtifactSpec{Output: "a.jar", EntryPoint: "Main"}},
		{name: "no output", spec: ArtifactSpec{EntryPoint: "Main"}, wantErr: "output path is required"},
		{name: "no entry point", spec: ArtifactSpec{Output: "a.jar"}, wantErr: "entry point is required"},
		{name: "bad pattern", spec: ArtifactSpec{Output: "a.jar", EntryPoint: "Main", Exclude: []string{"["}}, wantErr: "bad exclude pattern"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.spec.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
