package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_Missing(t *testing.T) {
	logger := FromContext(context.Background())
	require.NotNil(t, logger)
	// Must not panic.
	logger.Info("dropped")
}

func TestWith_ScopesAttributes(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := WithLogger(context.Background(), base)

	ctx, scoped := With(ctx, "task", "createWorkerJar")
	scoped.Info("hello")
	FromContext(ctx).Info("again")

	out := buf.String()
	assert.Equal(t, 2, bytes.Count([]byte(out), []byte("task=createWorkerJar")))
}
