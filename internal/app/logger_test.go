package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("json at warn drops info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger("warn", "json", &buf)

		logger.Info("hidden")
		logger.Warn("shown", "task", "composeUp")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "shown", record["msg"])
		assert.Equal(t, "composeUp", record["task"])
		assert.Equal(t, "shipgrid", record["app"])
		assert.NotContains(t, record, "source")
	})

	t.Run("debug text records source", func(t *testing.T) {
		var buf bytes.Buffer
		newLogger("debug", "text", &buf).Debug("scheduling")

		assert.Contains(t, buf.String(), "level=DEBUG")
		assert.Contains(t, buf.String(), "source=")
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger("loud", "text", &buf)
		logger.Debug("hidden")
		logger.Info("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=shown")
	})
}
