package task

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsToNoop(t *testing.T) {
	tk := New("createJars", "Build", "", []string{"a", "b"}, nil)
	assert.Equal(t, "noop", tk.Action.Kind())
	assert.Equal(t, Pending, tk.State())
	assert.Equal(t, []string{"a", "b"}, tk.Dependencies)
}

func TestStateMachine(t *testing.T) {
	t.Run("pending -> running -> done", func(t *testing.T) {
		tk := New("a", "", "", nil, Noop{})
		require.True(t, tk.Start())
		assert.Equal(t, Running, tk.State())
		assert.False(t, tk.Start(), "a running task cannot be started again")

		require.True(t, tk.Complete("out.jar"))
		assert.Equal(t, Done, tk.State())
		assert.Equal(t, "out.jar", tk.Output())
		assert.False(t, tk.Complete("again"))
		assert.False(t, tk.Fail(errors.New("late")))
		assert.False(t, tk.Skip("late"))
		assert.NoError(t, tk.Err())
	})

	t.Run("pending -> running -> failed", func(t *testing.T) {
		tk := New("a", "", "", nil, Noop{})
		require.True(t, tk.Start())
		boom := errors.New("boom")
		require.True(t, tk.Fail(boom))
		assert.Equal(t, Failed, tk.State())
		assert.ErrorIs(t, tk.Err(), boom)
		assert.False(t, tk.Complete(nil))
	})

	t.Run("pending -> failed via skip", func(t *testing.T) {
		tk := New("a", "", "", nil, Noop{})
		require.True(t, tk.Skip("upstream 'b' failed"))
		assert.Equal(t, Failed, tk.State())
		assert.ErrorIs(t, tk.Err(), ErrSkipped)
		assert.ErrorContains(t, tk.Err(), "upstream 'b' failed")
		assert.False(t, tk.Start(), "a skipped task never starts")
		assert.Zero(t, tk.Duration())
	})

	t.Run("reset", func(t *testing.T) {
		tk := New("a", "", "", nil, Noop{})
		require.True(t, tk.Start())
		require.True(t, tk.Complete(1))
		tk.Reset()
		assert.Equal(t, Pending, tk.State())
		assert.Nil(t, tk.Output())
	})
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "done", Done.String())
	assert.True(t, Failed.Terminal())
	assert.False(t, Running.Terminal())
}
