package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("error"), "install universal-ctags")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "install universal-ctags", hints[0])
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.False(t, IsProbeFailure(nil))
}

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("executable should be a string, got %T", 42)

	assert.True(t, Is(err, ErrConfiguration))
	assert.False(t, Is(err, ErrExecutableNotFound))
	assert.Equal(t, "executable should be a string, got int", err.Error())
	assert.True(t, IsProbeFailure(Wrap(err, "init")))
}

func TestIncompatibleError(t *testing.T) {
	err := NewIncompatibleError("first line %q is not a Universal Ctags banner", "Exuberant Ctags 5.8")

	assert.True(t, Is(err, ErrIncompatibleExecutable))
	assert.True(t, IsProbeFailure(err))
	assert.Contains(t, err.Error(), "Exuberant Ctags 5.8")
}

func TestIsProbeFailure_Unrelated(t *testing.T) {
	assert.False(t, IsProbeFailure(New("disk full")))
	assert.True(t, IsProbeFailure(Wrap(ErrExecutableNotFound, "ctags")))
}
