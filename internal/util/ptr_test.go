package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPtr(t *testing.T) {
	p := Ptr(true)
	require.NotNil(t, p)
	assert.True(t, *p)
}

func TestPtrOrNil(t *testing.T) {
	assert.Nil(t, PtrOrNil(""))
	assert.Nil(t, PtrOrNil(0))

	p := PtrOrNil("Foo [class]")
	require.NotNil(t, p)
	assert.Equal(t, "Foo [class]", *p)
}
