package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	info := Info{CommitHash: "0123456789abcdef", BuildTime: "2026-10-01T00:00:00Z", Version: "v0.3.0"}

	assert.Equal(t, "0123456", info.Short())
	assert.Equal(t, "v0.3.0", info.ServerVersion())
	assert.Equal(t, "qntx-ctags v0.3.0 (commit 0123456, built 2026-10-01T00:00:00Z)", info.String())
}

func TestInfo_Dev(t *testing.T) {
	info := Info{CommitHash: "dev", Version: "dev"}

	assert.Equal(t, "dev", info.Short())
	assert.Equal(t, "dev+dev", info.ServerVersion())
}

func TestGet(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}
