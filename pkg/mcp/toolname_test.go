package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeToolNamePassesThroughDotForm(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "github.search_code", NormalizeToolName("github.search_code"))
}

func TestNormalizeToolNameConvertsDoubleUnderscore(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "github.search_code", NormalizeToolName("github__search_code"))
}

func TestSplitToolName(t *testing.T) {
	t.Parallel()
	server, tool, err := SplitToolName("github.search_code")
	require.NoError(t, err)
	assert.Equal(t, "github", server)
	assert.Equal(t, "search_code", tool)
}

func TestSplitToolNameRejectsMalformed(t *testing.T) {
	t.Parallel()
	_, _, err := SplitToolName("no-dot-here")
	assert.Error(t, err)

	_, _, err = SplitToolName(".tool")
	assert.Error(t, err)

	_, _, err = SplitToolName("server.")
	assert.Error(t, err)
}
