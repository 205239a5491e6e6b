package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/agentforge/pkg/config"
)

func TestRegistryGetKnownServer(t *testing.T) {
	t.Parallel()
	r := NewRegistry([]config.MCPServerConfig{
		{ID: "github", Transport: config.TransportHTTP, URL: "https://example.test"},
	})

	cfg, err := r.Get("github")
	require.NoError(t, err)
	assert.Equal(t, config.TransportHTTP, cfg.Transport)
}

func TestRegistryGetUnknownServer(t *testing.T) {
	t.Parallel()
	r := NewRegistry(nil)
	_, err := r.Get("missing")
	assert.Error(t, err)
}

func TestRegistryIDs(t *testing.T) {
	t.Parallel()
	r := NewRegistry([]config.MCPServerConfig{{ID: "a"}, {ID: "b"}})
	assert.ElementsMatch(t, []string{"a", "b"}, r.IDs())
}
