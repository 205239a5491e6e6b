package mcp

import (
	"fmt"

	"github.com/codeready-toolchain/agentforge/pkg/config"
)

// Registry resolves configured MCP servers by ID, grounded on the
// teacher's config.MCPServerRegistry.
type Registry struct {
	servers map[string]config.MCPServerConfig
}

// NewRegistry builds a Registry from the Settings.MCPServers list.
func NewRegistry(servers []config.MCPServerConfig) *Registry {
	r := &Registry{servers: make(map[string]config.MCPServerConfig, len(servers))}
	for _, s := range servers {
		r.servers[s.ID] = s
	}
	return r
}

// Get returns the configuration for serverID.
func (r *Registry) Get(serverID string) (config.MCPServerConfig, error) {
	cfg, ok := r.servers[serverID]
	if !ok {
		return config.MCPServerConfig{}, fmt.Errorf("MCP server %q not found in registry", serverID)
	}
	return cfg, nil
}

// IDs returns every configured server ID.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.servers))
	for id := range r.servers {
		ids = append(ids, id)
	}
	return ids
}
