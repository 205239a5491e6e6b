package stagerunner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codeready-toolchain/agentforge/pkg/config"
	"github.com/codeready-toolchain/agentforge/pkg/mcp"
)

func TestPostProcessMCPNilExecutorIsNoop(t *testing.T) {
	t.Parallel()
	out := PostProcessMCP(context.Background(), nil, "agent-1", "TOOL_CALL: github.search_code {\"q\":\"x\"}", nil)
	assert.Equal(t, "TOOL_CALL: github.search_code {\"q\":\"x\"}", out)
}

func TestPostProcessMCPNoToolCallsPassesThrough(t *testing.T) {
	t.Parallel()
	registry := mcp.NewRegistry([]config.MCPServerConfig{
		{ID: "github", Transport: config.TransportStdio, Command: "mcp-github"},
	})
	executor := mcp.NewExecutor(mcp.NewClient(registry), []string{"github"}, nil)

	out := PostProcessMCP(context.Background(), executor, "agent-1", "plain output, nothing to do here", nil)
	assert.Equal(t, "plain output, nothing to do here", out)
}

func TestPostProcessMCPMalformedToolNameAppendsErrorBlock(t *testing.T) {
	t.Parallel()
	registry := mcp.NewRegistry([]config.MCPServerConfig{
		{ID: "github", Transport: config.TransportStdio, Command: "mcp-github"},
	})
	executor := mcp.NewExecutor(mcp.NewClient(registry), []string{"github"}, nil)

	out := PostProcessMCP(context.Background(), executor, "agent-1", "TOOL_CALL: badname {}", nil)
	assert.Contains(t, out, "[MCP_TOOL_RESULT] error=")
}

func TestPostProcessMCPDispatchFailureAppendsErrorBlock(t *testing.T) {
	t.Parallel()
	registry := mcp.NewRegistry([]config.MCPServerConfig{
		{ID: "github", Transport: config.TransportStdio, Command: "mcp-github"},
	})
	executor := mcp.NewExecutor(mcp.NewClient(registry), []string{"github"}, nil)

	var gotAgentID, gotResult string
	onResult := func(agentID, result string) {
		gotAgentID = agentID
		gotResult = result
	}

	out := PostProcessMCP(context.Background(), executor, "agent-1", "TOOL_CALL: github.search_code {\"q\":\"confidence\"}", onResult)
	assert.Contains(t, out, "[MCP_TOOL_RESULT] server=github tool=search_code error=")
	assert.Equal(t, "agent-1", gotAgentID)
	assert.Contains(t, gotResult, "server=github")
}

func TestPostProcessMCPHandlesMultipleCallsOnSeparateLines(t *testing.T) {
	t.Parallel()
	registry := mcp.NewRegistry([]config.MCPServerConfig{
		{ID: "github", Transport: config.TransportStdio, Command: "mcp-github"},
	})
	executor := mcp.NewExecutor(mcp.NewClient(registry), []string{"github"}, nil)

	raw := "some reasoning\nTOOL_CALL: github.search_code {\"q\":\"a\"}\nmore text\nTOOL_CALL: github.read_file {\"path\":\"x\"}\n"
	out := PostProcessMCP(context.Background(), executor, "agent-1", raw, nil)
	assert.Contains(t, out, "tool=search_code")
	assert.Contains(t, out, "tool=read_file")
}
