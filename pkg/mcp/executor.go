package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codeready-toolchain/agentforge/pkg/masking"
)

// ToolCall is a tool invocation detected in an agent's output
// (spec.md §4.2 "MCP tool-call post-processing").
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // raw JSON object
}

// ToolResult is the outcome of dispatching a ToolCall.
type ToolResult struct {
	CallID  string
	Name    string
	Content string
	IsError bool
}

// ToolDefinition describes one tool available across configured servers.
type ToolDefinition struct {
	Name             string
	Description      string
	ParametersSchema string
}

// Executor dispatches detected tool calls to configured MCP servers and
// wraps their results, optionally masking secrets in the returned
// content. Grounded on the teacher's pkg/mcp.ToolExecutor.
type Executor struct {
	client         *Client
	serverIDs      []string
	masking        *masking.Service
}

// NewExecutor creates an Executor scoped to serverIDs. masker may be nil
// to disable secret masking of tool results.
func NewExecutor(client *Client, serverIDs []string, masker *masking.Service) *Executor {
	return &Executor{client: client, serverIDs: serverIDs, masking: masker}
}

// Execute resolves call.Name to a server+tool, dispatches it, and
// returns a ToolResult. Dispatch failures are returned as an
// IsError ToolResult rather than a Go error, matching MCP convention
// that tool failures are part of the conversation, not a transport
// fault.
func (e *Executor) Execute(ctx context.Context, call ToolCall) (*ToolResult, error) {
	name := NormalizeToolName(call.Name)

	serverID, toolName, err := e.resolve(name)
	if err != nil {
		return &ToolResult{CallID: call.ID, Name: call.Name, Content: err.Error(), IsError: true}, nil
	}

	var params map[string]any
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &params); err != nil {
			return &ToolResult{
				CallID:  call.ID,
				Name:    call.Name,
				Content: fmt.Sprintf("failed to parse tool arguments: %s", err),
				IsError: true,
			}, nil
		}
	}

	result, err := e.client.CallTool(ctx, serverID, toolName, params)
	if err != nil {
		return &ToolResult{
			CallID:  call.ID,
			Name:    call.Name,
			Content: fmt.Sprintf("MCP tool execution failed: %s", err),
			IsError: true,
		}, nil
	}

	content := extractTextContent(result)
	if e.masking != nil {
		content, _ = e.masking.Scan(content)
	}

	return &ToolResult{CallID: call.ID, Name: call.Name, Content: content, IsError: result.IsError}, nil
}

// ListTools returns every available tool across the executor's servers,
// server-prefixed (e.g. "github.search_code").
func (e *Executor) ListTools(ctx context.Context) ([]ToolDefinition, error) {
	var all []ToolDefinition
	for _, serverID := range e.serverIDs {
		tools, err := e.client.ListTools(ctx, serverID)
		if err != nil {
			slog.Warn("failed to list tools from MCP server", "server", serverID, "error", err)
			continue
		}
		for _, tool := range tools {
			all = append(all, ToolDefinition{
				Name:             fmt.Sprintf("%s.%s", serverID, tool.Name),
				Description:      tool.Description,
				ParametersSchema: marshalSchema(tool.InputSchema),
			})
		}
	}
	return all, nil
}

func (e *Executor) resolve(name string) (serverID, toolName string, err error) {
	serverID, toolName, err = SplitToolName(name)
	if err != nil {
		return "", "", err
	}
	if !slices.Contains(e.serverIDs, serverID) {
		return "", "", fmt.Errorf("MCP server %q is not available for this run; available: %s",
			serverID, strings.Join(e.serverIDs, ", "))
	}
	return serverID, toolName, nil
}

func extractTextContent(result *mcpsdk.CallToolResult) string {
	var parts []string
	for _, c := range result.Content {
		if tc, ok := c.(*mcpsdk.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func marshalSchema(schema any) string {
	if schema == nil {
		return ""
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return ""
	}
	return string(data)
}
