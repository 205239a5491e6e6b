package stagerunner

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/codeready-toolchain/agentforge/pkg/mcp"
)

// toolCallPattern matches one tool-call request per line:
// "TOOL_CALL: <server>.<tool> <json object>" (SPEC_FULL.md §7 decision 5).
var toolCallPattern = regexp.MustCompile(`(?m)^TOOL_CALL:\s*(\S+)\s*(\{.*\})\s*$`)

// PostProcessMCP scans output for tool-call requests, dispatches each to
// executor, and appends a result block per call (spec.md §4.2 step 2).
// Dispatch errors are appended as an error line rather than aborting the
// scan. onResult, if non-nil, fires once per dispatched call.
func PostProcessMCP(ctx context.Context, executor *mcp.Executor, agentID, output string, onResult func(agentID, result string)) string {
	if executor == nil {
		return output
	}

	matches := toolCallPattern.FindAllStringSubmatch(output, -1)
	if len(matches) == 0 {
		return output
	}

	var blocks []string
	for i, m := range matches {
		name, args := m[1], m[2]
		server, tool, splitErr := mcp.SplitToolName(mcp.NormalizeToolName(name))
		if splitErr != nil {
			block := fmt.Sprintf("[MCP_TOOL_RESULT] error=%q", splitErr.Error())
			blocks = append(blocks, block)
			if onResult != nil {
				onResult(agentID, block)
			}
			continue
		}

		result, err := executor.Execute(ctx, mcp.ToolCall{
			ID:        fmt.Sprintf("%s-%d", agentID, i),
			Name:      name,
			Arguments: args,
		})
		var block string
		if err != nil {
			block = fmt.Sprintf("[MCP_TOOL_RESULT] server=%s tool=%s error=%q", server, tool, err.Error())
		} else if result.IsError {
			block = fmt.Sprintf("[MCP_TOOL_RESULT] server=%s tool=%s error=%q", server, tool, result.Content)
		} else {
			block = fmt.Sprintf("[MCP_TOOL_RESULT] server=%s tool=%s content=%s", server, tool, result.Content)
		}
		blocks = append(blocks, block)
		if onResult != nil {
			onResult(agentID, block)
		}
	}

	return strings.Join(append([]string{output}, blocks...), "\n")
}
