package mcp

import (
	"fmt"
	"strings"
)

// NormalizeToolName converts a "server__tool" form (as some providers
// emit tool-call names, since "." is not always a legal identifier
// character) into the canonical "server.tool" form used internally.
func NormalizeToolName(name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	return strings.Replace(name, "__", ".", 1)
}

// SplitToolName splits a canonical "server.tool" name into its parts.
func SplitToolName(name string) (serverID, toolName string, err error) {
	idx := strings.Index(name, ".")
	if idx <= 0 || idx == len(name)-1 {
		return "", "", fmt.Errorf("malformed tool name %q, expected \"server.tool\"", name)
	}
	return name[:idx], name[idx+1:], nil
}
