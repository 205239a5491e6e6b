package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	initTimeout      = 10 * time.Second
	operationTimeout = 30 * time.Second
)

// Client manages MCP SDK sessions for the servers configured in a
// Registry. One Client is created per pipeline run; sessions are
// reused across every agent in that run. Thread-safe, since multiple
// stage agents dispatch tool calls concurrently (spec.md §4.2).
//
// Grounded on the teacher's pkg/mcp.Client: per-server session map,
// lazy connect, tool-list cache, partial-failure tolerance.
type Client struct {
	registry *Registry

	mu       sync.RWMutex
	sessions map[string]*mcpsdk.ClientSession
	failed   map[string]string

	toolCacheMu sync.RWMutex
	toolCache   map[string][]*mcpsdk.Tool
}

// NewClient creates a Client bound to registry. Call Initialize before
// dispatching tool calls.
func NewClient(registry *Registry) *Client {
	return &Client{
		registry:  registry,
		sessions:  make(map[string]*mcpsdk.ClientSession),
		failed:    make(map[string]string),
		toolCache: make(map[string][]*mcpsdk.Tool),
	}
}

// Initialize connects to every server in serverIDs. Failures are
// recorded in FailedServers rather than aborting — partial
// initialization lets a pipeline proceed with whatever servers are up.
func (c *Client) Initialize(ctx context.Context, serverIDs []string) {
	for _, id := range serverIDs {
		if err := c.initServer(ctx, id); err != nil {
			c.mu.Lock()
			c.failed[id] = err.Error()
			c.mu.Unlock()
			slog.Warn("MCP server failed to initialize", "server", id, "error", err)
		}
	}
}

func (c *Client) initServer(ctx context.Context, serverID string) error {
	c.mu.RLock()
	_, exists := c.sessions[serverID]
	c.mu.RUnlock()
	if exists {
		return nil
	}

	cfg, err := c.registry.Get(serverID)
	if err != nil {
		return err
	}

	transport, err := createTransport(cfg)
	if err != nil {
		return fmt.Errorf("build transport for %q: %w", serverID, err)
	}

	initCtx, cancel := context.WithTimeout(ctx, initTimeout)
	defer cancel()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "agentforge", Version: "dev"}, nil)
	session, err := client.Connect(initCtx, transport, nil)
	if err != nil {
		return fmt.Errorf("connect to %q: %w", serverID, err)
	}

	c.mu.Lock()
	c.sessions[serverID] = session
	delete(c.failed, serverID)
	c.mu.Unlock()

	slog.Info("MCP server connected", "server", serverID)
	return nil
}

// FailedServers returns a snapshot of server-id → error-message for
// servers that failed to initialize.
func (c *Client) FailedServers() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.failed))
	for k, v := range c.failed {
		out[k] = v
	}
	return out
}

// ListTools returns the tools exposed by serverID, using a per-server
// cache populated on first call.
func (c *Client) ListTools(ctx context.Context, serverID string) ([]*mcpsdk.Tool, error) {
	c.toolCacheMu.RLock()
	if cached, ok := c.toolCache[serverID]; ok {
		c.toolCacheMu.RUnlock()
		return cached, nil
	}
	c.toolCacheMu.RUnlock()

	c.mu.RLock()
	session, ok := c.sessions[serverID]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no session for server %q", serverID)
	}

	opCtx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	result, err := session.ListTools(opCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("list tools from %q: %w", serverID, err)
	}

	tools := result.Tools
	if tools == nil {
		tools = []*mcpsdk.Tool{}
	}
	c.toolCacheMu.Lock()
	c.toolCache[serverID] = tools
	c.toolCacheMu.Unlock()
	return tools, nil
}

// CallTool executes toolName on serverID with args.
func (c *Client) CallTool(ctx context.Context, serverID, toolName string, args map[string]any) (*mcpsdk.CallToolResult, error) {
	c.mu.RLock()
	session, ok := c.sessions[serverID]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no session for server %q", serverID)
	}

	opCtx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	return session.CallTool(opCtx, &mcpsdk.CallToolParams{Name: toolName, Arguments: args})
}

// Close shuts down every open session.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for id, session := range c.sessions {
		if err := session.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close session %q: %w", id, err)
		}
	}
	c.sessions = make(map[string]*mcpsdk.ClientSession)

	c.toolCacheMu.Lock()
	c.toolCache = make(map[string][]*mcpsdk.Tool)
	c.toolCacheMu.Unlock()

	return firstErr
}
