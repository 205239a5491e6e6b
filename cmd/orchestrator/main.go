// agentforge-orchestrator runs a single pipeline request against the
// configured providers and prints the resulting SwarmResult as JSON.
// There is no HTTP server: the API surface the teacher's cmd/tarsy
// exposes (session/chain/event endpoints) is out of scope here, so the
// entrypoint is a one-shot CLI instead.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/codeready-toolchain/agentforge/pkg/cache"
	"github.com/codeready-toolchain/agentforge/pkg/config"
	"github.com/codeready-toolchain/agentforge/pkg/evidence"
	"github.com/codeready-toolchain/agentforge/pkg/masking"
	"github.com/codeready-toolchain/agentforge/pkg/mcp"
	"github.com/codeready-toolchain/agentforge/pkg/models"
	"github.com/codeready-toolchain/agentforge/pkg/orchestrator"
	"github.com/codeready-toolchain/agentforge/pkg/ticket"
	"github.com/codeready-toolchain/agentforge/pkg/worktree"
)

func parseMode(s string) models.JobMode {
	switch s {
	case "chat":
		return models.ModeChat
	case "swarm":
		return models.ModeSwarm
	case "project":
		return models.ModeProject
	default:
		return ""
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir", getEnv("CONFIG_DIR", "./deploy/config"), "Path to configuration directory")
	prompt := flag.String("prompt", "", "Task prompt to run through the pipeline")
	projectPath := flag.String("project-path", ".", "Path to the target project checkout")
	mode := flag.String("mode", "", "chat | swarm | project (empty auto-detects)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *prompt == "" {
		slog.Error("missing required -prompt flag")
		os.Exit(1)
	}

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		slog.Warn("could not load .env file, continuing with existing environment", "path", envPath, "error", err)
	} else {
		slog.Info("loaded environment", "path", envPath)
	}

	settingsPath := filepath.Join(*configDir, "settings.yaml")
	settings, err := config.Load(settingsPath)
	if err != nil {
		slog.Warn("falling back to built-in defaults", "path", settingsPath, "error", err)
		settings = config.Defaults()
	}

	cacheStore := cache.New(512, 10*time.Minute)
	maskingSvc := masking.NewService()
	registry := mcp.NewRegistry(settings.MCPServers)
	var serverIDs []string
	for _, s := range settings.MCPServers {
		serverIDs = append(serverIDs, s.ID)
	}
	mcpExecutor := mcp.NewExecutor(mcp.NewClient(registry), serverIDs, maskingSvc)

	worktreeDir, err := os.MkdirTemp("", "agentforge-worktrees-")
	if err != nil {
		slog.Error("creating worktree base dir", "error", err)
		os.Exit(1)
	}
	defer os.RemoveAll(worktreeDir)
	worktreeMgr := worktree.NewManager(worktree.CLIGitRunner{}, worktreeDir, settings.WorktreeIsolation)

	tickets := ticket.NewManager(ticket.DefaultRules(), ticket.EscalationPolicy{EscalateOnSLABreach: true}, nil, nil)
	evidenceStore := evidence.NewStore()

	orch := orchestrator.New(cacheStore, maskingSvc, mcpExecutor, worktreeMgr, tickets, evidenceStore)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(settings.MaxRuntimeSeconds)*time.Second)
	defer cancel()

	result := orch.Run(ctx, orchestrator.PipelineRequest{
		Prompt:      *prompt,
		Settings:    settings,
		ProjectPath: *projectPath,
		Mode:        parseMode(*mode),
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		slog.Error("encoding result", "error", err)
		os.Exit(1)
	}

	if result.Confidence == 0 && result.Refusal == nil && len(result.Agents) == 0 {
		os.Exit(1)
	}
}
