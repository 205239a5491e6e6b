package stagerunner

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/agentforge/pkg/config"
)

func TestSpawnCLISuccessCapturesOutput(t *testing.T) {
	t.Parallel()
	tmpl := config.CLITemplate{Command: "sh", Args: []string{"-c", "cat {PROMPT}"}}

	result, err := SpawnCLI(context.Background(), tmpl, "hello from the prompt file", "claude", "", t.TempDir(), 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Output, "hello from the prompt file")
	assert.False(t, result.TimedOut)
}

func TestSpawnCLINonZeroExitIsNotAGoError(t *testing.T) {
	t.Parallel()
	tmpl := config.CLITemplate{Command: "sh", Args: []string{"-c", "exit 7"}}

	result, err := SpawnCLI(context.Background(), tmpl, "prompt", "claude", "", t.TempDir(), 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 7, result.ExitCode)
}

func TestSpawnCLIRemovesPromptFileAfterRun(t *testing.T) {
	t.Parallel()
	echoPath := t.TempDir() + "/prompt-path.txt"
	tmpl := config.CLITemplate{Command: "sh", Args: []string{"-c", "echo -n {PROMPT} > " + echoPath}}

	result, err := SpawnCLI(context.Background(), tmpl, "some prompt content", "claude", "", t.TempDir(), 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)

	capturedPath, readErr := os.ReadFile(echoPath)
	require.NoError(t, readErr)

	_, statErr := os.Stat(string(capturedPath))
	assert.True(t, os.IsNotExist(statErr), "prompt file should be removed once SpawnCLI returns")
}

func TestSpawnCLITimesOutOnSlowCommand(t *testing.T) {
	t.Parallel()
	tmpl := config.CLITemplate{Command: "sh", Args: []string{"-c", "sleep 5"}}

	result, err := SpawnCLI(context.Background(), tmpl, "prompt", "claude", "", t.TempDir(), 50*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, result.TimedOut)
}

func TestSpawnCLISetsProviderAPIKeyEnvVar(t *testing.T) {
	t.Parallel()
	tmpl := config.CLITemplate{Command: "sh", Args: []string{"-c", "echo \"$ANTHROPIC_API_KEY\""}}

	result, err := SpawnCLI(context.Background(), tmpl, "prompt", "claude", "sk-test-key", t.TempDir(), 5*time.Second)
	require.NoError(t, err)
	assert.Contains(t, result.Output, "sk-test-key")
}
