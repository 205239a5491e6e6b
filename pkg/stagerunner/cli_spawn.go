package stagerunner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/creack/pty"

	"github.com/codeready-toolchain/agentforge/pkg/config"
	"github.com/codeready-toolchain/agentforge/pkg/orcherr"
)

// CLIResult is the outcome of one CLI agent spawn.
type CLIResult struct {
	Output   string
	ExitCode int
	TimedOut bool
}

// apiKeyEnvVars maps a provider's configured key to the environment
// variable name its CLI reads (spec.md §6).
var apiKeyEnvVars = map[string]string{
	"chatgpt":    "OPENAI_API_KEY",
	"gemini":     "GOOGLE_API_KEY",
	"gemini-api": "GOOGLE_API_KEY",
	"claude":     "ANTHROPIC_API_KEY",
	"github":     "GITHUB_TOKEN",
}

// SpawnCLI builds a command from tmpl with {PROMPT} substituted for a
// temp file holding prompt, runs it in a pseudo-terminal when one is
// available (falling back to plain pipes otherwise), and enforces
// maxRuntime as a hard deadline. The prompt file is always removed.
func SpawnCLI(ctx context.Context, tmpl config.CLITemplate, prompt, provider, apiKey, workDir string, maxRuntime time.Duration) (CLIResult, error) {
	promptFile, err := writePromptFile(prompt)
	if err != nil {
		return CLIResult{}, orcherr.Wrap(orcherr.KindResource, "write prompt file", err, true, false)
	}
	defer os.Remove(promptFile)

	command, args := tmpl.Render(promptFile)

	runCtx, cancel := context.WithTimeout(ctx, maxRuntime)
	defer cancel()

	cmd := exec.CommandContext(runCtx, command, args...)
	cmd.Dir = workDir
	cmd.Env = os.Environ()
	if envVar, ok := apiKeyEnvVars[provider]; ok && apiKey != "" {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", envVar, apiKey))
	}

	output, exitCode, runErr := runWithPTYFallback(cmd)

	if runCtx.Err() == context.DeadlineExceeded {
		return CLIResult{Output: output, ExitCode: exitCode, TimedOut: true}, nil
	}
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			return CLIResult{Output: output, ExitCode: exitErr.ExitCode()}, nil
		}
		return CLIResult{Output: output, ExitCode: -1}, orcherr.Wrap(orcherr.KindResource, "spawn agent process", runErr, true, false)
	}
	return CLIResult{Output: output, ExitCode: exitCode}, nil
}

// runWithPTYFallback runs cmd attached to a pseudo-terminal (for
// combined, properly-interleaved stdout/stderr) when one can be
// allocated, falling back to a plain combined-output pipe otherwise
// (spec.md §6: "runs in a pseudo-terminal when available").
func runWithPTYFallback(cmd *exec.Cmd) (output string, exitCode int, err error) {
	ptmx, startErr := pty.Start(cmd)
	if startErr != nil {
		var buf bytes.Buffer
		cmd.Stdout = &buf
		cmd.Stderr = &buf
		runErr := cmd.Run()
		return buf.String(), cmd.ProcessState.ExitCode(), runErr
	}
	defer ptmx.Close()

	data, _ := io.ReadAll(ptmx)
	waitErr := cmd.Wait()
	code := 0
	if cmd.ProcessState != nil {
		code = cmd.ProcessState.ExitCode()
	}
	return string(data), code, waitErr
}

func writePromptFile(prompt string) (string, error) {
	f, err := os.CreateTemp("", "agentforge-prompt-*.txt")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.WriteString(prompt); err != nil {
		return "", err
	}
	return f.Name(), nil
}
