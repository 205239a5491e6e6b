package stagerunner

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// chatRunner executes one independent chat for an agent; it is either
// SpawnCLI or an API-mode caller, abstracted so RunChats doesn't care
// which.
type chatRunner func(ctx context.Context) (CLIResult, error)

// RunChats runs n independent chats concurrently and merges their
// outputs with "--- chat k/K ---" separators (spec.md §4.2). Any chat
// failure (non-infrastructure, i.e. a non-zero final exit code or a
// Go error) marks the whole agent failed: the worst exit code wins and
// the first encountered error is returned.
func RunChats(ctx context.Context, n int, run chatRunner) (output string, exitCode int, err error) {
	if n <= 1 {
		result, runErr := run(ctx)
		return result.Output, result.ExitCode, runErr
	}

	results := make([]CLIResult, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = run(ctx)
		}(i)
	}
	wg.Wait()

	var parts []string
	worstExit := 0
	var firstErr error
	for i, r := range results {
		parts = append(parts, fmt.Sprintf("--- chat %d/%d ---\n%s", i+1, n, r.Output))
		if r.ExitCode != 0 && worstExit == 0 {
			worstExit = r.ExitCode
		}
		if errs[i] != nil && firstErr == nil {
			firstErr = errs[i]
		}
	}
	return strings.Join(parts, "\n"), worstExit, firstErr
}
