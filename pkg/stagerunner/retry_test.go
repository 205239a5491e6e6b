package stagerunner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithRetrySucceedsFirstTry(t *testing.T) {
	t.Parallel()
	var calls int
	result, err := RunWithRetry(context.Background(), 2, time.Millisecond, func() (CLIResult, error) {
		calls++
		return CLIResult{ExitCode: 0}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, 1, calls)
}

func TestRunWithRetryNeverRetriesTimeoutExit(t *testing.T) {
	t.Parallel()
	var calls int
	result, err := RunWithRetry(context.Background(), 3, time.Millisecond, func() (CLIResult, error) {
		calls++
		return CLIResult{ExitCode: 137}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 137, result.ExitCode)
}

func TestRunWithRetryRetriesRetryableExitUpToMax(t *testing.T) {
	t.Parallel()
	var calls int
	result, err := RunWithRetry(context.Background(), 2, time.Millisecond, func() (CLIResult, error) {
		calls++
		return CLIResult{ExitCode: 1}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls) // initial attempt + 2 retries
	assert.Equal(t, 1, result.ExitCode)
}

func TestRunWithRetryStopsOnFirstSuccess(t *testing.T) {
	t.Parallel()
	var calls int
	result, err := RunWithRetry(context.Background(), 3, time.Millisecond, func() (CLIResult, error) {
		calls++
		if calls < 2 {
			return CLIResult{ExitCode: 1}, nil
		}
		return CLIResult{ExitCode: 0}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, result.ExitCode)
}
