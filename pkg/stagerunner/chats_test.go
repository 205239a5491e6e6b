package stagerunner

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunChatsSingleChatPassesThrough(t *testing.T) {
	t.Parallel()
	out, code, err := RunChats(context.Background(), 1, func(ctx context.Context) (CLIResult, error) {
		return CLIResult{Output: "hello", ExitCode: 0}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, 0, code)
}

func TestRunChatsMergesWithSeparators(t *testing.T) {
	t.Parallel()
	out, code, err := RunChats(context.Background(), 3, func(ctx context.Context) (CLIResult, error) {
		return CLIResult{Output: "ok", ExitCode: 0}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "--- chat 1/3 ---")
	assert.Contains(t, out, "--- chat 2/3 ---")
	assert.Contains(t, out, "--- chat 3/3 ---")
	assert.Equal(t, 2, strings.Count(out, "--- chat"))
}

func TestRunChatsAnyFailureMarksAgentFailed(t *testing.T) {
	t.Parallel()
	var calls int32
	_, _, err := RunChats(context.Background(), 2, func(ctx context.Context) (CLIResult, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return CLIResult{Output: "ok", ExitCode: 0}, nil
		}
		return CLIResult{}, errors.New("boom")
	})
	assert.Error(t, err)
}
