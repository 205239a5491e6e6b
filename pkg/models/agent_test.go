package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgentStatusAdvances(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from, to AgentStatus
		want     bool
	}{
		{AgentStatusPending, AgentStatusSpawning, true},
		{AgentStatusSpawning, AgentStatusRunning, true},
		{AgentStatusRunning, AgentStatusCompleted, true},
		{AgentStatusRunning, AgentStatusPending, false},
		{AgentStatusCompleted, AgentStatusRunning, false},
		{AgentStatusCompleted, AgentStatusCompleted, true},
		{AgentStatusCancelled, AgentStatusFailed, false},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, c.from.Advances(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestAgentInstanceSetStatus(t *testing.T) {
	t.Parallel()

	a := &AgentInstance{ID: "a1", Status: AgentStatusPending}
	now := time.Now()

	require.True(t, a.SetStatus(AgentStatusSpawning, nil, now))
	require.True(t, a.SetStatus(AgentStatusRunning, nil, now.Add(time.Second)))
	require.NotNil(t, a.StartedAt)

	code := 0
	require.True(t, a.SetStatus(AgentStatusCompleted, &code, now.Add(2*time.Second)))
	require.NotNil(t, a.FinishedAt)
	require.NotNil(t, a.ExitCode)
	assert.Equal(t, 0, *a.ExitCode)

	// Illegal: already terminal.
	require.False(t, a.SetStatus(AgentStatusRunning, nil, now.Add(3*time.Second)))
}

func TestAgentInstanceClone(t *testing.T) {
	t.Parallel()

	now := time.Now()
	code := 1
	a := &AgentInstance{ID: "a1", StartedAt: &now, ExitCode: &code}
	cp := a.Clone()

	require.NotSame(t, a.StartedAt, cp.StartedAt)
	require.NotSame(t, a.ExitCode, cp.ExitCode)
	assert.Equal(t, *a.StartedAt, *cp.StartedAt)
}
