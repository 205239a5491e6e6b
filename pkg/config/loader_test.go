package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBytesMergesOverDefaults(t *testing.T) {
	t.Parallel()

	yaml := []byte(`
enabled_providers: ["claude", "chatgpt"]
chats_per_agent: 3
max_runtime_seconds: 60
`)
	s, err := LoadBytes(yaml)
	require.NoError(t, err)

	assert.Equal(t, []string{"claude", "chatgpt"}, s.EnabledProviders)
	assert.Equal(t, 3, s.ChatsPerAgent)
	assert.Equal(t, 60, s.MaxRuntimeSeconds)
	// Untouched fields keep their defaults.
	assert.Equal(t, 1, s.MaxConcurrentJobs)
	assert.True(t, s.CodeValidation.Enabled)
}

func TestLoadBytesRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	_, err := LoadBytes([]byte(`chats_per_agent: 21`))
	require.Error(t, err)
}

func TestCLITemplateRenderSinglePoint(t *testing.T) {
	t.Parallel()

	tpl := CLITemplate{Command: "claude", Args: []string{"--file", "{PROMPT}", "--quiet"}}
	cmd, args := tpl.Render("/tmp/prompt123.txt")
	assert.Equal(t, "claude", cmd)
	assert.Equal(t, []string{"--file", "/tmp/prompt123.txt", "--quiet"}, args)
}
