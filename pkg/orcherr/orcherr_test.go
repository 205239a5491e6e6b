package orcherr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapFormatsMessageWithCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindNetwork, "calling provider", cause, true, true)

	assert.Equal(t, "NETWORK: calling provider: connection refused", err.Error())
	assert.True(t, err.Recoverable)
	assert.True(t, err.Retryable)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestWrapFormatsMessageWithoutCause(t *testing.T) {
	err := Wrap(KindValidation, "missing parent ticket", nil, false, false)
	assert.Equal(t, "VALIDATION: missing parent ticket", err.Error())
}

func TestIsMatchesKindThroughWrapping(t *testing.T) {
	err := Wrap(KindCancelled, "context done", nil, false, false)

	assert.True(t, Is(err, KindCancelled))
	assert.False(t, Is(err, KindTimeout))
	assert.False(t, Is(errors.New("plain error"), KindTimeout))
}

func TestIsTimeoutExitRecognizesKillSignalCodes(t *testing.T) {
	assert.True(t, IsTimeoutExit(137))
	assert.True(t, IsTimeoutExit(143))
	assert.False(t, IsTimeoutExit(1))
	assert.False(t, IsTimeoutExit(0))
}
