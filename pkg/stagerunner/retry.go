package stagerunner

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// isNonRetryableExit reports whether code is a timeout/signal-kill exit
// code that must never be retried (spec.md §4.2, §5: exit codes
// 137/143 are "never retried").
func isNonRetryableExit(code int) bool {
	return code == 137 || code == 143
}

// runOnce is a single spawn attempt: returns the CLIResult and an error
// only for infrastructure failures (spawn itself failing), never for a
// non-zero exit code.
type runOnce func() (CLIResult, error)

// RunWithRetry invokes attempt up to maxRetries+1 times total, waiting
// retryDelay (a fixed, non-exponential delay per spec.md §4.2) between
// attempts, stopping early on success (exit code 0), a timeout, or a
// non-retryable exit code. Grounded on the teacher's general retry
// shape; `cenkalti/backoff`'s ConstantBackOff supplies the fixed-delay
// policy instead of a hand-rolled sleep loop.
func RunWithRetry(ctx context.Context, maxRetries int, retryDelay time.Duration, attempt runOnce) (CLIResult, error) {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(retryDelay), uint64(maxRetries)),
		ctx,
	)

	var last CLIResult
	err := backoff.Retry(func() error {
		result, runErr := attempt()
		last = result
		if runErr != nil {
			return backoff.Permanent(runErr)
		}
		if result.TimedOut || result.ExitCode == 0 || isNonRetryableExit(result.ExitCode) {
			return nil
		}
		return errRetryableExit
	}, policy)

	if permErr, ok := err.(*backoff.PermanentError); ok {
		return last, permErr.Unwrap()
	}
	// err is either nil (success/timeout/non-retryable exit) or the
	// retryable-exit sentinel with retries exhausted; either way `last`
	// holds the final attempt's result, which the caller reports as-is.
	return last, nil
}

var errRetryableExit = retryableExitErr{}

type retryableExitErr struct{}

func (retryableExitErr) Error() string { return "agent exited non-zero, retrying" }
