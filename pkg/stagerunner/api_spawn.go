package stagerunner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/codeready-toolchain/agentforge/pkg/orcherr"
)

// apiEndpoints are the HTTPS chat-completion endpoints for the built-in
// API backends (spec.md §6). Each provider is an out-of-scope external
// collaborator; this is the minimal net/http seam described in
// SPEC_FULL.md's Domain Stack — no client library wraps an undefined,
// provider-specific wire protocol, so stdlib here is a necessity, not a
// default.
var apiEndpoints = map[string]string{
	"chatgpt":    "https://api.openai.com/v1/chat/completions",
	"gemini-api": "https://generativelanguage.googleapis.com/v1/models/gemini-pro:generateContent",
	"claude":     "https://api.anthropic.com/v1/messages",
}

type apiChatRequest struct {
	Model    string `json:"model,omitempty"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// spawnAPI issues one HTTPS chat-completion call for prompt. Non-2xx
// responses are mapped to a non-zero CLIResult.ExitCode rather than a
// Go error, so RunWithRetry/RunChats treat it the same as a failed CLI
// spawn.
func spawnAPI(ctx context.Context, provider, apiKey, prompt string) (CLIResult, error) {
	endpoint, ok := apiEndpoints[provider]
	if !ok {
		return CLIResult{}, orcherr.Wrap(orcherr.KindProviderUnavailable,
			fmt.Sprintf("no API endpoint configured for provider %q", provider), nil, false, false)
	}

	body := apiChatRequest{}
	body.Messages = []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}{{Role: "user", Content: prompt}}

	payload, err := json.Marshal(body)
	if err != nil {
		return CLIResult{}, orcherr.Wrap(orcherr.KindValidation, "encode API request", err, false, false)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return CLIResult{}, orcherr.Wrap(orcherr.KindNetwork, "build API request", err, true, false)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return CLIResult{TimedOut: true}, nil
		}
		return CLIResult{}, orcherr.Wrap(orcherr.KindNetwork, "call provider API", err, true, true)
	}
	defer resp.Body.Close()

	text, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return CLIResult{Output: string(text), ExitCode: resp.StatusCode}, nil
	}
	return CLIResult{Output: string(text), ExitCode: 0}, nil
}
