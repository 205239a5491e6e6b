package models

import "time"

// JobStatus tracks one pipeline run's lifecycle (spec.md §3).
type JobStatus struct {
	ID           string
	SessionID    string
	Prompt       string
	Mode         JobMode
	Status       JobState
	Progress     int
	CurrentStage string
	Result       *SwarmResult
	Error        string
	CreatedAt    time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
}

// SwarmResult is the Orchestrator's output for a completed (or
// cancelled/failed) pipeline run (spec.md §4.1).
type SwarmResult struct {
	FinalOutput       string
	Confidence        int
	Agents            []*AgentInstance
	Sources           []string
	ValidationPassed  bool
	Refusal           *RefusalPayload
}
