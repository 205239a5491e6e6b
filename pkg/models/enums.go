// Package models holds the shared data-model types used across the
// orchestration engine: agents, tickets, evidence, cache entries, job
// status, and the guardrail refusal payload (spec.md §3).
package models

// Role is the closed set of agent roles that make up a pipeline stage.
type Role string

const (
	RoleResearcher  Role = "researcher"
	RolePlanner     Role = "planner"
	RoleCoder       Role = "coder"
	RoleValidator   Role = "validator"
	RoleSecurity    Role = "security"
	RoleSynthesizer Role = "synthesizer"
)

// Roles lists every role in stage execution order.
func Roles() []Role {
	return []Role{RoleResearcher, RolePlanner, RoleCoder, RoleValidator, RoleSecurity, RoleSynthesizer}
}

// ResearchDepth controls how the research-stage prompt is parameterized.
type ResearchDepth string

const (
	DepthShallow ResearchDepth = "shallow"
	DepthMedium  ResearchDepth = "medium"
	DepthDeep    ResearchDepth = "deep"
)

// AgentStatus is the monotonic lifecycle of a single AgentInstance.
// pending < spawning < running < {completed|failed|cancelled}.
type AgentStatus string

const (
	AgentStatusPending   AgentStatus = "pending"
	AgentStatusSpawning  AgentStatus = "spawning"
	AgentStatusRunning   AgentStatus = "running"
	AgentStatusCompleted AgentStatus = "completed"
	AgentStatusFailed    AgentStatus = "failed"
	AgentStatusCancelled AgentStatus = "cancelled"
)

// rank assigns a monotonic order to each status so that progression can be
// checked with a simple integer comparison (spec.md §8 invariant 1).
var statusRank = map[AgentStatus]int{
	AgentStatusPending:   0,
	AgentStatusSpawning:  1,
	AgentStatusRunning:   2,
	AgentStatusCompleted: 3,
	AgentStatusFailed:    3,
	AgentStatusCancelled: 3,
}

// IsTerminal reports whether s is a terminal status.
func (s AgentStatus) IsTerminal() bool {
	return s == AgentStatusCompleted || s == AgentStatusFailed || s == AgentStatusCancelled
}

// Advances reports whether moving from s to next is a legal monotonic
// transition (next's rank is >= s's rank, and a terminal status never
// moves to a different terminal status).
func (s AgentStatus) Advances(next AgentStatus) bool {
	if s.IsTerminal() {
		return next == s
	}
	return statusRank[next] >= statusRank[s]
}

// TicketComplexity estimates relative ticket size.
type TicketComplexity string

const (
	ComplexityS  TicketComplexity = "S"
	ComplexityM  TicketComplexity = "M"
	ComplexityL  TicketComplexity = "L"
	ComplexityXL TicketComplexity = "XL"
)

// TicketStatus is the closed set of ticket workflow states.
type TicketStatus string

const (
	TicketStatusBacklog    TicketStatus = "backlog"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusReview     TicketStatus = "review"
	TicketStatusApproved   TicketStatus = "approved"
	TicketStatusRejected   TicketStatus = "rejected"
	TicketStatusDone       TicketStatus = "done"
)

// TicketLevel is the ticket hierarchy depth.
type TicketLevel string

const (
	LevelFeature   TicketLevel = "feature"
	LevelEpic      TicketLevel = "epic"
	LevelStory     TicketLevel = "story"
	LevelTask      TicketLevel = "task"
	LevelSubtask   TicketLevel = "subtask"
	LevelSubatomic TicketLevel = "subatomic"
)

// ParentLevel returns the level that must immediately enclose level, and
// ok=false for the root level (feature), which has no required parent.
func ParentLevel(level TicketLevel) (parent TicketLevel, ok bool) {
	switch level {
	case LevelEpic:
		return LevelFeature, true
	case LevelStory:
		return LevelEpic, true
	case LevelTask:
		return LevelStory, true
	case LevelSubtask:
		return LevelTask, true
	case LevelSubatomic:
		return LevelSubtask, true
	default:
		return "", false
	}
}

// TicketType distinguishes ordinary work tickets from derived escalations.
type TicketType string

const (
	TicketTypeTask       TicketType = "task"
	TicketTypeEscalation TicketType = "escalation"
)

// JobMode is the pipeline mode the Orchestrator dispatches to.
type JobMode string

const (
	ModeChat    JobMode = "chat"
	ModeSwarm   JobMode = "swarm"
	ModeProject JobMode = "project"
)

// JobState is the closed set of JobStatus states.
type JobState string

const (
	JobQueued    JobState = "queued"
	JobRunning   JobState = "running"
	JobCompleted JobState = "completed"
	JobFailed    JobState = "failed"
	JobCancelled JobState = "cancelled"
)

// RefusalReason is the closed set of guardrail refusal codes.
type RefusalReason string

const (
	ReasonLowConfidence           RefusalReason = "LOW_CONFIDENCE"
	ReasonInsufficientEvidence    RefusalReason = "INSUFFICIENT_EVIDENCE"
	ReasonUpstreamValidationFailed RefusalReason = "UPSTREAM_VALIDATION_FAILED"
	ReasonExplicitRefusalTriggered RefusalReason = "EXPLICIT_REFUSAL_TRIGGERED"
)

// ConfidenceMethod is the closed set of confidence computation methods.
type ConfidenceMethod string

const (
	MethodJaccard ConfidenceMethod = "jaccard"
	MethodSemantic ConfidenceMethod = "semantic"
	MethodHybrid  ConfidenceMethod = "hybrid"
)
