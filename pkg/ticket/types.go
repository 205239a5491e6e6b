// Package ticket implements the Ticket Manager & Status Transition
// Engine: hierarchical tickets with dependency-gated readiness, SLA
// timers, approval gates, and table-driven status transitions with
// auto-action dispatch (spec.md §3, §4.6). Grounded on the teacher's
// ent/schema/alertsession.go and stage.go (status as a closed,
// schema-validated string enum) and pkg/services/stage_service.go's
// fetch-then-mutate-then-cascade shape, generalized from a flat
// session/stage model into a parent/dependency/approval-gated tree
// since ent codegen itself is not carried forward (spec.md places a
// concrete persistence engine out of scope).
package ticket

import (
	"context"

	"github.com/codeready-toolchain/agentforge/pkg/models"
)

// ActorRole is the ordered access level of whoever is driving a
// transition (spec.md §4.6 "hasRole(r) — actor.role ≥ r").
type ActorRole int

const (
	ActorViewer ActorRole = iota
	ActorEditor
	ActorAdmin
)

// Actor is whoever is requesting a ticket transition.
type Actor struct {
	Role  ActorRole
	Email string
}

// ConditionInputs resolves the external registries a handful of
// transition conditions need (design packs, dev packs, code review
// approval). All three are out-of-scope external collaborators
// (spec.md §1); a nil ConditionInputs makes every lookup default to
// "not present", which only blocks transitions that require them.
type ConditionInputs interface {
	HasDesignPack(ticketID string) bool
	HasDevPack(ticketID string) bool
	HasCodeReview(ticketID string) bool
}

// Condition is one named transition precondition (spec.md §4.6).
type Condition struct {
	Name  string
	Check func(m *Manager, t *models.Ticket, actor Actor) bool
}

// AutoActionKind is the closed set of auto-action side effects a
// transition rule may request (spec.md §4.6).
type AutoActionKind string

const (
	ActionNotify         AutoActionKind = "notify"
	ActionAssignTo       AutoActionKind = "assignTo"
	ActionCreateSubtask  AutoActionKind = "createSubtask"
	ActionTriggerWorkflow AutoActionKind = "triggerWorkflow"
	ActionUpdateField    AutoActionKind = "updateField"
	ActionCreateGitBranch AutoActionKind = "createGitBranch"
	ActionCreatePR       AutoActionKind = "createPR"
)

// SubtaskTemplate seeds a ticket created by a createSubtask auto-action.
type SubtaskTemplate struct {
	Title        string
	Description  string
	AssignedRole models.Role
	Level        models.TicketLevel
}

// AutoAction is one side effect a transition rule triggers on success.
type AutoAction struct {
	Kind         AutoActionKind
	Message      string          // notify
	Role         models.Role     // assignTo
	Template     SubtaskTemplate // createSubtask
	WorkflowID   string          // triggerWorkflow
	FieldKey     string          // updateField
	FieldValue   any             // updateField
}

// Dispatcher performs the auto-actions that reach outside the Ticket
// Manager itself — notify, triggerWorkflow, createGitBranch, createPR
// are all out-of-scope external collaborators (spec.md §4.6: "these are
// side-effect interfaces the core dispatches"). assignTo, updateField,
// and createSubtask are handled internally since they are plain ticket
// mutations. A nil Dispatcher makes the external actions a no-op.
type Dispatcher interface {
	Dispatch(ctx context.Context, action AutoAction, t *models.Ticket) error
}

// TransitionRule is one row of the status transition table (spec.md
// §4.6). BlockedBy names Conditions (by Name) that must all evaluate
// false for the rule to fire — the inverse of Conditions — since
// spec.md names a `blockedBy[]` field on the rule without defining its
// polarity; this is the more common convention for a "blocked by"
// predicate list (see DESIGN.md).
type TransitionRule struct {
	ID               string
	FromStatus       models.TicketStatus
	ToStatus         models.TicketStatus
	Conditions       []Condition
	BlockedBy        []Condition
	RequiredFields   []string
	RequiredApproval bool
	AutoActions      []AutoAction
}
