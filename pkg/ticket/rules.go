package ticket

import "github.com/codeready-toolchain/agentforge/pkg/models"

// HasRole requires the acting actor's role to be at least min (spec.md
// §4.6: "actor.role ≥ r (viewer<editor<admin)").
func HasRole(min ActorRole) Condition {
	return Condition{
		Name: "hasRole",
		Check: func(_ *Manager, _ *models.Ticket, actor Actor) bool {
			return actor.Role >= min
		},
	}
}

// AllDependenciesComplete requires every dependency ticket to be done
// or approved.
func AllDependenciesComplete() Condition {
	return Condition{
		Name: "allDependenciesComplete",
		Check: func(m *Manager, t *models.Ticket, _ Actor) bool {
			return m.dependenciesComplete(t)
		},
	}
}

// AllSubtasksComplete requires no child ticket to be outside `done`.
func AllSubtasksComplete() Condition {
	return Condition{
		Name: "allSubtasksComplete",
		Check: func(m *Manager, t *models.Ticket, _ Actor) bool {
			return m.subtasksComplete(t)
		},
	}
}

// HasDesignPack requires ConditionInputs to report a design pack for t.
func HasDesignPack() Condition {
	return Condition{
		Name: "hasDesignPack",
		Check: func(m *Manager, t *models.Ticket, _ Actor) bool {
			return m.inputs != nil && m.inputs.HasDesignPack(t.ID)
		},
	}
}

// HasDevPack requires ConditionInputs to report a dev pack for t.
func HasDevPack() Condition {
	return Condition{
		Name: "hasDevPack",
		Check: func(m *Manager, t *models.Ticket, _ Actor) bool {
			return m.inputs != nil && m.inputs.HasDevPack(t.ID)
		},
	}
}

// HasCodeReview requires ConditionInputs to report an approved review.
func HasCodeReview() Condition {
	return Condition{
		Name: "hasCodeReview",
		Check: func(m *Manager, t *models.Ticket, _ Actor) bool {
			return m.inputs != nil && m.inputs.HasCodeReview(t.ID)
		},
	}
}

// PassesTests requires the last recorded test result for t to have
// passed, defaulting to true when none has been recorded (spec.md §4.6
// "default true if none").
func PassesTests() Condition {
	return Condition{
		Name: "passesTests",
		Check: func(m *Manager, t *models.Ticket, _ Actor) bool {
			return m.lastTestPassed(t.ID)
		},
	}
}

// Custom wraps an arbitrary predicate as a named Condition (spec.md
// §4.6 "custom(fn, description)").
func Custom(name string, fn func(m *Manager, t *models.Ticket, actor Actor) bool) Condition {
	return Condition{Name: name, Check: fn}
}

// DefaultRules returns the minimum transition rule set spec.md §4.6
// requires to be present.
func DefaultRules() []TransitionRule {
	return []TransitionRule{
		{
			ID:         "start",
			FromStatus: models.TicketStatusBacklog,
			ToStatus:   models.TicketStatusInProgress,
		},
		{
			ID:         "submit_for_review",
			FromStatus: models.TicketStatusInProgress,
			ToStatus:   models.TicketStatusReview,
		},
		{
			ID:               "approve",
			FromStatus:       models.TicketStatusReview,
			ToStatus:         models.TicketStatusApproved,
			Conditions:       []Condition{HasRole(ActorEditor)},
			RequiredApproval: true,
		},
		{
			ID:         "reject",
			FromStatus: models.TicketStatusReview,
			ToStatus:   models.TicketStatusRejected,
			Conditions: []Condition{HasRole(ActorEditor)},
		},
		{
			ID:         "retry",
			FromStatus: models.TicketStatusRejected,
			ToStatus:   models.TicketStatusInProgress,
		},
		{
			ID:         "complete",
			FromStatus: models.TicketStatusApproved,
			ToStatus:   models.TicketStatusDone,
			Conditions: []Condition{AllSubtasksComplete(), PassesTests()},
		},
		{
			ID:         "reset",
			FromStatus: models.TicketStatusInProgress,
			ToStatus:   models.TicketStatusBacklog,
		},
		{
			ID:         "quick_complete",
			FromStatus: models.TicketStatusBacklog,
			ToStatus:   models.TicketStatusDone,
			Conditions: []Condition{HasRole(ActorAdmin)},
		},
	}
}
