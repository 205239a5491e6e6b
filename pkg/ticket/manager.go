package ticket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codeready-toolchain/agentforge/pkg/models"
	"github.com/codeready-toolchain/agentforge/pkg/orcherr"
)

// ErrNotFound is returned when a ticket ID is unknown.
var ErrNotFound = errors.New("ticket not found")

// maxRetryCount is the Ticket.RetryCount ceiling (spec.md §3).
const maxRetryCount = 3

// EscalationPolicy controls whether an SLA breach spawns a derived
// escalation ticket (spec.md §4.6).
type EscalationPolicy struct {
	EscalateOnSLABreach bool
}

// CreateTicketRequest is the input to CreateTicket.
type CreateTicketRequest struct {
	ProjectID          string
	Title              string
	Description        string
	AcceptanceCriteria []string
	Complexity         models.TicketComplexity
	AssignedRole       models.Role
	Level              models.TicketLevel
	ParentID           string
	Dependencies       []string
	RequiredGates      []string
	SLA                *models.SLA
	Type               models.TicketType
	OriginalTicketID   string
}

// Manager is the Ticket Manager & Status Transition Engine: the sole
// mutator of ticket state (spec.md §3 "Ownership"). Grounded on the
// teacher's pkg/services/stage_service.go fetch-then-mutate pattern,
// generalized to an in-memory mutex-guarded store since a concrete
// persistence engine is an out-of-scope external collaborator.
type Manager struct {
	mu      sync.Mutex
	tickets map[string]*models.Ticket

	rules       []TransitionRule
	escalation  EscalationPolicy
	inputs      ConditionInputs
	dispatcher  Dispatcher
	testResults map[string]bool

	now func() time.Time
}

// NewManager creates a Manager with rules (DefaultRules() if nil).
// inputs and dispatcher may be nil; every optional collaborator
// degrades its corresponding conditions/actions gracefully.
func NewManager(rules []TransitionRule, escalation EscalationPolicy, inputs ConditionInputs, dispatcher Dispatcher) *Manager {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Manager{
		tickets:     make(map[string]*models.Ticket),
		rules:       rules,
		escalation:  escalation,
		inputs:      inputs,
		dispatcher:  dispatcher,
		testResults: make(map[string]bool),
		now:         time.Now,
	}
}

// CreateTicket validates hierarchy and dependency references and
// inserts a new backlog ticket (spec.md §4.6).
func (m *Manager) CreateTicket(req CreateTicketRequest) (*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if requiredParent, ok := models.ParentLevel(req.Level); ok {
		if req.ParentID == "" {
			return nil, orcherr.Wrap(orcherr.KindHierarchyViolation,
				fmt.Sprintf("level %q requires a parent of level %q", req.Level, requiredParent), nil, false, false)
		}
		parent, ok := m.tickets[req.ParentID]
		if !ok {
			return nil, orcherr.Wrap(orcherr.KindHierarchyViolation,
				fmt.Sprintf("parent ticket %q not found", req.ParentID), nil, false, false)
		}
		if parent.Level != requiredParent {
			return nil, orcherr.Wrap(orcherr.KindHierarchyViolation,
				fmt.Sprintf("parent ticket %q has level %q, need %q", req.ParentID, parent.Level, requiredParent), nil, false, false)
		}
	}

	for _, dep := range req.Dependencies {
		if _, ok := m.tickets[dep]; !ok {
			return nil, orcherr.Wrap(orcherr.KindValidation,
				fmt.Sprintf("dependency %q does not reference a known ticket", dep), nil, false, false)
		}
	}

	t := &models.Ticket{
		ID:                 uuid.NewString(),
		ProjectID:          req.ProjectID,
		Title:              req.Title,
		Description:        req.Description,
		AcceptanceCriteria: req.AcceptanceCriteria,
		Complexity:         req.Complexity,
		Status:             models.TicketStatusBacklog,
		AssignedRole:       req.AssignedRole,
		Level:              req.Level,
		ParentID:           req.ParentID,
		Dependencies:       req.Dependencies,
		Approvals:          models.ApprovalGates{RequiredGates: req.RequiredGates},
		SLA:                req.SLA,
		Type:               req.Type,
		OriginalTicketID:   req.OriginalTicketID,
	}
	if t.Type == "" {
		t.Type = models.TicketTypeTask
	}
	if t.SLA != nil && t.SLA.StartedAt.IsZero() {
		t.SLA.StartedAt = m.now()
	}

	m.tickets[t.ID] = t
	return t.Clone(), nil
}

// Get returns a copy of the ticket for id.
func (m *Manager) Get(id string) (*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return nil, fmt.Errorf("get ticket %q: %w", id, ErrNotFound)
	}
	return t.Clone(), nil
}

// RecordTestResult records whether ticketID's last test run passed,
// consulted by the passesTests condition.
func (m *Manager) RecordTestResult(ticketID string, passed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.testResults[ticketID] = passed
}

func (m *Manager) lastTestPassed(ticketID string) bool {
	passed, ok := m.testResults[ticketID]
	if !ok {
		return true
	}
	return passed
}

func (m *Manager) dependenciesComplete(t *models.Ticket) bool {
	for _, dep := range t.Dependencies {
		d, ok := m.tickets[dep]
		if !ok {
			return false
		}
		if d.Status != models.TicketStatusDone && d.Status != models.TicketStatusApproved {
			return false
		}
	}
	return true
}

func (m *Manager) subtasksComplete(t *models.Ticket) bool {
	for _, child := range m.tickets {
		if child.ParentID == t.ID && child.Status != models.TicketStatusDone {
			return false
		}
	}
	return true
}

func (m *Manager) isReadyLocked(t *models.Ticket) bool {
	if t.Status != models.TicketStatusBacklog {
		return false
	}
	if !m.dependenciesComplete(t) {
		return false
	}
	if !t.Approvals.HasAllRequired() {
		return false
	}
	return true
}

// GetReadyTickets returns every backlog ticket whose dependencies and
// approval gates are satisfied, first resolving any newly-breached SLA
// by rejecting the offending ticket (spec.md §4.6 "computed lazily on
// each readiness query").
func (m *Manager) GetReadyTickets(now time.Time) []*models.Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.tickets {
		m.checkSLALocked(t, now)
	}

	var ready []*models.Ticket
	for _, t := range m.tickets {
		if m.isReadyLocked(t) {
			ready = append(ready, t.Clone())
		}
	}
	return ready
}

// GetNextTicketForAgent returns the first ready ticket assigned to
// role, additionally requiring a done parent for subtask/subatomic
// tickets (spec.md §4.6).
func (m *Manager) GetNextTicketForAgent(role models.Role, now time.Time) (*models.Ticket, bool) {
	for _, t := range m.GetReadyTickets(now) {
		if t.AssignedRole != role {
			continue
		}
		if t.Level == models.LevelSubtask || t.Level == models.LevelSubatomic {
			parent, err := m.Get(t.ParentID)
			if err != nil || parent.Status != models.TicketStatusDone {
				continue
			}
		}
		return t, true
	}
	return nil, false
}

func (m *Manager) checkSLALocked(t *models.Ticket, now time.Time) {
	if t.SLA == nil {
		return
	}
	if t.Status == models.TicketStatusDone || t.Status == models.TicketStatusRejected {
		return
	}
	if t.SLA.Risk(now) != models.SLABreached {
		return
	}

	t.Status = models.TicketStatusRejected
	if t.RetryCount < maxRetryCount {
		t.RetryCount++
	}
	m.cascadeRejectedLocked(t)

	if m.escalation.EscalateOnSLABreach {
		m.createEscalationLocked(t, now)
	}
}

func (m *Manager) createEscalationLocked(original *models.Ticket, now time.Time) *models.Ticket {
	esc := &models.Ticket{
		ID:               uuid.NewString(),
		ProjectID:        original.ProjectID,
		Title:            "Escalation: " + original.Title,
		Description:      fmt.Sprintf("SLA breach or repeated failure on ticket %s", original.ID),
		Status:           models.TicketStatusBacklog,
		AssignedRole:      original.AssignedRole,
		Level:            original.Level,
		Dependencies:     []string{original.ID},
		Type:             models.TicketTypeEscalation,
		OriginalTicketID: original.ID,
	}
	m.tickets[esc.ID] = esc
	return esc
}

// CreateEscalationTicket creates an escalation ticket for original,
// used by the Guardrail Policy (spec.md §4.5) and by project-mode
// ticket execution after repeated failures (spec.md §4.1).
func (m *Manager) CreateEscalationTicket(originalID string, assignedRole models.Role, description string) (*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	original, ok := m.tickets[originalID]
	deps := []string{}
	if ok {
		deps = []string{original.ID}
	} else if originalID != "" {
		deps = []string{originalID}
	}

	esc := &models.Ticket{
		ID:               uuid.NewString(),
		Title:            "Escalation",
		Description:      description,
		Status:           models.TicketStatusBacklog,
		AssignedRole:      assignedRole,
		Dependencies:     deps,
		Type:             models.TicketTypeEscalation,
		OriginalTicketID: originalID,
	}
	m.tickets[esc.ID] = esc
	return esc.Clone(), nil
}

// ExecuteTransition applies the first registered rule whose
// FromStatus/ToStatus match ticketID's current status and requested
// target, and whose Conditions all pass and BlockedBy all fail
// (spec.md §4.6). Auto-actions run synchronously before returning.
func (m *Manager) ExecuteTransition(ctx context.Context, ticketID string, toStatus models.TicketStatus, actor Actor) (*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tickets[ticketID]
	if !ok {
		return nil, fmt.Errorf("execute transition on %q: %w", ticketID, ErrNotFound)
	}

	rule := m.findRuleLocked(t, toStatus, actor)
	if rule == nil {
		return nil, orcherr.Wrap(orcherr.KindValidation,
			fmt.Sprintf("no transition rule permits %s -> %s for ticket %q", t.Status, toStatus, ticketID), nil, true, false)
	}

	t.Status = toStatus
	if toStatus == models.TicketStatusApproved || toStatus == models.TicketStatusRejected {
		t.ApprovalHistory = append(t.ApprovalHistory, models.ApprovalHistoryEntry{
			Action: rule.ID, Timestamp: m.now(), ActorEmail: actor.Email,
		})
	}

	for _, action := range rule.AutoActions {
		m.applyAutoActionLocked(ctx, action, t)
	}

	switch toStatus {
	case models.TicketStatusDone:
		m.cascadeDoneLocked(t)
	case models.TicketStatusRejected:
		m.cascadeRejectedLocked(t)
	}

	return t.Clone(), nil
}

func (m *Manager) findRuleLocked(t *models.Ticket, toStatus models.TicketStatus, actor Actor) *TransitionRule {
	for i := range m.rules {
		rule := &m.rules[i]
		if rule.FromStatus != t.Status || rule.ToStatus != toStatus {
			continue
		}
		if !m.allPassLocked(rule.Conditions, t, actor) {
			continue
		}
		if m.anyPassLocked(rule.BlockedBy, t, actor) {
			continue
		}
		return rule
	}
	return nil
}

func (m *Manager) allPassLocked(conds []Condition, t *models.Ticket, actor Actor) bool {
	for _, c := range conds {
		if !c.Check(m, t, actor) {
			return false
		}
	}
	return true
}

func (m *Manager) anyPassLocked(conds []Condition, t *models.Ticket, actor Actor) bool {
	for _, c := range conds {
		if c.Check(m, t, actor) {
			return true
		}
	}
	return false
}

func (m *Manager) applyAutoActionLocked(ctx context.Context, action AutoAction, t *models.Ticket) {
	switch action.Kind {
	case ActionAssignTo:
		t.AssignedRole = action.Role
	case ActionCreateSubtask:
		m.createSubtaskLocked(action.Template, t)
	case ActionUpdateField:
		m.updateFieldLocked(action.FieldKey, action.FieldValue, t)
	default:
		if m.dispatcher == nil {
			slog.Debug("skipping auto-action, no dispatcher configured", "kind", action.Kind, "ticket", t.ID)
			return
		}
		if err := m.dispatcher.Dispatch(ctx, action, t); err != nil {
			slog.Warn("auto-action dispatch failed", "kind", action.Kind, "ticket", t.ID, "error", err)
		}
	}
}

func (m *Manager) createSubtaskLocked(tmpl SubtaskTemplate, parent *models.Ticket) {
	child := &models.Ticket{
		ID:           uuid.NewString(),
		ProjectID:    parent.ProjectID,
		Title:        tmpl.Title,
		Description:  tmpl.Description,
		Status:       models.TicketStatusBacklog,
		AssignedRole: tmpl.AssignedRole,
		Level:        tmpl.Level,
		ParentID:     parent.ID,
		Type:         models.TicketTypeTask,
	}
	m.tickets[child.ID] = child
}

func (m *Manager) updateFieldLocked(key string, value any, t *models.Ticket) {
	switch key {
	case "title":
		if s, ok := value.(string); ok {
			t.Title = s
		}
	case "description":
		if s, ok := value.(string); ok {
			t.Description = s
		}
	case "complexity":
		if c, ok := value.(models.TicketComplexity); ok {
			t.Complexity = c
		}
	}
}

func (m *Manager) cascadeDoneLocked(t *models.Ticket) {
	for _, dep := range m.dependentsOfLocked(t.ID) {
		if dep.Status == models.TicketStatusBacklog && m.dependenciesComplete(dep) {
			dep.Status = models.TicketStatusInProgress
		}
	}
}

func (m *Manager) cascadeRejectedLocked(t *models.Ticket) {
	for _, dep := range m.dependentsOfLocked(t.ID) {
		if dep.Status == models.TicketStatusBacklog || dep.Status == models.TicketStatusInProgress {
			dep.Status = models.TicketStatusBacklog
		}
	}
}

func (m *Manager) dependentsOfLocked(ticketID string) []*models.Ticket {
	var deps []*models.Ticket
	for _, t := range m.tickets {
		for _, d := range t.Dependencies {
			if d == ticketID {
				deps = append(deps, t)
				break
			}
		}
	}
	return deps
}
