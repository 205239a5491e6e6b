package models

import "time"

// ApprovalGates tracks which gates a ticket requires and which it has
// already received (spec.md §3).
type ApprovalGates struct {
	RequiredGates []string
	ApprovedGates []string
}

// HasAllRequired reports whether every required gate is present in
// ApprovedGates.
func (g ApprovalGates) HasAllRequired() bool {
	approved := make(map[string]bool, len(g.ApprovedGates))
	for _, a := range g.ApprovedGates {
		approved[a] = true
	}
	for _, r := range g.RequiredGates {
		if !approved[r] {
			return false
		}
	}
	return true
}

// SLA tracks a ticket's target turnaround and when its clock started.
type SLA struct {
	TargetMinutes        int
	WarningThresholdPct  int
	StartedAt            time.Time
}

// SLARisk is the closed set of SLA states.
type SLARisk string

const (
	SLAOk       SLARisk = "ok"
	SLAWarning  SLARisk = "warning"
	SLABreached SLARisk = "breached"
)

// Risk computes the SLA state as of now (spec.md §4.6).
func (s SLA) Risk(now time.Time) SLARisk {
	if s.TargetMinutes <= 0 {
		return SLAOk
	}
	elapsed := now.Sub(s.StartedAt)
	target := time.Duration(s.TargetMinutes) * time.Minute
	if elapsed >= target {
		return SLABreached
	}
	warnAt := time.Duration(float64(target) * float64(s.WarningThresholdPct) / 100.0)
	if elapsed >= warnAt {
		return SLAWarning
	}
	return SLAOk
}

// ApprovalHistoryEntry records one approval/rejection transition.
type ApprovalHistoryEntry struct {
	Action    string
	Timestamp time.Time
	ActorEmail string
}

// Ticket is a hierarchical unit of work tracked by the Ticket Manager
// (spec.md §3, §4.6).
type Ticket struct {
	ID                  string
	ProjectID           string
	Title               string
	Description         string
	AcceptanceCriteria  []string
	Complexity          TicketComplexity
	Status              TicketStatus
	AssignedRole        Role
	Level               TicketLevel
	ParentID            string
	Dependencies        []string
	EvidenceIDs         []string
	Approvals           ApprovalGates
	SLA                 *SLA
	RetryCount          int
	Type                TicketType
	OriginalTicketID    string
	ApprovalHistory     []ApprovalHistoryEntry
}

// Clone returns a copy of t safe to hand to external observers (spec.md
// §4.6: "external observers receive copies via the update callback").
func (t *Ticket) Clone() *Ticket {
	cp := *t
	cp.AcceptanceCriteria = append([]string(nil), t.AcceptanceCriteria...)
	cp.Dependencies = append([]string(nil), t.Dependencies...)
	cp.EvidenceIDs = append([]string(nil), t.EvidenceIDs...)
	cp.Approvals.RequiredGates = append([]string(nil), t.Approvals.RequiredGates...)
	cp.Approvals.ApprovedGates = append([]string(nil), t.Approvals.ApprovedGates...)
	cp.ApprovalHistory = append([]ApprovalHistoryEntry(nil), t.ApprovalHistory...)
	if t.SLA != nil {
		s := *t.SLA
		cp.SLA = &s
	}
	return &cp
}
