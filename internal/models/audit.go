package models

import "time"

// AuditPhase groups audit entries by lifecycle stage
type AuditPhase string

const (
	PhaseScan     AuditPhase = "SCAN"
	PhasePolicy   AuditPhase = "POLICY"
	PhaseCuration AuditPhase = "CURATION"
	PhaseApproval AuditPhase = "APPROVAL"
)

// AuditEntry is one ordered record in a session's audit trail
type AuditEntry struct {
	ID          string     `json:"id"`
	Timestamp   time.Time  `json:"timestamp"`
	Phase       AuditPhase `json:"phase"`
	Action      string     `json:"action"`
	Actor       string     `json:"actor"`
	ActorRole   string     `json:"actorRole,omitempty"`
	Description string     `json:"description,omitempty"`
	EntityType  string     `json:"entityType,omitempty"`
	EntityID    string     `json:"entityId,omitempty"`
}
