// Package audit records the ordered trail of compliance actions.
// Ordering and completeness only; integrity protection is out of scope.
package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/licensegate/licensegate/internal/models"
)

// Trail is an append-only, insertion-ordered audit record
type Trail struct {
	entries []models.AuditEntry
	now     func() time.Time
}

// NewTrail with wall-clock timestamps
func NewTrail() *Trail {
	return &Trail{now: func() time.Time { return time.Now().UTC() }}
}

// NewTrailWithClock for tests
func NewTrailWithClock(now func() time.Time) *Trail {
	return &Trail{now: now}
}

// Record appends one entry and returns it
func (t *Trail) Record(phase models.AuditPhase, action, actor, actorRole, description, entityType, entityID string) models.AuditEntry {
	entry := models.AuditEntry{
		ID:          uuid.NewString(),
		Timestamp:   t.now(),
		Phase:       phase,
		Action:      action,
		Actor:       actor,
		ActorRole:   actorRole,
		Description: description,
		EntityType:  entityType,
		EntityID:    entityID,
	}
	t.entries = append(t.entries, entry)
	return entry
}

// Entries returns a copy in insertion order
func (t *Trail) Entries() []models.AuditEntry {
	out := make([]models.AuditEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len of the trail
func (t *Trail) Len() int {
	return len(t.entries)
}

// Restore rebuilds a trail from persisted entries (caller-side I/O)
func Restore(entries []models.AuditEntry) *Trail {
	t := NewTrail()
	t.entries = append(t.entries, entries...)
	return t
}

// RestoreWithClock rebuilds a trail keeping its entries, for tests
func RestoreWithClock(entries []models.AuditEntry, now func() time.Time) *Trail {
	t := NewTrailWithClock(now)
	t.entries = append(t.entries, entries...)
	return t
}
