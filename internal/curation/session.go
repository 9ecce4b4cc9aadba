package curation

import (
	"fmt"
	"time"

	"github.com/licensegate/licensegate/internal/audit"
	"github.com/licensegate/licensegate/internal/cerr"
	"github.com/licensegate/licensegate/internal/models"
)

// Session owns the curation items of exactly one scan and drives the
// two-role submit/approve protocol. Aggregate statistics are always
// derived from the item set, never stored.
type Session struct {
	ID        string                `json:"id"`
	ScanID    string                `json:"scanId"`
	CuratorID string                `json:"curatorId"`
	Status    models.SessionStatus  `json:"status"`
	Items     []models.CurationItem `json:"items"`

	SubmitterID   string    `json:"submitterId,omitempty"`
	SubmittedAt   time.Time `json:"submittedAt,omitzero"`
	SubmitComment string    `json:"submitComment,omitempty"`

	Approval      *models.Approval `json:"approval,omitempty"`
	ReturnReason  string           `json:"returnReason,omitempty"`
	RevisionItems []string         `json:"revisionItems,omitempty"`

	AuditLog []models.AuditEntry `json:"auditLog,omitempty"`

	trail *audit.Trail
	now   func() time.Time
}

// NewSession for one scan
func NewSession(id, scanID, curatorID string, items []models.CurationItem) *Session {
	s := &Session{
		ID:        id,
		ScanID:    scanID,
		CuratorID: curatorID,
		Status:    models.SessionInProgress,
		Items:     items,
		trail:     audit.NewTrail(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	s.record(models.PhaseCuration, "session.created", curatorID, "curator",
		fmt.Sprintf("curation session for scan %s with %d items", scanID, len(items)), "session", id)
	return s
}

// Restore a persisted session (caller-side I/O)
func Restore(s *Session) *Session {
	s.trail = audit.Restore(s.AuditLog)
	s.now = func() time.Time { return time.Now().UTC() }
	return s
}

// WithClock for tests; keeps any entries already recorded
func (s *Session) WithClock(now func() time.Time) *Session {
	s.now = now
	s.trail = audit.RestoreWithClock(s.AuditLog, now)
	return s
}

func (s *Session) record(phase models.AuditPhase, action, actor, role, desc, entityType, entityID string) {
	s.trail.Record(phase, action, actor, role, desc, entityType, entityID)
	s.AuditLog = s.trail.Entries()
}

// Stats derived from the item set on every read
func (s *Session) Stats() models.SessionStats {
	stats := models.SessionStats{Total: len(s.Items)}
	for i := range s.Items {
		switch s.Items[i].Status {
		case models.ItemPending:
			stats.Pending++
		case models.ItemAccepted:
			stats.Accepted++
		case models.ItemRejected:
			stats.Rejected++
		case models.ItemModified:
			stats.Modified++
		}
	}
	return stats
}

// Item looks up by dependency id
func (s *Session) Item(dependencyID string) (*models.CurationItem, error) {
	for i := range s.Items {
		if s.Items[i].DependencyID == dependencyID {
			return &s.Items[i], nil
		}
	}
	return nil, cerr.NotFound("curation item", dependencyID)
}

// frozen sessions permit audit append only
func (s *Session) frozen() bool {
	return s.Status == models.SessionApproved
}

// Decide applies one decision to one item and recomputes session status
func (s *Session) Decide(dependencyID string, d Decision) error {
	if s.frozen() {
		return cerr.Preconditionf("session %s is approved and can no longer be modified", s.ID)
	}

	item, err := s.Item(dependencyID)
	if err != nil {
		return err
	}

	if err := DecideItem(item, d, s.now()); err != nil {
		return err
	}

	s.record(models.PhaseCuration, "item."+actionVerb(d.Action), d.CuratorID, "curator",
		fmt.Sprintf("license %q", item.CuratedLicense), "item", dependencyID)
	s.refreshStatus()
	return nil
}

// ResolveOr records an OR-license choice; always logged
func (s *Session) ResolveOr(dependencyID, chosen, reason string, curatorID string) error {
	if s.frozen() {
		return cerr.Preconditionf("session %s is approved and can no longer be modified", s.ID)
	}

	item, err := s.Item(dependencyID)
	if err != nil {
		return err
	}

	if err := ResolveOrLicense(item, chosen, reason); err != nil {
		return err
	}

	s.record(models.PhaseCuration, "item.or_resolved", curatorID, "curator",
		fmt.Sprintf("chose %q: %s", chosen, reason), "item", dependencyID)
	return nil
}

// refreshStatus moves between IN_PROGRESS and COMPLETED while undecided
// items remain; submission states are only left via the approval flow.
func (s *Session) refreshStatus() {
	if s.Status != models.SessionInProgress && s.Status != models.SessionCompleted {
		return
	}
	if s.Stats().Pending == 0 {
		s.Status = models.SessionCompleted
	} else {
		s.Status = models.SessionInProgress
	}
}

// BlockerType for readiness reporting
type BlockerType string

const (
	BlockerPendingItems         BlockerType = "PENDING_ITEMS"
	BlockerUnresolvedOr         BlockerType = "UNRESOLVED_OR"
	BlockerMissingJustification BlockerType = "MISSING_JUSTIFICATION"
)

// Blocker names the items standing in the way of submission
type Blocker struct {
	Type    BlockerType `json:"type"`
	Count   int         `json:"count"`
	ItemIDs []string    `json:"itemIds"`
}

// Readiness verdict with itemized blockers
type Readiness struct {
	IsReady  bool      `json:"isReady"`
	Blockers []Blocker `json:"blockers,omitempty"`
}

// ComputeReadiness: ready when no item is pending, every OR-license item
// is resolved and every non-permissive item carries a justification.
func (s *Session) ComputeReadiness() Readiness {
	var pending, unresolved, missing []string

	for i := range s.Items {
		item := &s.Items[i]
		if item.Status == models.ItemPending {
			pending = append(pending, item.DependencyID)
		}
		if !item.OrLicense.Resolved() {
			unresolved = append(unresolved, item.DependencyID)
		}
		if !item.JustificationComplete {
			missing = append(missing, item.DependencyID)
		}
	}

	r := Readiness{}
	if len(pending) > 0 {
		r.Blockers = append(r.Blockers, Blocker{Type: BlockerPendingItems, Count: len(pending), ItemIDs: pending})
	}
	if len(unresolved) > 0 {
		r.Blockers = append(r.Blockers, Blocker{Type: BlockerUnresolvedOr, Count: len(unresolved), ItemIDs: unresolved})
	}
	if len(missing) > 0 {
		r.Blockers = append(r.Blockers, Blocker{Type: BlockerMissingJustification, Count: len(missing), ItemIDs: missing})
	}
	r.IsReady = len(r.Blockers) == 0
	return r
}

// SubmitForApproval moves a ready session into the approval queue
func (s *Session) SubmitForApproval(submitterID, comment string) error {
	if s.frozen() {
		return cerr.Preconditionf("session %s is already approved", s.ID)
	}
	if s.Status == models.SessionSubmitted {
		return cerr.Preconditionf("session %s is already submitted for approval", s.ID)
	}

	r := s.ComputeReadiness()
	if !r.IsReady {
		return cerr.Preconditionf("session %s is not ready for approval: %s", s.ID, summarizeBlockers(r.Blockers))
	}

	s.Status = models.SessionSubmitted
	s.SubmitterID = submitterID
	s.SubmittedAt = s.now()
	s.SubmitComment = comment
	s.ReturnReason = ""
	s.RevisionItems = nil

	s.record(models.PhaseApproval, "session.submitted", submitterID, "curator", comment, "session", s.ID)
	return nil
}

// ApprovalRequest input for DecideApproval
type ApprovalRequest struct {
	ApproverID    string
	ApproverName  string
	ApproverRole  string
	Decision      models.ApprovalDecision
	Comment       string
	ReturnReason  string
	RevisionItems []string
}

// DecideApproval applies the four-eyes gate and the terminal transition.
// APPROVED freezes the session; REJECTED and RETURNED clear submission
// state and reopen the session for curation.
func (s *Session) DecideApproval(req ApprovalRequest) error {
	if s.frozen() {
		return cerr.Preconditionf("session %s is already approved", s.ID)
	}
	if s.Status != models.SessionSubmitted {
		return cerr.Preconditionf("session %s is not submitted for approval", s.ID)
	}
	if _, err := models.ParseApprovalDecision(string(req.Decision)); err != nil {
		return cerr.Validationf("%v", err)
	}
	if req.ApproverID == s.SubmitterID || req.ApproverID == s.CuratorID {
		return cerr.Preconditionf("four-eyes violation: approver %s also curated or submitted session %s", req.ApproverID, s.ID)
	}

	switch req.Decision {
	case models.DecisionApprove:
		s.Status = models.SessionApproved
		s.Approval = &models.Approval{
			ApproverID:   req.ApproverID,
			ApproverName: req.ApproverName,
			ApproverRole: req.ApproverRole,
			Decision:     models.DecisionApprove,
			Comment:      req.Comment,
			DecidedAt:    s.now(),
		}
		s.record(models.PhaseApproval, "session.approved", req.ApproverID, req.ApproverRole, req.Comment, "session", s.ID)

	case models.DecisionReject:
		s.reopen()
		s.Status = models.SessionInProgress
		s.record(models.PhaseApproval, "session.rejected", req.ApproverID, req.ApproverRole, req.Comment, "session", s.ID)

	case models.DecisionReturn:
		s.reopen()
		s.Status = models.SessionInProgress
		s.ReturnReason = req.ReturnReason
		s.RevisionItems = req.RevisionItems
		s.reopenItems(req.RevisionItems)
		s.record(models.PhaseApproval, "session.returned", req.ApproverID, req.ApproverRole, req.ReturnReason, "session", s.ID)
	}

	return nil
}

// reopen clears submission state
func (s *Session) reopen() {
	s.SubmitterID = ""
	s.SubmittedAt = time.Time{}
	s.SubmitComment = ""
	s.Approval = nil
}

// reopenItems resets the named items (or all, if none named) to PENDING
func (s *Session) reopenItems(ids []string) {
	reopenAll := len(ids) == 0
	named := make(map[string]bool, len(ids))
	for _, id := range ids {
		named[id] = true
	}

	for i := range s.Items {
		item := &s.Items[i]
		if !reopenAll && !named[item.DependencyID] {
			continue
		}
		item.Status = models.ItemPending
		item.CuratedLicense = ""
		refreshJustificationFlag(item)
	}
}

// AuditTrail in insertion order
func (s *Session) AuditTrail() []models.AuditEntry {
	return s.trail.Entries()
}

func actionVerb(a DecideAction) string {
	switch a {
	case ActionAccept:
		return "accepted"
	case ActionReject:
		return "rejected"
	case ActionModify:
		return "modified"
	}
	return "decided"
}

func summarizeBlockers(blockers []Blocker) string {
	out := ""
	for i, b := range blockers {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s (%d)", b.Type, b.Count)
	}
	return out
}
