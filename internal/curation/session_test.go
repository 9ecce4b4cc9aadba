package curation

import (
	"strings"
	"testing"
	"time"

	"github.com/licensegate/licensegate/internal/cerr"
	"github.com/licensegate/licensegate/internal/models"
)

func testSession(t *testing.T, items ...models.CurationItem) *Session {
	t.Helper()
	s := NewSession("sess-1", "scan-1", "alice", items)
	return s.WithClock(func() time.Time { return testNow })
}

func acceptAll(t *testing.T, s *Session) {
	t.Helper()
	for i := range s.Items {
		err := s.Decide(s.Items[i].DependencyID, Decision{
			Action:        ActionAccept,
			CuratorID:     "alice",
			Justification: &models.Justification{Type: models.JustificationLegalReview, Text: "cleared"},
		})
		if err != nil {
			t.Fatalf("accept %s: %v", s.Items[i].DependencyID, err)
		}
	}
}

func TestSessionStatsDerived(t *testing.T) {
	s := testSession(t,
		pendingItem("a", "MIT"),
		pendingItem("b", "GPL-3.0"),
		pendingItem("c", "Apache-2.0"),
	)

	if got := s.Stats(); got.Total != 3 || got.Pending != 3 {
		t.Fatalf("stats = %+v, want 3 pending of 3", got)
	}

	if err := s.Decide("a", Decision{Action: ActionAccept}); err != nil {
		t.Fatalf("decide: %v", err)
	}
	if err := s.Decide("b", Decision{Action: ActionReject}); err != nil {
		t.Fatalf("decide: %v", err)
	}

	got := s.Stats()
	if got.Accepted != 1 || got.Rejected != 1 || got.Pending != 1 {
		t.Errorf("stats = %+v, want 1 accepted, 1 rejected, 1 pending", got)
	}
	if s.Status != models.SessionInProgress {
		t.Errorf("status = %s, want IN_PROGRESS while items are pending", s.Status)
	}

	if err := s.Decide("c", Decision{Action: ActionAccept}); err != nil {
		t.Fatalf("decide: %v", err)
	}
	if s.Status != models.SessionCompleted {
		t.Errorf("status = %s, want COMPLETED once nothing is pending", s.Status)
	}
}

func TestSessionDecideUnknownItem(t *testing.T) {
	s := testSession(t, pendingItem("a", "MIT"))
	err := s.Decide("nope", Decision{Action: ActionAccept})
	if !cerr.IsNotFound(err) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestComputeReadinessBlockers(t *testing.T) {
	orItem := pendingItem("b", "MIT OR GPL-3.0")
	orItem.OrLicense = models.OrLicense{IsOrLicense: true, Options: []string{"MIT", "GPL-3.0"}}

	s := testSession(t,
		pendingItem("a", "MIT"),
		orItem,
		pendingItem("c", "AGPL-3.0"),
	)

	r := s.ComputeReadiness()
	if r.IsReady {
		t.Fatal("fresh session must not be ready")
	}
	byType := map[BlockerType]Blocker{}
	for _, b := range r.Blockers {
		byType[b.Type] = b
	}
	if b := byType[BlockerPendingItems]; b.Count != 3 {
		t.Errorf("PENDING_ITEMS count = %d, want 3", b.Count)
	}
	if b := byType[BlockerUnresolvedOr]; b.Count != 1 || b.ItemIDs[0] != "b" {
		t.Errorf("UNRESOLVED_OR = %+v, want item b", b)
	}
	if b := byType[BlockerMissingJustification]; b.Count != 2 {
		t.Errorf("MISSING_JUSTIFICATION count = %d, want 2 (OR item and AGPL item)", b.Count)
	}
}

func TestReadinessMonotonic(t *testing.T) {
	orItem := pendingItem("b", "MIT OR GPL-3.0")
	orItem.OrLicense = models.OrLicense{IsOrLicense: true, Options: []string{"MIT", "GPL-3.0"}}
	s := testSession(t, pendingItem("a", "MIT"), orItem, pendingItem("c", "AGPL-3.0"))

	blockerCount := func() int {
		n := 0
		for _, b := range s.ComputeReadiness().Blockers {
			n += b.Count
		}
		return n
	}

	before := blockerCount()
	if err := s.Decide("a", Decision{Action: ActionAccept}); err != nil {
		t.Fatalf("decide: %v", err)
	}
	after := blockerCount()
	if after >= before {
		t.Errorf("resolving an item must shrink blockers: %d -> %d", before, after)
	}

	if err := s.ResolveOr("b", "MIT", "permissive", "alice"); err != nil {
		t.Fatalf("resolveOr: %v", err)
	}
	if err := s.Decide("b", Decision{Action: ActionAccept}); err != nil {
		t.Fatalf("decide: %v", err)
	}
	if err := s.Decide("c", Decision{
		Action:        ActionAccept,
		Justification: &models.Justification{Type: models.JustificationInternalUse, Text: "not distributed"},
	}); err != nil {
		t.Fatalf("decide: %v", err)
	}

	if r := s.ComputeReadiness(); !r.IsReady {
		t.Errorf("session should be ready, blockers: %+v", r.Blockers)
	}
}

func TestSubmitRequiresReadiness(t *testing.T) {
	s := testSession(t, pendingItem("a", "MIT"))

	err := s.SubmitForApproval("alice", "")
	if !cerr.IsPrecondition(err) {
		t.Fatalf("err = %v, want PreconditionError", err)
	}
	if !strings.Contains(err.Error(), "PENDING_ITEMS") {
		t.Errorf("error should name the blocker: %v", err)
	}

	acceptAll(t, s)
	if err := s.SubmitForApproval("alice", "ready"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if s.Status != models.SessionSubmitted {
		t.Errorf("status = %s, want SUBMITTED_FOR_APPROVAL", s.Status)
	}

	if err := s.SubmitForApproval("alice", "again"); !cerr.IsPrecondition(err) {
		t.Errorf("double submit: err = %v, want PreconditionError", err)
	}
}

func TestFourEyes(t *testing.T) {
	for _, decision := range []models.ApprovalDecision{
		models.DecisionApprove, models.DecisionReject, models.DecisionReturn,
	} {
		t.Run(string(decision), func(t *testing.T) {
			s := testSession(t, pendingItem("a", "MIT"))
			acceptAll(t, s)
			if err := s.SubmitForApproval("alice", ""); err != nil {
				t.Fatalf("submit: %v", err)
			}

			err := s.DecideApproval(ApprovalRequest{ApproverID: "alice", Decision: decision})
			if !cerr.IsPrecondition(err) {
				t.Errorf("self-approval: err = %v, want PreconditionError", err)
			}
		})
	}
}

func TestApproveFreezesSession(t *testing.T) {
	s := testSession(t, pendingItem("a", "MIT"))
	acceptAll(t, s)
	if err := s.SubmitForApproval("alice", ""); err != nil {
		t.Fatalf("submit: %v", err)
	}

	err := s.DecideApproval(ApprovalRequest{
		ApproverID: "bob", ApproverRole: "legal", Decision: models.DecisionApprove, Comment: "lgtm",
	})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if s.Status != models.SessionApproved {
		t.Fatalf("status = %s, want APPROVED", s.Status)
	}
	if s.Approval == nil || s.Approval.ApproverID != "bob" {
		t.Fatalf("approval record = %+v", s.Approval)
	}

	if err := s.Decide("a", Decision{Action: ActionReject}); !cerr.IsPrecondition(err) {
		t.Errorf("decide on frozen session: err = %v, want PreconditionError", err)
	}
	if err := s.ResolveOr("a", "MIT", "", "alice"); !cerr.IsPrecondition(err) {
		t.Errorf("resolveOr on frozen session: err = %v, want PreconditionError", err)
	}
	if err := s.SubmitForApproval("alice", ""); !cerr.IsPrecondition(err) {
		t.Errorf("submit on frozen session: err = %v, want PreconditionError", err)
	}
}

func TestRejectReopensSession(t *testing.T) {
	s := testSession(t, pendingItem("a", "MIT"))
	acceptAll(t, s)
	if err := s.SubmitForApproval("alice", ""); err != nil {
		t.Fatalf("submit: %v", err)
	}

	err := s.DecideApproval(ApprovalRequest{ApproverID: "bob", Decision: models.DecisionReject, Comment: "redo"})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if s.Status != models.SessionInProgress && s.Status != models.SessionCompleted {
		t.Errorf("status = %s, want the session reopened", s.Status)
	}
	if s.SubmitterID != "" || s.Approval != nil {
		t.Error("rejection must clear submission state")
	}

	// items stay editable
	if err := s.Decide("a", Decision{Action: ActionReject}); err != nil {
		t.Errorf("decide after rejection: %v", err)
	}
}

func TestReturnReopensNamedItems(t *testing.T) {
	s := testSession(t, pendingItem("a", "MIT"), pendingItem("b", "Apache-2.0"))
	acceptAll(t, s)
	if err := s.SubmitForApproval("alice", ""); err != nil {
		t.Fatalf("submit: %v", err)
	}

	err := s.DecideApproval(ApprovalRequest{
		ApproverID:    "bob",
		Decision:      models.DecisionReturn,
		ReturnReason:  "b needs a second look",
		RevisionItems: []string{"b"},
	})
	if err != nil {
		t.Fatalf("return: %v", err)
	}

	if s.ReturnReason == "" || len(s.RevisionItems) != 1 {
		t.Errorf("return metadata missing: reason=%q items=%v", s.ReturnReason, s.RevisionItems)
	}

	a, _ := s.Item("a")
	b, _ := s.Item("b")
	if a.Status != models.ItemAccepted {
		t.Errorf("item a = %s, want ACCEPTED untouched", a.Status)
	}
	if b.Status != models.ItemPending || b.CuratedLicense != "" {
		t.Errorf("item b = %s/%q, want PENDING with license cleared", b.Status, b.CuratedLicense)
	}
}

func TestApprovalRequiresSubmission(t *testing.T) {
	s := testSession(t, pendingItem("a", "MIT"))
	err := s.DecideApproval(ApprovalRequest{ApproverID: "bob", Decision: models.DecisionApprove})
	if !cerr.IsPrecondition(err) {
		t.Fatalf("err = %v, want PreconditionError", err)
	}
}

func TestAuditTrailCoversWorkflow(t *testing.T) {
	s := testSession(t, pendingItem("a", "MIT"))
	acceptAll(t, s)
	if err := s.SubmitForApproval("alice", "done"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := s.DecideApproval(ApprovalRequest{ApproverID: "bob", Decision: models.DecisionApprove}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	var actions []string
	for _, e := range s.AuditTrail() {
		actions = append(actions, e.Action)
	}
	want := []string{"session.created", "item.accepted", "session.submitted", "session.approved"}
	if len(actions) != len(want) {
		t.Fatalf("trail = %v, want %v", actions, want)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Errorf("trail[%d] = %s, want %s", i, actions[i], want[i])
		}
	}
}

func TestDecideBulkPartialFailure(t *testing.T) {
	s := testSession(t, pendingItem("a", "MIT"), pendingItem("b", "Apache-2.0"))

	res, err := s.DecideBulk([]string{"a", "missing", "b"}, Decision{Action: ActionAccept, CuratorID: "alice"})
	if err != nil {
		t.Fatalf("bulk: %v", err)
	}
	if res.Requested != 3 || res.Succeeded != 2 || res.Failed != 1 {
		t.Fatalf("result = %+v, want 2 succeeded, 1 failed", res)
	}

	for _, o := range res.Outcomes {
		if o.DependencyID == "missing" {
			if o.OK || o.Error == "" {
				t.Errorf("unknown id must fail with an error, got %+v", o)
			}
		} else if !o.OK {
			t.Errorf("%s should have succeeded: %s", o.DependencyID, o.Error)
		}
	}

	if got := s.Stats(); got.Accepted != 2 {
		t.Errorf("accepted = %d, want 2", got.Accepted)
	}
}

func TestRestoreSession(t *testing.T) {
	s := testSession(t, pendingItem("a", "MIT"))
	acceptAll(t, s)

	restored := Restore(&Session{
		ID:       s.ID,
		ScanID:   s.ScanID,
		Status:   s.Status,
		Items:    s.Items,
		AuditLog: s.AuditLog,
	})
	if restored.trail.Len() != len(s.AuditLog) {
		t.Errorf("restored trail len = %d, want %d", restored.trail.Len(), len(s.AuditLog))
	}
	if err := restored.Decide("a", Decision{Action: ActionReject}); err != nil {
		t.Errorf("restored session must accept decisions: %v", err)
	}
}
