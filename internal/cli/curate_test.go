package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/licensegate/licensegate/internal/curation"
	"github.com/licensegate/licensegate/internal/models"
	"github.com/licensegate/licensegate/internal/store"
)

func cliTestSession(t *testing.T) *curation.Session {
	t.Helper()
	items := curation.BuildItems([]models.Dependency{
		{ID: "npm:a", Name: "a", DeclaredLicenses: []string{"MIT"}},
		{ID: "npm:b", Name: "b", DeclaredLicenses: []string{"GPL-3.0"}},
	}, nil)
	return curation.NewSession("sess-1", "scan-1", "alice", items)
}

func TestSessionFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	session := cliTestSession(t)

	if err := session.Decide("npm:a", curation.Decision{Action: curation.ActionAccept, CuratorID: "alice"}); err != nil {
		t.Fatalf("decide: %v", err)
	}
	if err := store.NewManager().SaveSession(session, path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := loadSession(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ID != "sess-1" || loaded.Status != models.SessionInProgress {
		t.Errorf("loaded %s/%s, want sess-1/IN_PROGRESS", loaded.ID, loaded.Status)
	}
	item, err := loaded.Item("npm:a")
	if err != nil || item.Status != models.ItemAccepted {
		t.Errorf("decision lost across the round trip: %v %+v", err, item)
	}

	// the rehydrated session stays workable and keeps its audit trail
	if err := loaded.Decide("npm:b", curation.Decision{Action: curation.ActionReject, CuratorID: "alice"}); err != nil {
		t.Fatalf("decide after load: %v", err)
	}
	if len(loaded.AuditTrail()) < 3 {
		t.Errorf("audit trail = %d entries, want the persisted history plus the new decision", len(loaded.AuditTrail()))
	}
}

func TestCurationSummary(t *testing.T) {
	session := cliTestSession(t)
	if err := session.Decide("npm:a", curation.Decision{Action: curation.ActionAccept}); err != nil {
		t.Fatalf("decide: %v", err)
	}

	got := curationSummary(session)
	if got.SessionID != "sess-1" || got.Status != "IN_PROGRESS" {
		t.Errorf("summary = %+v", got)
	}
	if got.Pending != 1 || got.Accepted != 1 {
		t.Errorf("counts = %+v, want 1 pending, 1 accepted", got)
	}
}

func TestFormatSessionText(t *testing.T) {
	session := cliTestSession(t)

	out := formatSessionText(session)
	for _, want := range []string{"sess-1", "2 pending", "PENDING_ITEMS", "npm:b"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if err := session.Decide("npm:a", curation.Decision{Action: curation.ActionAccept}); err != nil {
		t.Fatalf("decide: %v", err)
	}
	if err := session.Decide("npm:b", curation.Decision{Action: curation.ActionReject}); err != nil {
		t.Fatalf("decide: %v", err)
	}
	if !strings.Contains(formatSessionText(session), "Ready for approval.") {
		t.Errorf("ready session not reported:\n%s", formatSessionText(session))
	}
}
