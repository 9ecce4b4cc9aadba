package cli

import (
	"strings"
	"testing"

	"github.com/licensegate/licensegate/internal/differ"
	"github.com/licensegate/licensegate/internal/models"
)

func TestFormatReportText_Passed(t *testing.T) {
	report := &models.PolicyReport{
		PolicyName: "Baseline License Policy",
		Passed:     true,
		Categories: map[string]int{"PERMISSIVE": 3},
		Violations: []models.Violation{},
	}

	out := formatReportText(report)
	if !strings.Contains(out, "No violations.") {
		t.Errorf("output missing clean-report line:\n%s", out)
	}
	if !strings.Contains(out, "PASSED") {
		t.Errorf("output missing verdict:\n%s", out)
	}
	if !strings.Contains(out, "PERMISSIVE") {
		t.Errorf("output missing category distribution:\n%s", out)
	}
}

func TestFormatReportText_Violations(t *testing.T) {
	report := &models.PolicyReport{
		PolicyName: "Strict License Policy",
		Passed:     false,
		ErrorCount: 1,
		Violations: []models.Violation{
			{
				RuleID:       "no-copyleft",
				Severity:     models.SeverityError,
				DependencyID: "npm:left-pad",
				Message:      "copyleft license in runtime scope",
				SuggestedFix: "AI suggests MIT (confidence HIGH): README mentions MIT",
			},
		},
		GateResults: []models.GateResult{
			{Name: "no-errors", Passed: false, Message: "errors present"},
		},
	}

	out := formatReportText(report)
	for _, want := range []string{"no-copyleft", "npm:left-pad", "FAILED", "fix:", `Gate "no-errors"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDiffText(t *testing.T) {
	added := models.Dependency{ID: "npm:b", DeclaredLicenses: []string{"MIT"}}
	res := &differ.Result{
		Added:     []differ.Change{{Type: differ.ChangeAdded, DependencyID: "npm:b", Current: &added}},
		Updated:   []differ.Change{{Type: differ.ChangeUpdated, DependencyID: "npm:a", Notes: []string{"Version changed to 2.0.0."}}},
		Unchanged: 4,
	}

	out := formatDiffText(res)
	for _, want := range []string{"npm:b", "npm:a", "Version changed to 2.0.0.", "1 added, 1 updated, 0 removed, 4 unchanged"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDiffText_NoChanges(t *testing.T) {
	out := formatDiffText(&differ.Result{Unchanged: 7})
	if !strings.Contains(out, "No changes.") {
		t.Errorf("output = %q", out)
	}
}

func TestResolvePolicy(t *testing.T) {
	if _, _, err := resolvePolicy("policy.yaml", "baseline"); err == nil {
		t.Error("both --policy and --preset must be rejected")
	}

	config, name, err := resolvePolicy("", "")
	if err != nil {
		t.Fatalf("default resolution failed: %v", err)
	}
	if name != "baseline" || config == nil {
		t.Errorf("default = %q, want baseline preset", name)
	}

	if _, _, err := resolvePolicy("", "nope"); err == nil {
		t.Error("unknown preset must be rejected")
	}
}

func TestApplyFailOn(t *testing.T) {
	base, _, err := resolvePolicy("", "baseline")
	if err != nil {
		t.Fatalf("preset load failed: %v", err)
	}

	same, err := applyFailOn(base, "")
	if err != nil || same != base {
		t.Errorf("empty override must return the config untouched")
	}

	strictened, err := applyFailOn(base, "warning")
	if err != nil {
		t.Fatalf("override failed: %v", err)
	}
	if !strictened.Settings.FailOnWarnings {
		t.Error("warning override must fail on warnings")
	}
	if base.Settings.FailOnWarnings {
		t.Error("override must not mutate the cached preset")
	}

	if _, err := applyFailOn(base, "nope"); err == nil {
		t.Error("invalid value must be rejected")
	}
}
