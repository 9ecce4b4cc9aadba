package policy

import (
	"reflect"
	"testing"

	"github.com/licensegate/licensegate/internal/models"
)

func strongCopyleftPolicy() *models.PolicyConfig {
	return &models.PolicyConfig{
		ID:      "test",
		Name:    "Test Policy",
		Version: "1.0",
		Settings: models.Settings{
			FailOnErrors: true,
		},
		Rules: []models.Rule{
			{
				ID:       "deny-strong-copyleft",
				Name:     "No strong copyleft",
				Severity: models.SeverityError,
				Action:   models.ActionDeny,
				Enabled:  true,
				Category: "STRONG_COPYLEFT",
			},
		},
	}
}

func TestEvaluateStrongCopyleftScenario(t *testing.T) {
	deps := []models.Dependency{
		{ID: "maven:acme:core", Name: "core", Version: "1.0", ConcludedLicense: "GPL-3.0-only"},
	}

	report := Evaluate(deps, strongCopyleftPolicy())

	if len(report.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(report.Violations))
	}
	if report.Violations[0].Severity != models.SeverityError {
		t.Errorf("severity = %s, want ERROR", report.Violations[0].Severity)
	}
	if report.ErrorCount != 1 {
		t.Errorf("errorCount = %d, want 1", report.ErrorCount)
	}
	if report.Passed {
		t.Error("report should not pass with failOnErrors and one error")
	}
}

func TestEvaluatePassedInvariant(t *testing.T) {
	config := strongCopyleftPolicy()
	deps := []models.Dependency{
		{ID: "npm:left-pad", ConcludedLicense: "GPL-3.0-only"},
	}

	// failOnErrors=false: errors present but report passes
	config.Settings.FailOnErrors = false
	report := Evaluate(deps, config)
	if !report.Passed {
		t.Error("report should pass when failOnErrors is false")
	}
	if report.ErrorCount != 1 {
		t.Errorf("errorCount = %d, want 1", report.ErrorCount)
	}

	// failOnErrors=true: passed implies no ERROR violations
	config.Settings.FailOnErrors = true
	report = Evaluate(deps, config)
	if report.Passed {
		for _, v := range report.Violations {
			if v.Severity == models.SeverityError {
				t.Fatal("passed report must not contain ERROR violations when failOnErrors is set")
			}
		}
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	config := &models.PolicyConfig{
		ID:       "det",
		Settings: models.Settings{FailOnErrors: true},
		Rules: []models.Rule{
			{ID: "r1", Name: "copyleft", Severity: models.SeverityError, Action: models.ActionDeny, Enabled: true, Category: "STRONG_COPYLEFT"},
			{ID: "r2", Name: "explicit-gpl3", Severity: models.SeverityWarning, Action: models.ActionReview, Enabled: true, Licenses: []string{"GPL-3.0-only"}},
			{ID: "r3", Name: "unknown", Severity: models.SeverityInfo, Action: models.ActionReview, Enabled: true, Category: "UNKNOWN"},
		},
	}
	deps := []models.Dependency{
		{ID: "a", ConcludedLicense: "GPL-3.0-only"},
		{ID: "b"},
		{ID: "c", ConcludedLicense: "MIT"},
	}

	first := Evaluate(deps, config)
	for i := 0; i < 10; i++ {
		again := Evaluate(deps, config)
		if !reflect.DeepEqual(violationKeys(first), violationKeys(again)) {
			t.Fatal("violation order changed between identical evaluations")
		}
	}

	// dependency order then rule declaration order
	want := []string{"a/r1", "a/r2", "b/r3"}
	if got := violationKeys(first); !reflect.DeepEqual(got, want) {
		t.Errorf("violation order = %v, want %v", got, want)
	}
}

func violationKeys(r *models.PolicyReport) []string {
	keys := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		keys = append(keys, v.DependencyID+"/"+v.RuleID)
	}
	return keys
}

func TestEvaluateNoShortCircuit(t *testing.T) {
	config := &models.PolicyConfig{
		Settings: models.Settings{FailOnErrors: true},
		Rules: []models.Rule{
			{ID: "r1", Severity: models.SeverityError, Action: models.ActionDeny, Enabled: true, Category: "STRONG_COPYLEFT"},
			{ID: "r2", Severity: models.SeverityWarning, Action: models.ActionReview, Enabled: true, Licenses: []string{"GPL-2.0-only"}},
		},
	}
	deps := []models.Dependency{{ID: "x", ConcludedLicense: "GPL-2.0-only"}}

	report := Evaluate(deps, config)
	if len(report.Violations) != 2 {
		t.Fatalf("expected 2 violations from 2 rules, got %d", len(report.Violations))
	}
}

func TestEvaluateExemption(t *testing.T) {
	config := strongCopyleftPolicy()
	config.Exemptions = []models.Exemption{
		{Pattern: "npm:legacy-*", Reason: "grandfathered", Approver: "legal"},
	}
	deps := []models.Dependency{
		{ID: "npm:legacy-tool", ConcludedLicense: "GPL-3.0-only"},
		{ID: "npm:new-tool", ConcludedLicense: "GPL-3.0-only"},
	}

	report := Evaluate(deps, config)

	if len(report.Exemptions) != 1 || report.Exemptions[0].DependencyID != "npm:legacy-tool" {
		t.Fatalf("exemptions = %+v, want npm:legacy-tool only", report.Exemptions)
	}
	if len(report.Violations) != 1 || report.Violations[0].DependencyID != "npm:new-tool" {
		t.Fatalf("violations = %+v, want npm:new-tool only", report.Violations)
	}
}

func TestEvaluateScopeFilter(t *testing.T) {
	config := strongCopyleftPolicy()
	config.Rules[0].Scope = "runtime"
	deps := []models.Dependency{
		{ID: "a", Scope: "test", ConcludedLicense: "GPL-3.0-only"},
		{ID: "b", Scope: "runtime", ConcludedLicense: "GPL-3.0-only"},
	}

	report := Evaluate(deps, config)
	if len(report.Violations) != 1 || report.Violations[0].DependencyID != "b" {
		t.Fatalf("violations = %+v, want only runtime-scoped dependency", report.Violations)
	}
}

func TestEvaluateDisabledRule(t *testing.T) {
	config := strongCopyleftPolicy()
	config.Rules[0].Enabled = false
	deps := []models.Dependency{{ID: "a", ConcludedLicense: "GPL-3.0-only"}}

	report := Evaluate(deps, config)
	if len(report.Violations) != 0 {
		t.Fatalf("disabled rule produced violations: %+v", report.Violations)
	}
	if !report.Passed {
		t.Error("report with no violations should pass")
	}
}

func TestEvaluateEffectivePrecedence(t *testing.T) {
	config := &models.PolicyConfig{
		Settings: models.Settings{FailOnErrors: true},
		Rules: []models.Rule{
			{ID: "r", Severity: models.SeverityError, Action: models.ActionDeny, Enabled: true, Licenses: []string{"GPL-3.0-only"}},
		},
	}

	// declared GPL but concluded MIT: concluded wins, no violation
	deps := []models.Dependency{
		{ID: "a", DeclaredLicenses: []string{"GPL-3.0-only"}, ConcludedLicense: "MIT"},
	}
	if report := Evaluate(deps, config); len(report.Violations) != 0 {
		t.Fatal("concluded license should take precedence over declared")
	}

	// detected only
	deps = []models.Dependency{
		{ID: "b", DetectedLicenses: []string{"GPL-3.0-only"}},
	}
	if report := Evaluate(deps, config); len(report.Violations) != 1 {
		t.Fatal("detected license should be used when nothing else is set")
	}
}

func TestEvaluateCategoryDistribution(t *testing.T) {
	config := strongCopyleftPolicy()
	deps := []models.Dependency{
		{ID: "a", ConcludedLicense: "MIT"},
		{ID: "b", ConcludedLicense: "Apache-2.0"},
		{ID: "c", ConcludedLicense: "GPL-3.0-only"},
		{ID: "d"},
	}

	report := Evaluate(deps, config)
	if report.Categories["PERMISSIVE"] != 2 {
		t.Errorf("PERMISSIVE = %d, want 2", report.Categories["PERMISSIVE"])
	}
	if report.Categories["STRONG_COPYLEFT"] != 1 {
		t.Errorf("STRONG_COPYLEFT = %d, want 1", report.Categories["STRONG_COPYLEFT"])
	}
	if report.Categories["UNKNOWN"] != 1 {
		t.Errorf("UNKNOWN = %d, want 1", report.Categories["UNKNOWN"])
	}
}

func TestEvaluatePolicyCategorySet(t *testing.T) {
	config := &models.PolicyConfig{
		Settings: models.Settings{FailOnErrors: true},
		Categories: map[string]models.CategorySet{
			"BANNED": {Licenses: []string{"BUSL-1.1", "Elastic-2.0"}},
		},
		Rules: []models.Rule{
			{ID: "banned", Severity: models.SeverityError, Action: models.ActionDeny, Enabled: true, Category: "BANNED"},
		},
	}
	deps := []models.Dependency{
		{ID: "a", ConcludedLicense: "BUSL-1.1"},
		{ID: "b", ConcludedLicense: "MIT"},
	}

	report := Evaluate(deps, config)
	if len(report.Violations) != 1 || report.Violations[0].DependencyID != "a" {
		t.Fatalf("violations = %+v, want only the BUSL dependency", report.Violations)
	}
}
