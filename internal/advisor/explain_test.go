package advisor

import (
	"testing"

	"github.com/licensegate/licensegate/internal/models"
)

func TestExplainNetworkCopyleft(t *testing.T) {
	v := &models.Violation{
		RuleID:       "deny-agpl",
		RuleName:     "No AGPL",
		Severity:     models.SeverityError,
		Action:       models.ActionDeny,
		DependencyID: "npm:service-core",
		License:      "AGPL-3.0-only",
	}
	deps := []models.Dependency{
		{ID: "npm:service-core", ConcludedLicense: "AGPL-3.0-only"},
		{ID: "npm:utils", ConcludedLicense: "MIT"},
		{ID: "npm:mystery"},
	}

	exp := Explain(v, deps)

	if len(exp.WhyNot) != 1 {
		t.Fatalf("whyNot = %+v, want exactly one entry", exp.WhyNot)
	}
	if exp.WhyNot[0].Cause != models.CauseCopyleftRisk {
		t.Errorf("cause = %s, want COPYLEFT_RISK", exp.WhyNot[0].Cause)
	}
	if exp.WhyNot[0].RiskLevel != 6 {
		t.Errorf("riskLevel = %d, want 6 for network copyleft", exp.WhyNot[0].RiskLevel)
	}

	// MIT pairing is CONDITIONAL (copyleft side dominates), mystery is UNKNOWN
	if len(exp.Compatibility) != 2 {
		t.Fatalf("compatibility = %+v, want 2 issues", exp.Compatibility)
	}
	for _, c := range exp.Compatibility {
		if c.DependencyID == "npm:mystery" && c.Result != models.CompatUnknown {
			t.Errorf("mystery compat = %s, want UNKNOWN", c.Result)
		}
	}

	// obligations must include network disclosure
	found := false
	for _, o := range exp.Obligations {
		if o.Name == "network_disclosure" {
			found = true
		}
	}
	if !found {
		t.Error("AGPL explanation missing network_disclosure obligation")
	}
}

func TestExplainUnknownLicense(t *testing.T) {
	v := &models.Violation{
		DependencyID: "npm:mystery",
		License:      "NOASSERTION",
	}

	exp := Explain(v, nil)
	if exp.WhyNot[0].Cause != models.CauseUnknownLicense {
		t.Errorf("cause = %s, want UNKNOWN_LICENSE", exp.WhyNot[0].Cause)
	}

	v.License = "Custom-Homegrown-1.0"
	exp = Explain(v, nil)
	if exp.WhyNot[0].Cause != models.CauseLicenseExpression {
		t.Errorf("cause = %s, want LICENSE_EXPRESSION for unmatched id", exp.WhyNot[0].Cause)
	}
}

func TestResolutionsRankedByEffort(t *testing.T) {
	v := &models.Violation{
		DependencyID: "maven:acme:core",
		License:      "GPL-3.0-only",
	}

	exp := Explain(v, nil)
	if len(exp.Resolutions) == 0 {
		t.Fatal("expected resolutions")
	}

	recommended := 0
	lastRank := -1
	rank := map[models.Effort]int{models.EffortLow: 0, models.EffortMedium: 1, models.EffortHigh: 2}
	for _, r := range exp.Resolutions {
		if r.Recommended {
			recommended++
		}
		if rank[r.Effort] < lastRank {
			t.Errorf("resolutions not sorted by effort: %+v", exp.Resolutions)
		}
		lastRank = rank[r.Effort]
	}
	if recommended != 1 {
		t.Errorf("recommended count = %d, want exactly 1", recommended)
	}
	if !exp.Resolutions[0].Recommended {
		t.Error("the lowest-effort resolution should be the recommended one")
	}
}

func TestExplainIsAdvisoryOnly(t *testing.T) {
	v := &models.Violation{
		Severity:     models.SeverityError,
		Action:       models.ActionDeny,
		DependencyID: "a",
		License:      "GPL-3.0-only",
	}

	Explain(v, nil)

	if v.Severity != models.SeverityError || v.Action != models.ActionDeny {
		t.Error("Explain must not mutate the violation's severity or action")
	}
}
