// Package advisor synthesizes advisory explanations for policy
// violations: why the license was flagged, what it obligates, how it
// relates to the rest of the dependency tree and what a curator can do
// about it. Output never changes a violation's severity or action.
package advisor

import (
	"fmt"

	"github.com/licensegate/licensegate/internal/license"
	"github.com/licensegate/licensegate/internal/models"
)

// Risk scale: 0 = informational, 6 = network-copyleft contamination risk.
const (
	riskInfo            = 0
	riskModerate        = 3
	riskHigh            = 4
	riskStrongCopyleft  = 5
	riskNetworkCopyleft = 6
)

// Explain builds the full advisory bundle for one violation, using the
// other dependencies of the same scan for pairwise compatibility.
func Explain(v *models.Violation, allDeps []models.Dependency) *models.Explanation {
	cat := license.Categorize(v.License)

	exp := &models.Explanation{
		WhyNot:      whyNot(v, cat),
		Obligations: license.Obligations(v.License),
	}

	for i := range allDeps {
		dep := &allDeps[i]
		if dep.ID == v.DependencyID {
			continue
		}
		other := dep.EffectiveLicense()
		result, detail := license.Compatible(v.License, other)
		if result == models.CompatFull {
			continue
		}
		exp.Compatibility = append(exp.Compatibility, models.CompatibilityIssue{
			DependencyID: dep.ID,
			License:      other,
			Result:       result,
			Detail:       detail,
		})
	}

	exp.Resolutions = resolutions(v, cat)

	return exp
}

// whyNot keyed by violation cause
func whyNot(v *models.Violation, cat license.Category) []models.WhyNot {
	switch cat {
	case license.CategoryUnknown:
		cause := models.CauseUnknownLicense
		if v.License != models.NoAssertion && v.License != "" {
			cause = models.CauseUnrecognizedLicense
		}
		return []models.WhyNot{{
			Cause:       cause,
			RiskLevel:   riskHigh,
			Explanation: fmt.Sprintf("No recognizable license for %s; the terms of use are legally undetermined", v.DependencyID),
		}}
	case license.CategoryNetworkCopyleft:
		return []models.WhyNot{{
			Cause:       models.CauseCopyleftRisk,
			RiskLevel:   riskNetworkCopyleft,
			Explanation: fmt.Sprintf("%s triggers source disclosure even for network use; linking it can contaminate the whole service", v.License),
		}}
	case license.CategoryStrongCopyleft:
		return []models.WhyNot{{
			Cause:       models.CauseCopyleftRisk,
			RiskLevel:   riskStrongCopyleft,
			Explanation: fmt.Sprintf("%s requires the combined work to be distributed under the same terms", v.License),
		}}
	case license.CategoryWeakCopyleft:
		return []models.WhyNot{{
			Cause:       models.CauseCopyleftRisk,
			RiskLevel:   riskModerate,
			Explanation: fmt.Sprintf("%s requires disclosure of modifications to the covered files", v.License),
		}}
	case license.CategoryProprietary:
		return []models.WhyNot{{
			Cause:       models.CauseLicenseCategory,
			RiskLevel:   riskHigh,
			Explanation: fmt.Sprintf("%s is proprietary; redistribution requires a commercial agreement", v.License),
		}}
	case license.CategoryOther:
		return []models.WhyNot{{
			Cause:       models.CauseLicenseExpression,
			RiskLevel:   riskModerate,
			Explanation: fmt.Sprintf("%q is outside the known license set and needs manual review", v.License),
		}}
	default:
		return []models.WhyNot{{
			Cause:       models.CauseLicenseCategory,
			RiskLevel:   riskInfo,
			Explanation: fmt.Sprintf("%s matched policy rule %q", v.License, v.RuleName),
		}}
	}
}
