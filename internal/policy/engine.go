// Package policy provides the rule evaluation engine, the compliance
// gate and built-in presets.
package policy

import (
	"fmt"
	"strings"
	"time"

	"github.com/licensegate/licensegate/internal/license"
	"github.com/licensegate/licensegate/internal/models"
)

// Evaluate runs every enabled rule against every dependency and produces
// the policy report. Read-only and deterministic: identical inputs yield
// identical violation order (dependency order, then rule declaration order)
// and counts. Rule evaluation does not short-circuit; one dependency can
// accumulate violations from several rules.
func Evaluate(deps []models.Dependency, config *models.PolicyConfig) *models.PolicyReport {
	report := &models.PolicyReport{
		PolicyID:      config.ID,
		PolicyName:    config.Name,
		PolicyVersion: config.Version,
		Timestamp:     time.Now().UTC(),
		Violations:    []models.Violation{},
		Exemptions:    []models.ExemptedDependency{},
		Categories:    map[string]int{},
	}

	for i := range deps {
		dep := &deps[i]
		effective := dep.EffectiveLicense()
		report.Categories[string(license.Categorize(effective))]++

		// Exemptions win over rules; an exempted dependency is recorded and skipped
		if ex, matched := matchExemption(config.Exemptions, dep.ID); matched {
			report.Exemptions = append(report.Exemptions, models.ExemptedDependency{
				DependencyID: dep.ID,
				Pattern:      ex.Pattern,
				Reason:       ex.Reason,
			})
			continue
		}

		for j := range config.Rules {
			rule := &config.Rules[j]
			if !rule.Enabled {
				continue
			}
			if !ruleMatches(rule, dep, effective, config) {
				continue
			}
			report.Violations = append(report.Violations, buildViolation(rule, dep, effective))
		}
	}

	for _, v := range report.Violations {
		switch v.Severity {
		case models.SeverityError:
			report.ErrorCount++
		case models.SeverityWarning:
			report.WarningCount++
		case models.SeverityInfo:
			report.InfoCount++
		}
	}

	report.Passed = (report.ErrorCount == 0 || !config.Settings.FailOnErrors) &&
		(report.WarningCount == 0 || !config.Settings.FailOnWarnings)

	return report
}

// ruleMatches checks scope filter, then license predicate (category or explicit id)
func ruleMatches(rule *models.Rule, dep *models.Dependency, effective string, config *models.PolicyConfig) bool {
	if rule.Scope != "" && !strings.EqualFold(rule.Scope, dep.Scope) {
		return false
	}

	if rule.Category != "" && categoryMatches(rule.Category, effective, config) {
		return true
	}
	for _, id := range rule.Licenses {
		if strings.EqualFold(id, effective) {
			return true
		}
	}
	return false
}

// categoryMatches resolves the rule's category against policy-defined
// category sets first, then the built-in categorizer.
func categoryMatches(category, effective string, config *models.PolicyConfig) bool {
	if set, ok := config.Categories[category]; ok {
		for _, id := range set.Licenses {
			if strings.EqualFold(id, effective) {
				return true
			}
		}
		return false
	}
	return strings.EqualFold(category, string(license.Categorize(effective)))
}

// buildViolation for one matched rule
func buildViolation(rule *models.Rule, dep *models.Dependency, effective string) models.Violation {
	msg := rule.Message
	if msg == "" {
		msg = fmt.Sprintf("Dependency %s uses license %q which matches rule %q", dep.ID, effective, rule.Name)
	}

	v := models.Violation{
		RuleID:       rule.ID,
		RuleName:     rule.Name,
		Severity:     rule.Severity,
		Action:       rule.Action,
		DependencyID: dep.ID,
		License:      effective,
		Message:      msg,
	}

	if dep.AISuggestion != nil && dep.AISuggestion.License != "" && !strings.EqualFold(dep.AISuggestion.License, effective) {
		v.SuggestedFix = fmt.Sprintf("AI suggests %s (confidence %s): %s",
			dep.AISuggestion.License, dep.AISuggestion.Confidence, dep.AISuggestion.Reasoning)
	}

	return v
}
