package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/licensegate/licensegate/internal/curation"
	"github.com/licensegate/licensegate/internal/differ"
	"github.com/licensegate/licensegate/internal/models"
)

// ANSI modifiers for text output
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
)

func formatJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format JSON output: %w", err)
	}
	return string(data), nil
}

func formatReportText(report *models.PolicyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%sPolicy:%s %s\n", colorBold, colorReset, report.PolicyName)

	if len(report.Categories) > 0 {
		names := make([]string, 0, len(report.Categories))
		for name := range report.Categories {
			names = append(names, name)
		}
		sort.Strings(names)
		b.WriteString("Categories:\n")
		for _, name := range names {
			fmt.Fprintf(&b, "  %-20s %d\n", name, report.Categories[name])
		}
	}

	if len(report.Exemptions) > 0 {
		fmt.Fprintf(&b, "Exempted: %d dependency(ies)\n", len(report.Exemptions))
	}

	if len(report.Violations) == 0 {
		fmt.Fprintf(&b, "%sNo violations.%s\n", colorGreen, colorReset)
	} else {
		fmt.Fprintf(&b, "\nViolations (%d error, %d warning, %d info):\n",
			report.ErrorCount, report.WarningCount, report.InfoCount)
		for _, v := range report.Violations {
			fmt.Fprintf(&b, "  %s [%s] %s: %s\n", severityBadge(v.Severity), v.RuleID, v.DependencyID, v.Message)
			if v.SuggestedFix != "" {
				fmt.Fprintf(&b, "      fix: %s\n", v.SuggestedFix)
			}
			if v.Explanation != nil {
				writeExplanationText(&b, v.Explanation)
			}
		}
	}

	for _, g := range report.GateResults {
		if g.Passed {
			fmt.Fprintf(&b, "Gate %q: %spassed%s\n", g.Name, colorGreen, colorReset)
		} else {
			fmt.Fprintf(&b, "Gate %q: %sfailed%s - %s\n", g.Name, colorRed, colorReset, g.Message)
		}
	}

	if report.Passed {
		fmt.Fprintf(&b, "\n%s%sPASSED%s\n", colorBold, colorGreen, colorReset)
	} else {
		fmt.Fprintf(&b, "\n%s%sFAILED%s\n", colorBold, colorRed, colorReset)
	}

	return b.String()
}

func severityBadge(s models.Severity) string {
	switch s {
	case models.SeverityError:
		return colorRed + "ERROR" + colorReset
	case models.SeverityWarning:
		return colorYellow + "WARN " + colorReset
	default:
		return "INFO "
	}
}

func writeExplanationText(b *strings.Builder, e *models.Explanation) {
	for _, w := range e.WhyNot {
		fmt.Fprintf(b, "      why: [%s risk %d/6] %s\n", w.Cause, w.RiskLevel, w.Explanation)
	}
	for _, o := range e.Obligations {
		fmt.Fprintf(b, "      obligation: %s (%s effort) - %s\n", o.Name, o.Effort, o.Description)
	}
	for _, c := range e.Compatibility {
		fmt.Fprintf(b, "      compat: %s (%s) -> %s\n", c.DependencyID, c.License, c.Result)
	}
	for _, r := range e.Resolutions {
		marker := " "
		if r.Recommended {
			marker = "*"
		}
		fmt.Fprintf(b, "      %s %s (%s effort)\n", marker, r.Kind, r.Effort)
		for _, step := range r.Steps {
			fmt.Fprintf(b, "          - %s\n", step)
		}
	}
}

func formatSessionText(s *curation.Session) string {
	var b strings.Builder
	stats := s.Stats()

	fmt.Fprintf(&b, "%sSession:%s %s (scan %s) - %s\n", colorBold, colorReset, s.ID, s.ScanID, s.Status)
	fmt.Fprintf(&b, "Items: %d total, %d pending, %d accepted, %d rejected, %d modified\n",
		stats.Total, stats.Pending, stats.Accepted, stats.Rejected, stats.Modified)

	r := s.ComputeReadiness()
	if r.IsReady {
		fmt.Fprintf(&b, "%sReady for approval.%s\n", colorGreen, colorReset)
		return b.String()
	}
	for _, blocker := range r.Blockers {
		fmt.Fprintf(&b, "  %sblocked%s %s (%d): %s\n", colorYellow, colorReset,
			blocker.Type, blocker.Count, strings.Join(blocker.ItemIDs, ", "))
	}
	return b.String()
}

func formatDiffText(res *differ.Result) string {
	var b strings.Builder

	if !res.HasChanges() {
		fmt.Fprintf(&b, "%sNo changes.%s %d dependency(ies) unchanged.\n", colorGreen, colorReset, res.Unchanged)
		return b.String()
	}

	fmt.Fprintf(&b, "%sChanges:%s %d added, %d updated, %d removed, %d unchanged\n",
		colorBold, colorReset, len(res.Added), len(res.Updated), len(res.Removed), res.Unchanged)

	for _, c := range res.Added {
		fmt.Fprintf(&b, "  %s+%s %s (%s)\n", colorGreen, colorReset, c.DependencyID, c.Current.EffectiveLicense())
	}
	for _, c := range res.Updated {
		fmt.Fprintf(&b, "  %s~%s %s\n", colorYellow, colorReset, c.DependencyID)
		for _, note := range c.Notes {
			fmt.Fprintf(&b, "      %s\n", note)
		}
	}
	for _, c := range res.Removed {
		fmt.Fprintf(&b, "  %s-%s %s\n", colorRed, colorReset, c.DependencyID)
	}

	return b.String()
}
