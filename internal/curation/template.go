package curation

import (
	"regexp"
	"strings"
	"time"

	"github.com/licensegate/licensegate/internal/cerr"
	"github.com/licensegate/licensegate/internal/models"
)

// TemplateMatch is one item a template would touch
type TemplateMatch struct {
	DependencyID string `json:"dependencyId"`
	Applied      bool   `json:"applied"`
}

// TemplateResult of a (dry-run or real) template application
type TemplateResult struct {
	TemplateID string          `json:"templateId"`
	DryRun     bool            `json:"dryRun"`
	Matched    []TemplateMatch `json:"matched"`
	AppliedN   int             `json:"applied"`
}

// ValidateTemplate checks conditions and actions before first use
func ValidateTemplate(tpl *models.Template) error {
	if tpl.ID == "" {
		return cerr.Validationf("template is missing an id")
	}
	if len(tpl.Actions) == 0 {
		return cerr.Validationf("template %s has no actions", tpl.ID)
	}
	for _, c := range tpl.Conditions {
		if err := validateCondition(c); err != nil {
			return err
		}
	}
	for _, a := range tpl.Actions {
		if err := validateAction(a); err != nil {
			return err
		}
	}
	return nil
}

func validateCondition(c models.Condition) error {
	if _, ok := fieldResolvers[c.Field]; !ok {
		return cerr.Validationf("unknown condition field: %q", c.Field)
	}
	switch c.Operator {
	case models.OpEquals, models.OpNotEquals, models.OpContains,
		models.OpStartsWith, models.OpEndsWith:
		if c.Value == "" {
			return cerr.Validationf("condition on %q requires a value", c.Field)
		}
	case models.OpMatches:
		if _, err := regexp.Compile(c.Value); err != nil {
			return cerr.Validationf("invalid pattern for %q: %v", c.Field, err)
		}
	case models.OpIsEmpty, models.OpIsNotEmpty:
		// value ignored
	default:
		return cerr.Validationf("unknown condition operator: %q", c.Operator)
	}
	return nil
}

func validateAction(a models.TemplateAction) error {
	switch a.Kind {
	case models.TemplateSetStatus:
		switch models.ItemStatus(a.Value) {
		case models.ItemAccepted, models.ItemRejected, models.ItemModified:
			return nil
		}
		return cerr.Validationf("SET_STATUS value must be ACCEPTED, REJECTED or MODIFIED, got %q", a.Value)
	case models.TemplateSetLicense, models.TemplateAddComment:
		if a.Value == "" {
			return cerr.Validationf("%s requires a value", a.Kind)
		}
		return nil
	case models.TemplateSetPriority:
		switch models.PriorityLevel(a.Value) {
		case models.PriorityCritical, models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
			return nil
		}
		return cerr.Validationf("SET_PRIORITY value must be a priority level, got %q", a.Value)
	}
	return cerr.Validationf("unknown template action: %q", a.Kind)
}

// fieldResolvers maps condition field names onto item values
var fieldResolvers = map[string]func(*models.CurationItem) string{
	"dependencyId":    func(i *models.CurationItem) string { return i.DependencyID },
	"dependencyName":  func(i *models.CurationItem) string { return i.DependencyName },
	"scope":           func(i *models.CurationItem) string { return i.Scope },
	"status":          func(i *models.CurationItem) string { return string(i.Status) },
	"originalLicense": func(i *models.CurationItem) string { return i.OriginalLicense },
	"curatedLicense":  func(i *models.CurationItem) string { return i.CuratedLicense },
	"effectiveLicense": func(i *models.CurationItem) string {
		return itemEffectiveLicense(i)
	},
	"aiSuggestedLicense": func(i *models.CurationItem) string {
		if i.AISuggestion == nil {
			return ""
		}
		return i.AISuggestion.License
	},
	"aiConfidence": func(i *models.CurationItem) string {
		if i.AISuggestion == nil {
			return ""
		}
		return string(i.AISuggestion.Confidence)
	},
	"priority": func(i *models.CurationItem) string { return string(i.Priority.Level) },
}

// matchesCondition evaluates one condition against one item.
// EQUALS and NOT_EQUALS compare case-sensitively; the substring
// operators fold case.
func matchesCondition(item *models.CurationItem, c models.Condition) bool {
	resolve, ok := fieldResolvers[c.Field]
	if !ok {
		return false
	}
	got := resolve(item)

	switch c.Operator {
	case models.OpEquals:
		return got == c.Value
	case models.OpNotEquals:
		return got != c.Value
	case models.OpContains:
		return strings.Contains(strings.ToLower(got), strings.ToLower(c.Value))
	case models.OpStartsWith:
		return strings.HasPrefix(strings.ToLower(got), strings.ToLower(c.Value))
	case models.OpEndsWith:
		return strings.HasSuffix(strings.ToLower(got), strings.ToLower(c.Value))
	case models.OpMatches:
		re, err := regexp.Compile(c.Value)
		if err != nil {
			return false
		}
		return re.MatchString(got)
	case models.OpIsEmpty:
		return got == ""
	case models.OpIsNotEmpty:
		return got != ""
	}
	return false
}

// matchesTemplate requires every condition to hold
func matchesTemplate(item *models.CurationItem, tpl *models.Template) bool {
	for _, c := range tpl.Conditions {
		if !matchesCondition(item, c) {
			return false
		}
	}
	return true
}

// runActions applies a template's actions to a staged copy of an item.
// The caller commits or discards the copy.
func runActions(work *models.CurationItem, tpl *models.Template, curatorID string, now time.Time) error {
	for _, a := range tpl.Actions {
		switch a.Kind {
		case models.TemplateSetStatus:
			d := Decision{
				Action:    DecideAction("?"),
				CuratorID: curatorID,
				Comment:   work.Comment,
			}
			switch models.ItemStatus(a.Value) {
			case models.ItemAccepted:
				d.Action = ActionAccept
			case models.ItemRejected:
				d.Action = ActionReject
			case models.ItemModified:
				d.Action = ActionModify
				d.License = work.CuratedLicense
			}
			if err := DecideItem(work, d, now); err != nil {
				return err
			}
		case models.TemplateSetLicense:
			work.CuratedLicense = a.Value
			refreshJustificationFlag(work)
		case models.TemplateAddComment:
			if work.Comment == "" {
				work.Comment = a.Value
			} else {
				work.Comment += "; " + a.Value
			}
		case models.TemplateSetPriority:
			work.Priority.Level = models.PriorityLevel(a.Value)
		default:
			return cerr.Validationf("unknown template action: %q", a.Kind)
		}
	}

	return nil
}

// ApplyTemplate runs a template over the session's items. A dry run
// reports what would match without mutating anything. A real run is a
// single logical transaction: actions are staged on copies of every
// matched item and committed only when all of them succeed, so a
// failure on any item leaves the whole session untouched. The usage
// count moves once per committed run.
func (s *Session) ApplyTemplate(tpl *models.Template, curatorID string, dryRun bool) (*TemplateResult, error) {
	if s.frozen() {
		return nil, cerr.Preconditionf("session %s is approved and can no longer be modified", s.ID)
	}
	if err := ValidateTemplate(tpl); err != nil {
		return nil, err
	}

	result := &TemplateResult{TemplateID: tpl.ID, DryRun: dryRun}

	var matched []int
	for i := range s.Items {
		if !matchesTemplate(&s.Items[i], tpl) {
			continue
		}
		matched = append(matched, i)
		result.Matched = append(result.Matched, TemplateMatch{DependencyID: s.Items[i].DependencyID})
	}

	if dryRun {
		return result, nil
	}

	staged := make([]models.CurationItem, len(matched))
	for k, i := range matched {
		staged[k] = s.Items[i]
		if err := runActions(&staged[k], tpl, curatorID, s.now()); err != nil {
			return nil, cerr.Validationf("template %s failed on %s, no items were modified: %v",
				tpl.ID, s.Items[i].DependencyID, err)
		}
	}

	for k, i := range matched {
		s.Items[i] = staged[k]
		result.Matched[k].Applied = true
	}
	result.AppliedN = len(matched)

	if result.AppliedN > 0 {
		tpl.UsageCount++
		s.record(models.PhaseCuration, "template.applied", curatorID, "curator",
			tpl.Name, "template", tpl.ID)
		s.refreshStatus()
	}

	return result, nil
}
