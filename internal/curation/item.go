// Package curation implements the per-item decision state machine and
// the session/approval workflow around it.
package curation

import (
	"time"

	"github.com/licensegate/licensegate/internal/cerr"
	"github.com/licensegate/licensegate/internal/license"
	"github.com/licensegate/licensegate/internal/models"
	"github.com/licensegate/licensegate/internal/priority"
)

// DecideAction on a curation item
type DecideAction string

const (
	ActionAccept DecideAction = "ACCEPT"
	ActionReject DecideAction = "REJECT"
	ActionModify DecideAction = "MODIFY"
)

// ParseDecideAction validates at the edge
func ParseDecideAction(s string) (DecideAction, error) {
	switch DecideAction(s) {
	case ActionAccept, ActionReject, ActionModify:
		return DecideAction(s), nil
	}
	return "", cerr.Validationf("invalid decision action: %q (use ACCEPT, REJECT or MODIFY)", s)
}

// Decision input for one item transition
type Decision struct {
	Action        DecideAction
	License       string // required for MODIFY
	Comment       string
	Justification *models.Justification
	CuratorID     string
}

// DecideItem applies one decision to an item. All states are re-enterable
// until the session is approved. Validation happens before any mutation;
// on error the item is unchanged.
func DecideItem(item *models.CurationItem, d Decision, now time.Time) error {
	curated, err := resolveCuratedLicense(item, d)
	if err != nil {
		return err
	}

	switch d.Action {
	case ActionAccept:
		item.Status = models.ItemAccepted
	case ActionReject:
		item.Status = models.ItemRejected
	case ActionModify:
		item.Status = models.ItemModified
	default:
		return cerr.Validationf("invalid decision action: %q", d.Action)
	}

	item.CuratedLicense = curated
	item.CuratorID = d.CuratorID
	item.Comment = d.Comment
	item.DecidedAt = now
	if d.Justification != nil {
		item.Justification = d.Justification
	}

	refreshJustificationFlag(item)
	return nil
}

// resolveCuratedLicense validates the transition and computes the license
// the item will carry, without touching the item.
func resolveCuratedLicense(item *models.CurationItem, d Decision) (string, error) {
	switch d.Action {
	case ActionAccept:
		if !item.OrLicense.Resolved() {
			return "", cerr.Validationf("cannot accept %s: OR-license choice is unresolved", item.DependencyID)
		}
		if item.OrLicense.IsOrLicense {
			return item.OrLicense.ChosenLicense, nil
		}
		if item.AISuggestion != nil && item.AISuggestion.License != "" {
			return item.AISuggestion.License, nil
		}
		return item.OriginalLicense, nil
	case ActionReject:
		return "", nil
	case ActionModify:
		if d.License == "" {
			return "", cerr.Validationf("cannot modify %s: a license value is required", item.DependencyID)
		}
		return d.License, nil
	}
	return "", cerr.Validationf("invalid decision action: %q", d.Action)
}

// ResolveOrLicense records the curator's choice among the OR options.
// Idempotent: re-resolving overwrites the prior choice.
func ResolveOrLicense(item *models.CurationItem, chosen, reason string) error {
	if !item.OrLicense.IsOrLicense {
		return cerr.Validationf("%s is not an OR-licensed dependency", item.DependencyID)
	}

	valid := false
	for _, opt := range item.OrLicense.Options {
		if opt == chosen {
			valid = true
			break
		}
	}
	if !valid {
		return cerr.Validationf("license %q is not among the OR options for %s", chosen, item.DependencyID)
	}

	item.OrLicense.ChosenLicense = chosen
	item.OrLicense.ChoiceReason = reason

	// A prior ACCEPT stays valid but follows the new choice
	if item.Status == models.ItemAccepted {
		item.CuratedLicense = chosen
	}

	refreshJustificationFlag(item)
	return nil
}

// itemEffectiveLicense after curation: curated wins over original
func itemEffectiveLicense(item *models.CurationItem) string {
	if item.CuratedLicense != "" {
		return item.CuratedLicense
	}
	return item.OriginalLicense
}

// refreshJustificationFlag marks whether the item still needs a
// justification: required whenever the effective license category is
// not permissive.
func refreshJustificationFlag(item *models.CurationItem) {
	// Rejecting a dependency is itself the remediation
	if item.Status == models.ItemRejected {
		item.JustificationComplete = true
		return
	}
	cat := license.Categorize(itemEffectiveLicense(item))
	if license.IsPermissive(cat) {
		item.JustificationComplete = true
		return
	}
	item.JustificationComplete = item.Justification != nil && item.Justification.Text != ""
}

// NewItem seeds a curation item from a dependency and the violation
// blocking it, if any.
func NewItem(dep *models.Dependency, violation *models.Violation) models.CurationItem {
	item := models.CurationItem{
		DependencyID:     dep.ID,
		DependencyName:   dep.Name,
		Scope:            dep.Scope,
		OriginalLicense:  dep.EffectiveLicense(),
		DeclaredLicenses: dep.DeclaredLicenses,
		DetectedLicenses: dep.DetectedLicenses,
		AISuggestion:     dep.AISuggestion,
		Status:           models.ItemPending,
	}
	if violation != nil {
		item.BlockingRuleID = violation.RuleID
	}
	item.Priority = priority.Score(&item, violation)
	refreshJustificationFlag(&item)
	return item
}

// BuildItems seeds one item per dependency, binding each to its first
// blocking violation from the report, if any.
func BuildItems(deps []models.Dependency, report *models.PolicyReport) []models.CurationItem {
	blocking := make(map[string]*models.Violation)
	if report != nil {
		for i := range report.Violations {
			v := &report.Violations[i]
			if _, seen := blocking[v.DependencyID]; !seen {
				blocking[v.DependencyID] = v
			}
		}
	}

	items := make([]models.CurationItem, 0, len(deps))
	for i := range deps {
		items = append(items, NewItem(&deps[i], blocking[deps[i].ID]))
	}
	return items
}
