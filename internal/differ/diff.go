// Package differ computes the delta between two scans and carries
// approved curation decisions forward onto the unchanged part.
package differ

import (
	"fmt"

	"github.com/wI2L/jsondiff"
	"github.com/licensegate/licensegate/internal/models"
)

// ChangeType of one dependency between scans
type ChangeType string

const (
	ChangeAdded   ChangeType = "ADDED"
	ChangeUpdated ChangeType = "UPDATED"
	ChangeRemoved ChangeType = "REMOVED"
)

// Change is one dependency-level delta
type Change struct {
	Type         ChangeType         `json:"type"`
	DependencyID string             `json:"dependencyId"`
	Previous     *models.Dependency `json:"previous,omitempty"`
	Current      *models.Dependency `json:"current,omitempty"`
	Notes        []string           `json:"notes,omitempty"`
}

// Result of a scan-to-scan diff
type Result struct {
	Added     []Change `json:"added,omitempty"`
	Updated   []Change `json:"updated,omitempty"`
	Removed   []Change `json:"removed,omitempty"`
	Unchanged int      `json:"unchanged"`
}

// HasChanges reports whether anything moved between the scans
func (r *Result) HasChanges() bool {
	return len(r.Added)+len(r.Updated)+len(r.Removed) > 0
}

// Diff compares dependency sets keyed by id. A dependency counts as
// UPDATED when its version or effective license moved; metadata-only
// churn is reported through the notes, not as an update.
func Diff(previous, current []models.Dependency) (*Result, error) {
	prevByID := make(map[string]*models.Dependency, len(previous))
	for i := range previous {
		prevByID[previous[i].ID] = &previous[i]
	}
	curByID := make(map[string]*models.Dependency, len(current))
	for i := range current {
		curByID[current[i].ID] = &current[i]
	}

	result := &Result{}

	for i := range previous {
		prev := &previous[i]
		if _, found := curByID[prev.ID]; !found {
			result.Removed = append(result.Removed, Change{
				Type:         ChangeRemoved,
				DependencyID: prev.ID,
				Previous:     prev,
			})
		}
	}

	for i := range current {
		cur := &current[i]
		prev, found := prevByID[cur.ID]
		if !found {
			result.Added = append(result.Added, Change{
				Type:         ChangeAdded,
				DependencyID: cur.ID,
				Current:      cur,
			})
			continue
		}

		if prev.Version == cur.Version && prev.EffectiveLicense() == cur.EffectiveLicense() {
			result.Unchanged++
			continue
		}

		notes, err := changeNotes(prev, cur)
		if err != nil {
			return nil, fmt.Errorf("failed to diff dependency %s: %w", cur.ID, err)
		}
		result.Updated = append(result.Updated, Change{
			Type:         ChangeUpdated,
			DependencyID: cur.ID,
			Previous:     prev,
			Current:      cur,
			Notes:        notes,
		})
	}

	return result, nil
}

// changeNotes renders the structural delta as human-readable lines
func changeNotes(prev, cur *models.Dependency) ([]string, error) {
	patch, err := jsondiff.Compare(prev, cur)
	if err != nil {
		return nil, err
	}
	return Translate(patch), nil
}
