package differ

import (
	"github.com/licensegate/licensegate/internal/models"
)

// CarryOverResult summarizes decision reuse after a rescan
type CarryOverResult struct {
	Applied []string `json:"applied,omitempty"`
	Skipped []string `json:"skipped,omitempty"`
}

// ApplyPreviousCurations copies decided states from an approved prior
// item set onto fresh items. A decision carries over only when the
// dependency is unchanged: same id, same effective license, and not in
// the updated set of the diff. Everything else stays PENDING for human
// review.
func ApplyPreviousCurations(items []models.CurationItem, previous []models.CurationItem, diff *Result) *CarryOverResult {
	prevByID := make(map[string]*models.CurationItem, len(previous))
	for i := range previous {
		prevByID[previous[i].DependencyID] = &previous[i]
	}

	updated := make(map[string]bool)
	if diff != nil {
		for _, c := range diff.Updated {
			updated[c.DependencyID] = true
		}
	}

	result := &CarryOverResult{}

	for i := range items {
		item := &items[i]
		prev, found := prevByID[item.DependencyID]
		if !found {
			continue
		}
		if item.Status != models.ItemPending {
			continue
		}

		if updated[item.DependencyID] ||
			prev.Status == models.ItemPending ||
			prev.OriginalLicense != item.OriginalLicense {
			result.Skipped = append(result.Skipped, item.DependencyID)
			continue
		}

		item.Status = prev.Status
		item.CuratedLicense = prev.CuratedLicense
		item.CuratorID = prev.CuratorID
		item.Comment = prev.Comment
		item.DecidedAt = prev.DecidedAt
		item.Justification = prev.Justification
		item.JustificationComplete = prev.JustificationComplete
		item.OrLicense = prev.OrLicense
		result.Applied = append(result.Applied, item.DependencyID)
	}

	return result
}
