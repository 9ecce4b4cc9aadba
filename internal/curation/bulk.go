package curation

import (
	"github.com/licensegate/licensegate/internal/cerr"
	"github.com/licensegate/licensegate/internal/models"
)

// BulkOutcome for one item of a bulk request
type BulkOutcome struct {
	DependencyID string `json:"dependencyId"`
	OK           bool   `json:"ok"`
	Error        string `json:"error,omitempty"`
}

// BulkResult of a bulk decision; failures never abort the batch
type BulkResult struct {
	Requested int           `json:"requested"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Outcomes  []BulkOutcome `json:"outcomes"`
}

// DecideBulk applies the same decision to every named item. Each item
// succeeds or fails on its own; unknown ids are reported per item.
func (s *Session) DecideBulk(dependencyIDs []string, d Decision) (*BulkResult, error) {
	if s.frozen() {
		return nil, cerr.Preconditionf("session %s is approved and can no longer be modified", s.ID)
	}
	if len(dependencyIDs) == 0 {
		return nil, cerr.Validationf("bulk decision requires at least one dependency id")
	}

	result := &BulkResult{Requested: len(dependencyIDs)}

	for _, id := range dependencyIDs {
		outcome := BulkOutcome{DependencyID: id}

		item, err := s.Item(id)
		if err == nil {
			err = DecideItem(item, d, s.now())
		}

		if err != nil {
			outcome.Error = err.Error()
			result.Failed++
		} else {
			outcome.OK = true
			result.Succeeded++
			s.record(models.PhaseCuration, "item."+actionVerb(d.Action), d.CuratorID, "curator",
				"bulk decision", "item", id)
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	s.refreshStatus()
	return result, nil
}
