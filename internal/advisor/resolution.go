package advisor

import (
	"sort"

	"github.com/licensegate/licensegate/internal/license"
	"github.com/licensegate/licensegate/internal/models"
)

// effortRank for sorting, lowest effort first
var effortRank = map[models.Effort]int{
	models.EffortLow:    0,
	models.EffortMedium: 1,
	models.EffortHigh:   2,
}

// resolutions returns ranked suggestions for one violation.
// At most one suggestion is marked recommended.
func resolutions(v *models.Violation, cat license.Category) []models.Resolution {
	var out []models.Resolution

	switch cat {
	case license.CategoryUnknown, license.CategoryOther:
		out = append(out,
			models.Resolution{
				Kind:   models.ResolutionInvestigate,
				Effort: models.EffortLow,
				Steps: []string{
					"Inspect the package source for LICENSE/COPYING files",
					"Conclude the actual license on the dependency",
				},
			},
			models.Resolution{
				Kind:   models.ResolutionReplaceDependency,
				Effort: models.EffortHigh,
				Steps:  []string{"Find an alternative with a declared license"},
			},
		)
	case license.CategoryNetworkCopyleft:
		out = append(out,
			models.Resolution{
				Kind:   models.ResolutionReplaceDependency,
				Effort: models.EffortHigh,
				Steps:  []string{"Replace with a permissive or weak-copyleft alternative"},
			},
			models.Resolution{
				Kind:   models.ResolutionIsolateService,
				Effort: models.EffortHigh,
				Steps: []string{
					"Move the dependency behind a separate service boundary",
					"Publish the isolated service's source",
				},
			},
			models.Resolution{
				Kind:   models.ResolutionRequestException,
				Effort: models.EffortMedium,
				Steps:  []string{"Request a policy exemption with legal sign-off"},
			},
		)
	case license.CategoryStrongCopyleft:
		out = append(out,
			models.Resolution{
				Kind:   models.ResolutionReplaceDependency,
				Effort: models.EffortHigh,
				Steps:  []string{"Replace with a permissive alternative"},
			},
			models.Resolution{
				Kind:   models.ResolutionAcceptObligations,
				Effort: models.EffortMedium,
				Steps: []string{
					"Document the source disclosure obligation",
					"Attach a justification with distribution scope",
				},
			},
			models.Resolution{
				Kind:   models.ResolutionRequestException,
				Effort: models.EffortMedium,
				Steps:  []string{"Request a policy exemption with legal sign-off"},
			},
		)
	case license.CategoryWeakCopyleft:
		out = append(out,
			models.Resolution{
				Kind:   models.ResolutionAcceptObligations,
				Effort: models.EffortLow,
				Steps:  []string{"Document the file-level disclosure obligation"},
			},
			models.Resolution{
				Kind:   models.ResolutionDocumentChoice,
				Effort: models.EffortLow,
				Steps:  []string{"Record the dynamic-linking justification"},
			},
		)
	case license.CategoryProprietary:
		out = append(out,
			models.Resolution{
				Kind:   models.ResolutionDocumentChoice,
				Effort: models.EffortMedium,
				Steps:  []string{"Attach the commercial agreement as evidence"},
			},
			models.Resolution{
				Kind:   models.ResolutionReplaceDependency,
				Effort: models.EffortHigh,
				Steps:  []string{"Replace with an open-source alternative"},
			},
		)
	default:
		out = append(out, models.Resolution{
			Kind:   models.ResolutionAddException,
			Effort: models.EffortLow,
			Steps:  []string{"Add an exemption pattern for this dependency to the policy"},
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return effortRank[out[i].Effort] < effortRank[out[j].Effort]
	})

	if len(out) > 0 {
		out[0].Recommended = true
	}

	return out
}
