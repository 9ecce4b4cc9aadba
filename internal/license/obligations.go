package license

import "github.com/licensegate/licensegate/internal/models"

// obligationTable is fixed per category. Effort reflects the typical
// engineering cost of honoring the obligation, not its legal weight.
var obligationTable = map[Category][]models.Obligation{
	CategoryPermissive: {
		{Name: "attribution", Description: "Retain copyright notice and license text in distributions", Effort: models.EffortLow},
	},
	CategoryWeakCopyleft: {
		{Name: "attribution", Description: "Retain copyright notice and license text in distributions", Effort: models.EffortLow},
		{Name: "source_disclosure", Description: "Disclose source of modifications to the covered files", Effort: models.EffortMedium},
	},
	CategoryStrongCopyleft: {
		{Name: "attribution", Description: "Retain copyright notice and license text in distributions", Effort: models.EffortLow},
		{Name: "source_disclosure", Description: "Disclose complete corresponding source of the combined work", Effort: models.EffortHigh},
		{Name: "patent_grant", Description: "Grant recipients the patent rights needed to use the work", Effort: models.EffortMedium},
	},
	CategoryNetworkCopyleft: {
		{Name: "attribution", Description: "Retain copyright notice and license text in distributions", Effort: models.EffortLow},
		{Name: "source_disclosure", Description: "Disclose complete corresponding source of the combined work", Effort: models.EffortHigh},
		{Name: "network_disclosure", Description: "Offer source to users interacting with the service over a network", Effort: models.EffortHigh},
		{Name: "patent_grant", Description: "Grant recipients the patent rights needed to use the work", Effort: models.EffortMedium},
	},
	CategoryProprietary: {
		{Name: "license_agreement", Description: "Comply with the vendor's commercial license terms", Effort: models.EffortMedium},
	},
}

// Obligations triggered by a license id. Public domain and unknown
// licenses trigger none; unknown must be resolved through curation instead.
func Obligations(licenseID string) []models.Obligation {
	return obligationTable[Categorize(licenseID)]
}
