package models

// Confidence of an AI license suggestion
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// AISuggestion is an opaque input produced by the suggestion engine
type AISuggestion struct {
	License    string     `json:"license"`
	Confidence Confidence `json:"confidence"`
	Reasoning  string     `json:"reasoning,omitempty"`
}

// Dependency is a scanned dependency, read-only to the core
type Dependency struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Version          string        `json:"version"`
	Scope            string        `json:"scope,omitempty"`
	DeclaredLicenses []string      `json:"declaredLicenses,omitempty"`
	DetectedLicenses []string      `json:"detectedLicenses,omitempty"`
	ConcludedLicense string        `json:"concludedLicense,omitempty"`
	AISuggestion     *AISuggestion `json:"aiSuggestion,omitempty"`
}

// NoAssertion is the effective license of a dependency with no license data
const NoAssertion = "NOASSERTION"

// EffectiveLicense resolves precedence: concluded > declared > detected
func (d *Dependency) EffectiveLicense() string {
	if d.ConcludedLicense != "" {
		return d.ConcludedLicense
	}
	if len(d.DeclaredLicenses) > 0 && d.DeclaredLicenses[0] != "" {
		return d.DeclaredLicenses[0]
	}
	if len(d.DetectedLicenses) > 0 && d.DetectedLicenses[0] != "" {
		return d.DetectedLicenses[0]
	}
	return NoAssertion
}
