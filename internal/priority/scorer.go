// Package priority computes deterministic, explainable priority scores
// for curation items.
package priority

import (
	"strings"

	"github.com/licensegate/licensegate/internal/models"
)

// Weights for the scoring factors. Policy-tunable; the score is
// normalized by the weight sum so tuned weights still land in [0,1].
type Weights struct {
	Severity   float64
	Confidence float64
	Scope      float64
}

// DefaultWeights per the shipped policy
var DefaultWeights = Weights{
	Severity:   0.5,
	Confidence: 0.3,
	Scope:      0.2,
}

// Level thresholds on the normalized score
const (
	thresholdCritical = 0.75
	thresholdHigh     = 0.5
	thresholdMedium   = 0.25
)

// broadScopes reach production artifacts; everything else is narrow
var broadScopes = map[string]bool{
	"":         true, // unspecified scope is assumed broad
	"runtime":  true,
	"compile":  true,
	"provided": true,
}

// Score one curation item, optionally informed by the violation that
// seeded it. Deterministic: same inputs, same score and factor list.
func Score(item *models.CurationItem, violation *models.Violation) models.PriorityInfo {
	return ScoreWith(DefaultWeights, item, violation)
}

// ScoreWith applies custom weights
func ScoreWith(w Weights, item *models.CurationItem, violation *models.Violation) models.PriorityInfo {
	var sum, total float64
	var factors []models.PriorityFactor

	// severity factor
	total += w.Severity
	if violation != nil {
		sevScale := severityScale(violation.Severity)
		sum += w.Severity * sevScale
		if sevScale > 0 {
			factors = append(factors, models.PriorityFactor{
				Name:        "violation_severity",
				Weight:      w.Severity * sevScale,
				Description: "Blocking policy rule severity " + string(violation.Severity),
			})
		}
	}

	// AI confidence factor: low or missing confidence raises priority
	total += w.Confidence
	confScale := confidenceScale(item.AISuggestion)
	sum += w.Confidence * confScale
	if confScale > 0 {
		factors = append(factors, models.PriorityFactor{
			Name:        "ai_confidence",
			Weight:      w.Confidence * confScale,
			Description: confidenceDescription(item.AISuggestion),
		})
	}

	// scope factor
	total += w.Scope
	if isBroadScope(item) {
		sum += w.Scope
		factors = append(factors, models.PriorityFactor{
			Name:        "dependency_scope",
			Weight:      w.Scope,
			Description: "Dependency reaches production artifacts",
		})
	}

	score := 0.0
	if total > 0 {
		score = sum / total
	}

	return models.PriorityInfo{
		Level:   levelFor(score),
		Score:   score,
		Factors: factors,
	}
}

func severityScale(s models.Severity) float64 {
	switch s {
	case models.SeverityError:
		return 1.0
	case models.SeverityWarning:
		return 0.6
	case models.SeverityInfo:
		return 0.2
	}
	return 0
}

func confidenceScale(s *models.AISuggestion) float64 {
	if s == nil {
		return 1.0
	}
	switch s.Confidence {
	case models.ConfidenceLow:
		return 1.0
	case models.ConfidenceMedium:
		return 0.5
	case models.ConfidenceHigh:
		return 0
	}
	return 1.0
}

func confidenceDescription(s *models.AISuggestion) string {
	if s == nil {
		return "No AI license suggestion available"
	}
	return "AI suggestion confidence is " + string(s.Confidence)
}

func isBroadScope(item *models.CurationItem) bool {
	return broadScopes[strings.ToLower(item.Scope)]
}

func levelFor(score float64) models.PriorityLevel {
	switch {
	case score >= thresholdCritical:
		return models.PriorityCritical
	case score >= thresholdHigh:
		return models.PriorityHigh
	case score >= thresholdMedium:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}
