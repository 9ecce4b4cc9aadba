package models

import "time"

// ViolationCause classifies why a violation was raised
type ViolationCause string

const (
	CauseUnrecognizedLicense ViolationCause = "UNRECOGNIZED_LICENSE"
	CauseCopyleftRisk        ViolationCause = "COPYLEFT_RISK"
	CauseLicenseCategory     ViolationCause = "LICENSE_CATEGORY"
	CauseLicenseExpression   ViolationCause = "LICENSE_EXPRESSION"
	CauseUnknownLicense      ViolationCause = "UNKNOWN_LICENSE"
)

// WhyNot explains a violation cause with a 0-6 risk score
// (6 = network-copyleft contamination risk, 0 = informational)
type WhyNot struct {
	Cause       ViolationCause `json:"cause"`
	RiskLevel   int            `json:"riskLevel"`
	Explanation string         `json:"explanation"`
}

// Effort scale for obligations and resolutions
type Effort string

const (
	EffortLow    Effort = "LOW"
	EffortMedium Effort = "MEDIUM"
	EffortHigh   Effort = "HIGH"
)

// Obligation imposed by a license
type Obligation struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Effort      Effort `json:"effort"`
}

// Compatibility classification between two licenses
type Compatibility string

const (
	CompatFull         Compatibility = "FULL"
	CompatConditional  Compatibility = "CONDITIONAL"
	CompatIncompatible Compatibility = "INCOMPATIBLE"
	CompatUnknown      Compatibility = "UNKNOWN"
)

// CompatibilityIssue against another dependency in the same scan
type CompatibilityIssue struct {
	DependencyID string        `json:"dependencyId"`
	License      string        `json:"license"`
	Result       Compatibility `json:"result"`
	Detail       string        `json:"detail,omitempty"`
}

// ResolutionKind enumerates suggested ways out of a violation
type ResolutionKind string

const (
	ResolutionReplaceDependency ResolutionKind = "REPLACE_DEPENDENCY"
	ResolutionAddException      ResolutionKind = "ADD_EXCEPTION"
	ResolutionDocumentChoice    ResolutionKind = "DOCUMENT_CHOICE"
	ResolutionIsolateService    ResolutionKind = "ISOLATE_SERVICE"
	ResolutionAcceptObligations ResolutionKind = "ACCEPT_OBLIGATIONS"
	ResolutionRequestException  ResolutionKind = "REQUEST_EXCEPTION"
	ResolutionInvestigate       ResolutionKind = "INVESTIGATE"
)

// Resolution suggestion, ranked by effort; at most one is recommended
type Resolution struct {
	Kind        ResolutionKind `json:"kind"`
	Effort      Effort         `json:"effort"`
	Steps       []string       `json:"steps,omitempty"`
	Recommended bool           `json:"recommended,omitempty"`
}

// Explanation is the advisory bundle attached to a violation.
// It never changes the violation's severity or action.
type Explanation struct {
	WhyNot        []WhyNot             `json:"whyNot"`
	Obligations   []Obligation         `json:"obligations,omitempty"`
	Compatibility []CompatibilityIssue `json:"compatibility,omitempty"`
	Resolutions   []Resolution         `json:"resolutions,omitempty"`
}

// Violation produced by a matched rule; derived, never persisted on its own
type Violation struct {
	RuleID       string       `json:"ruleId"`
	RuleName     string       `json:"ruleName"`
	Severity     Severity     `json:"severity"`
	Action       RuleAction   `json:"action"`
	DependencyID string       `json:"dependencyId"`
	License      string       `json:"license"`
	Message      string       `json:"message"`
	SuggestedFix string       `json:"suggestedFix,omitempty"`
	Explanation  *Explanation `json:"explanation,omitempty"`
}

// ExemptedDependency records a skipped dependency and the exemption that matched
type ExemptedDependency struct {
	DependencyID string `json:"dependencyId"`
	Pattern      string `json:"pattern"`
	Reason       string `json:"reason"`
}

// GateResult of one compliance gate expression
type GateResult struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}

// PolicyReport is the full evaluation output
type PolicyReport struct {
	PolicyID      string               `json:"policyId"`
	PolicyName    string               `json:"policyName"`
	PolicyVersion string               `json:"policyVersion"`
	Timestamp     time.Time            `json:"timestamp"`
	Passed        bool                 `json:"passed"`
	ErrorCount    int                  `json:"errorCount"`
	WarningCount  int                  `json:"warningCount"`
	InfoCount     int                  `json:"infoCount"`
	Violations    []Violation          `json:"violations"`
	Exemptions    []ExemptedDependency `json:"exemptions"`
	Categories    map[string]int       `json:"categories"`
	GateResults   []GateResult         `json:"gateResults,omitempty"`
}
