package models

import (
	"fmt"
	"time"
)

// ItemStatus of a curation item
type ItemStatus string

const (
	ItemPending  ItemStatus = "PENDING"
	ItemAccepted ItemStatus = "ACCEPTED"
	ItemRejected ItemStatus = "REJECTED"
	ItemModified ItemStatus = "MODIFIED"
)

// PriorityLevel buckets for curation items
type PriorityLevel string

const (
	PriorityCritical PriorityLevel = "CRITICAL"
	PriorityHigh     PriorityLevel = "HIGH"
	PriorityMedium   PriorityLevel = "MEDIUM"
	PriorityLow      PriorityLevel = "LOW"
)

// PriorityFactor is one contribution to a priority score, kept for UI display
type PriorityFactor struct {
	Name        string  `json:"name"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description"`
}

// PriorityInfo is the scored priority of a curation item
type PriorityInfo struct {
	Level   PriorityLevel    `json:"level"`
	Score   float64          `json:"score"`
	Factors []PriorityFactor `json:"factors,omitempty"`
}

// OrLicense sub-state for dependencies offered under alternative licenses
type OrLicense struct {
	IsOrLicense   bool     `json:"isOrLicense"`
	Options       []string `json:"options,omitempty"`
	ChosenLicense string   `json:"chosenLicense,omitempty"`
	ChoiceReason  string   `json:"choiceReason,omitempty"`
}

// Resolved reports whether a choice has been made
func (o *OrLicense) Resolved() bool {
	return !o.IsOrLicense || o.ChosenLicense != ""
}

// JustificationType for accepting a non-permissive license
type JustificationType string

const (
	JustificationInternalUse  JustificationType = "INTERNAL_USE"
	JustificationDynamicLink  JustificationType = "DYNAMIC_LINKING"
	JustificationLegalReview  JustificationType = "LEGAL_REVIEW"
	JustificationCommercialOK JustificationType = "COMMERCIAL_AGREEMENT"
)

// Justification record, required whenever the effective license is not permissive
type Justification struct {
	Type              JustificationType `json:"type"`
	Text              string            `json:"text"`
	Evidence          string            `json:"evidence,omitempty"`
	DistributionScope string            `json:"distributionScope,omitempty"`
}

// CurationItem is the per-dependency decision record
type CurationItem struct {
	DependencyID          string         `json:"dependencyId"`
	DependencyName        string         `json:"dependencyName,omitempty"`
	Scope                 string         `json:"scope,omitempty"`
	OriginalLicense       string         `json:"originalLicense"`
	DeclaredLicenses      []string       `json:"declaredLicenses,omitempty"`
	DetectedLicenses      []string       `json:"detectedLicenses,omitempty"`
	AISuggestion          *AISuggestion  `json:"aiSuggestion,omitempty"`
	Status                ItemStatus     `json:"status"`
	CuratedLicense        string         `json:"curatedLicense,omitempty"`
	CuratorID             string         `json:"curatorId,omitempty"`
	Comment               string         `json:"comment,omitempty"`
	DecidedAt             time.Time      `json:"decidedAt,omitzero"`
	Priority              PriorityInfo   `json:"priority"`
	OrLicense             OrLicense      `json:"orLicense"`
	Justification         *Justification `json:"justification,omitempty"`
	JustificationComplete bool           `json:"justificationComplete"`
	BlockingRuleID        string         `json:"blockingRuleId,omitempty"`
}

// Decided reports whether the item holds a curated license.
// Invariant: true iff status is ACCEPTED or MODIFIED.
func (i *CurationItem) Decided() bool {
	return i.Status == ItemAccepted || i.Status == ItemModified
}

// SessionStatus of a curation session
type SessionStatus string

const (
	SessionInProgress SessionStatus = "IN_PROGRESS"
	SessionCompleted  SessionStatus = "COMPLETED"
	SessionSubmitted  SessionStatus = "SUBMITTED_FOR_APPROVAL"
	SessionApproved   SessionStatus = "APPROVED"
	SessionRejected   SessionStatus = "REJECTED"
	SessionReturned   SessionStatus = "RETURNED"
)

// ApprovalDecision values for decideApproval
type ApprovalDecision string

const (
	DecisionApprove ApprovalDecision = "APPROVED"
	DecisionReject  ApprovalDecision = "REJECTED"
	DecisionReturn  ApprovalDecision = "RETURNED"
)

// ParseApprovalDecision validates at the edge
func ParseApprovalDecision(s string) (ApprovalDecision, error) {
	switch ApprovalDecision(s) {
	case DecisionApprove, DecisionReject, DecisionReturn:
		return ApprovalDecision(s), nil
	}
	return "", fmt.Errorf("invalid approval decision: %q (use APPROVED, REJECTED or RETURNED)", s)
}

// Approval is the active approval record; a session holds at most one
type Approval struct {
	ApproverID   string           `json:"approverId"`
	ApproverName string           `json:"approverName,omitempty"`
	ApproverRole string           `json:"approverRole,omitempty"`
	Decision     ApprovalDecision `json:"decision"`
	Comment      string           `json:"comment,omitempty"`
	DecidedAt    time.Time        `json:"decidedAt"`
}

// SessionStats are derived from the item set, never stored
type SessionStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Modified int `json:"modified"`
}

// ConditionOperator for template conditions
type ConditionOperator string

const (
	OpEquals     ConditionOperator = "EQUALS"
	OpNotEquals  ConditionOperator = "NOT_EQUALS"
	OpContains   ConditionOperator = "CONTAINS"
	OpStartsWith ConditionOperator = "STARTS_WITH"
	OpEndsWith   ConditionOperator = "ENDS_WITH"
	OpMatches    ConditionOperator = "MATCHES"
	OpIsEmpty    ConditionOperator = "IS_EMPTY"
	OpIsNotEmpty ConditionOperator = "IS_NOT_EMPTY"
)

// Condition on an item field; all conditions of a template must match
type Condition struct {
	Field    string            `yaml:"field" json:"field"`
	Operator ConditionOperator `yaml:"operator" json:"operator"`
	Value    string            `yaml:"value,omitempty" json:"value,omitempty"`
}

// TemplateActionKind for template actions
type TemplateActionKind string

const (
	TemplateSetStatus   TemplateActionKind = "SET_STATUS"
	TemplateSetLicense  TemplateActionKind = "SET_LICENSE"
	TemplateAddComment  TemplateActionKind = "ADD_COMMENT"
	TemplateSetPriority TemplateActionKind = "SET_PRIORITY"
)

// TemplateAction applied to each matched item, in order
type TemplateAction struct {
	Kind  TemplateActionKind `yaml:"kind" json:"kind"`
	Value string             `yaml:"value" json:"value"`
}

// Template bundles conditions and actions for bulk curation
type Template struct {
	ID         string           `yaml:"id" json:"id"`
	Name       string           `yaml:"name" json:"name"`
	Conditions []Condition      `yaml:"conditions" json:"conditions"`
	Actions    []TemplateAction `yaml:"actions" json:"actions"`
	UsageCount int              `yaml:"usageCount,omitempty" json:"usageCount,omitempty"`
}
