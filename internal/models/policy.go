package models

import "fmt"

// Severity of a rule and of the violations it produces
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
	SeverityInfo    Severity = "INFO"
)

// ParseSeverity validates at the edge
func ParseSeverity(s string) (Severity, error) {
	switch Severity(s) {
	case SeverityError, SeverityWarning, SeverityInfo:
		return Severity(s), nil
	}
	return "", fmt.Errorf("invalid severity: %q (use ERROR, WARNING or INFO)", s)
}

// RuleAction taken when a rule matches
type RuleAction string

const (
	ActionAllow  RuleAction = "ALLOW"
	ActionDeny   RuleAction = "DENY"
	ActionReview RuleAction = "REVIEW"
)

// ParseRuleAction validates at the edge
func ParseRuleAction(s string) (RuleAction, error) {
	switch RuleAction(s) {
	case ActionAllow, ActionDeny, ActionReview:
		return RuleAction(s), nil
	}
	return "", fmt.Errorf("invalid rule action: %q (use ALLOW, DENY or REVIEW)", s)
}

// Rule matches a dependency's effective license by category or explicit id.
// Category and Licenses may both be set; either match counts.
type Rule struct {
	ID       string     `yaml:"id" json:"id"`
	Name     string     `yaml:"name" json:"name"`
	Severity Severity   `yaml:"severity" json:"severity"`
	Action   RuleAction `yaml:"action" json:"action"`
	Enabled  bool       `yaml:"enabled" json:"enabled"`
	Scope    string     `yaml:"scope,omitempty" json:"scope,omitempty"`
	Category string     `yaml:"category,omitempty" json:"category,omitempty"`
	Licenses []string   `yaml:"licenses,omitempty" json:"licenses,omitempty"`
	Message  string     `yaml:"message,omitempty" json:"message,omitempty"`
}

// CategorySet is a named license grouping defined by the policy
type CategorySet struct {
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Licenses    []string `yaml:"licenses" json:"licenses"`
}

// Settings global policy toggles
type Settings struct {
	FailOnErrors     bool       `yaml:"failOnErrors" json:"failOnErrors"`
	FailOnWarnings   bool       `yaml:"failOnWarnings" json:"failOnWarnings"`
	MinAIConfidence  Confidence `yaml:"minAIConfidence,omitempty" json:"minAIConfidence,omitempty"`
	AutoAcceptAIHigh bool       `yaml:"autoAcceptAIHigh,omitempty" json:"autoAcceptAIHigh,omitempty"`
}

// Exemption excludes matching dependency ids from rule evaluation
type Exemption struct {
	Pattern  string `yaml:"pattern" json:"pattern"`
	Reason   string `yaml:"reason" json:"reason"`
	Approver string `yaml:"approver,omitempty" json:"approver,omitempty"`
	Date     string `yaml:"date,omitempty" json:"date,omitempty"`
}

// Gate is a CEL expression evaluated against the finished report.
// A gate can fail a passing report, never the reverse.
type Gate struct {
	Name    string `yaml:"name" json:"name"`
	Expr    string `yaml:"expr" json:"expr"`
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
}

// PolicyConfig from yaml, immutable once loaded for an evaluation
type PolicyConfig struct {
	ID         string                 `yaml:"id" json:"id"`
	Name       string                 `yaml:"name" json:"name"`
	Version    string                 `yaml:"version" json:"version"`
	Rules      []Rule                 `yaml:"rules" json:"rules"`
	Categories map[string]CategorySet `yaml:"categories,omitempty" json:"categories,omitempty"`
	Settings   Settings               `yaml:"settings" json:"settings"`
	Exemptions []Exemption            `yaml:"exemptions,omitempty" json:"exemptions,omitempty"`
	Gates      []Gate                 `yaml:"gates,omitempty" json:"gates,omitempty"`
}
