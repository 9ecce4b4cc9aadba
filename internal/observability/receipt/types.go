// Package receipt provides stable evidence artifacts for audit/compliance.
package receipt

// ReceiptSchemaVersion current
const ReceiptSchemaVersion = "1.0"

// Receipt structure
type Receipt struct {
	SchemaVersion string           `json:"schema_version"`
	OpID          string           `json:"op_id"`
	TsStart       string           `json:"ts_start"`
	TsEnd         string           `json:"ts_end"`
	Command       string           `json:"command"`
	Args          []string         `json:"args"`
	ArgsRedacted  bool             `json:"args_redacted,omitempty"` // true if any args were sanitized
	Result        Result           `json:"result"`
	Scan          *ScanRef         `json:"scan,omitempty"`
	Policy        *PolicySummary   `json:"policy,omitempty"`
	Curation      *CurationSummary `json:"curation,omitempty"`
	Diff          *DiffSummary     `json:"diff,omitempty"`
}

// Result status
type Result struct {
	Status string `json:"status"` // "success" or "fail"
	Error  string `json:"error,omitempty"`
}

// ScanRef detail
type ScanRef struct {
	Path   string `json:"path"`
	SHA256 string `json:"sha256,omitempty"`
}

// PolicySummary detail
type PolicySummary struct {
	Preset   string    `json:"preset,omitempty"` // baseline|strict|custom
	Status   string    `json:"status"`           // pass|fail
	Errors   int       `json:"errors"`
	Warnings int       `json:"warnings"`
	RulesHit []RuleHit `json:"rules_hit,omitempty"`
}

// RuleHit detail
type RuleHit struct {
	ID       string `json:"id"`
	Severity string `json:"severity"` // INFO|WARNING|ERROR
	Count    int    `json:"count"`
}

// CurationSummary detail
type CurationSummary struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	Pending   int    `json:"pending"`
	Accepted  int    `json:"accepted"`
	Rejected  int    `json:"rejected"`
	Modified  int    `json:"modified"`
}

// DiffSummary detail
type DiffSummary struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Removed int `json:"removed"`
}
