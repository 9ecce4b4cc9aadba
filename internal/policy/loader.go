package policy

import (
	"fmt"
	"os"
	"strings"

	"github.com/licensegate/licensegate/internal/models"
	"gopkg.in/yaml.v3"
)

// Load reads and validates a policy YAML file. Validation happens here,
// at load time, so the evaluator never sees an open-ended variant.
func Load(path string) (*models.PolicyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	var config models.PolicyConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse policy YAML: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the closed enum fields, rule predicates, exemption
// patterns and gate expressions of a policy config.
func Validate(config *models.PolicyConfig) error {
	var problems []string

	if len(config.Rules) == 0 {
		problems = append(problems, "policy must have at least one rule")
	}

	seen := make(map[string]bool)
	for i, rule := range config.Rules {
		ref := rule.ID
		if ref == "" {
			ref = fmt.Sprintf("#%d", i)
		}
		if rule.ID == "" {
			problems = append(problems, fmt.Sprintf("rule %s: missing id", ref))
		} else if seen[rule.ID] {
			problems = append(problems, fmt.Sprintf("rule %s: duplicate id", ref))
		}
		seen[rule.ID] = true

		if _, err := models.ParseSeverity(string(rule.Severity)); err != nil {
			problems = append(problems, fmt.Sprintf("rule %s: %v", ref, err))
		}
		if _, err := models.ParseRuleAction(string(rule.Action)); err != nil {
			problems = append(problems, fmt.Sprintf("rule %s: %v", ref, err))
		}
		if rule.Category == "" && len(rule.Licenses) == 0 {
			problems = append(problems, fmt.Sprintf("rule %s: needs a category or a license list", ref))
		}
	}

	for _, ex := range config.Exemptions {
		if ex.Pattern == "" {
			problems = append(problems, "exemption with empty pattern")
			continue
		}
		if err := ValidatePattern(ex.Pattern); err != nil {
			problems = append(problems, fmt.Sprintf("exemption %q: bad pattern: %v", ex.Pattern, err))
		}
	}

	if len(config.Gates) > 0 {
		gate, err := NewGateEngine()
		if err != nil {
			return fmt.Errorf("failed to create gate engine: %w", err)
		}
		if err := gate.CompileAndValidate(config); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("policy validation failed:\n  %s", strings.Join(problems, "\n  "))
	}

	return nil
}
