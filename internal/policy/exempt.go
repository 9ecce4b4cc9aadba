package policy

import (
	"path"
	"strings"

	"github.com/licensegate/licensegate/internal/models"
)

// matchExemption returns the first exemption whose pattern matches the
// dependency id. Patterns use glob syntax; a trailing "*" also matches
// across separators so "npm:lodash*" covers "npm:lodash.merge:1.0".
func matchExemption(exemptions []models.Exemption, depID string) (models.Exemption, bool) {
	for _, ex := range exemptions {
		if ex.Pattern == "" {
			continue
		}
		if matchPattern(ex.Pattern, depID) {
			return ex, true
		}
	}
	return models.Exemption{}, false
}

// matchPattern matches a single glob pattern against an id
func matchPattern(pattern, id string) bool {
	if pattern == "*" {
		return true
	}

	// prefix form: "group:*" or "npm:lodash*"
	if strings.HasSuffix(pattern, "*") && !strings.ContainsAny(strings.TrimSuffix(pattern, "*"), "*?[") {
		return strings.HasPrefix(id, strings.TrimSuffix(pattern, "*"))
	}

	matched, err := path.Match(pattern, id)
	if err != nil {
		return false
	}
	return matched
}

// ValidatePattern reports whether a glob pattern is well formed
func ValidatePattern(pattern string) error {
	_, err := path.Match(pattern, "probe")
	return err
}
