package differ

import (
	"fmt"
	"strings"

	"github.com/wI2L/jsondiff"
)

// Translate patches to english, deduplicated in patch order
func Translate(patch jsondiff.Patch) []string {
	if len(patch) == 0 {
		return nil
	}

	var translations []string
	seen := make(map[string]bool)

	for _, op := range patch {
		translation := translateOperation(op)
		if translation != "" && !seen[translation] {
			seen[translation] = true
			translations = append(translations, translation)
		}
	}

	return translations
}

func translateOperation(op jsondiff.Operation) string {
	switch op.Type {
	case jsondiff.OperationAdd:
		return translateAdd(op)
	case jsondiff.OperationRemove:
		return translateRemove(op)
	case jsondiff.OperationReplace:
		return translateReplace(op)
	default:
		return ""
	}
}

func translateAdd(op jsondiff.Operation) string {
	pathLower := strings.ToLower(op.Path)

	if strings.Contains(pathLower, "declaredlicenses") {
		return fmt.Sprintf("Declared license %v added.", op.Value)
	}
	if strings.Contains(pathLower, "detectedlicenses") {
		return fmt.Sprintf("Detected license %v added.", op.Value)
	}
	if strings.Contains(pathLower, "concludedlicense") {
		return fmt.Sprintf("License concluded as %v.", op.Value)
	}
	if strings.Contains(pathLower, "aisuggestion") {
		return "License suggestion added."
	}
	return "Dependency metadata added."
}

func translateRemove(op jsondiff.Operation) string {
	pathLower := strings.ToLower(op.Path)

	if strings.Contains(pathLower, "declaredlicenses") {
		return "Declared license removed."
	}
	if strings.Contains(pathLower, "detectedlicenses") {
		return "Detected license removed."
	}
	if strings.Contains(pathLower, "concludedlicense") {
		return "License conclusion withdrawn."
	}
	if strings.Contains(pathLower, "aisuggestion") {
		return "License suggestion removed."
	}
	return "Dependency metadata removed."
}

func translateReplace(op jsondiff.Operation) string {
	pathLower := strings.ToLower(op.Path)

	if strings.HasSuffix(pathLower, "/version") {
		return fmt.Sprintf("Version changed to %v.", op.Value)
	}
	if strings.Contains(pathLower, "declaredlicenses") ||
		strings.Contains(pathLower, "detectedlicenses") ||
		strings.Contains(pathLower, "concludedlicense") {
		return fmt.Sprintf("License changed to %v.", op.Value)
	}
	if strings.Contains(pathLower, "confidence") {
		return "Suggestion confidence changed."
	}
	if strings.Contains(pathLower, "aisuggestion") {
		return "License suggestion changed."
	}
	if strings.HasSuffix(pathLower, "/scope") {
		return fmt.Sprintf("Scope changed to %v.", op.Value)
	}
	return "Dependency metadata changed."
}
