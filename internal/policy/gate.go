package policy

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/licensegate/licensegate/internal/models"
)

// GateEngine evaluates compliance gate expressions (CEL) against a
// finished PolicyReport. Gates are a CI-level tightening mechanism: a
// gate can fail a passing report but never pass a failing one.
type GateEngine struct {
	env *cel.Env
}

func NewGateEngine() (*GateEngine, error) {
	env, err := cel.NewEnv(
		cel.Variable("input", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &GateEngine{env: env}, nil
}

// ApplyGates evaluates every gate of the config against the report and
// records the results on it. A failed gate flips Passed to false.
func (g *GateEngine) ApplyGates(config *models.PolicyConfig, report *models.PolicyReport) error {
	if len(config.Gates) == 0 {
		return nil
	}

	input := reportToMap(report)

	for _, gate := range config.Gates {
		result, err := g.evaluateGate(gate, input)
		if err != nil {
			return fmt.Errorf("failed to evaluate gate %q: %w", gate.Name, err)
		}
		report.GateResults = append(report.GateResults, result)
		if !result.Passed {
			report.Passed = false
		}
	}

	return nil
}

// evaluateGate compiles and runs one expression; a non-boolean result fails the gate
func (g *GateEngine) evaluateGate(gate models.Gate, input map[string]interface{}) (models.GateResult, error) {
	ast, issues := g.env.Compile(gate.Expr)
	if issues != nil && issues.Err() != nil {
		return models.GateResult{
			Name:    gate.Name,
			Passed:  false,
			Message: fmt.Sprintf("CEL compile error: %v", issues.Err()),
		}, nil
	}

	prg, err := g.env.Program(ast)
	if err != nil {
		return models.GateResult{
			Name:    gate.Name,
			Passed:  false,
			Message: fmt.Sprintf("CEL program error: %v", err),
		}, nil
	}

	out, _, err := prg.Eval(map[string]interface{}{
		"input": input,
	})
	if err != nil {
		return models.GateResult{
			Name:    gate.Name,
			Passed:  false,
			Message: fmt.Sprintf("CEL evaluation error: %v", err),
		}, nil
	}

	passed, ok := out.Value().(bool)
	if !ok {
		return models.GateResult{
			Name:    gate.Name,
			Passed:  false,
			Message: fmt.Sprintf("gate expression must return boolean, got %T", out.Value()),
		}, nil
	}

	result := models.GateResult{
		Name:   gate.Name,
		Passed: passed,
	}
	if !passed {
		result.Message = gate.Message
	}

	return result, nil
}

// CompileAndValidate checks every gate expression without running it
func (g *GateEngine) CompileAndValidate(config *models.PolicyConfig) error {
	var errors []string

	for _, gate := range config.Gates {
		_, issues := g.env.Compile(gate.Expr)
		if issues != nil && issues.Err() != nil {
			errors = append(errors, fmt.Sprintf("gate %q: %v", gate.Name, issues.Err()))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("gate validation failed:\n  %s", strings.Join(errors, "\n  "))
	}

	return nil
}

// reportToMap converts for CEL
func reportToMap(report *models.PolicyReport) map[string]interface{} {
	violations := make([]interface{}, len(report.Violations))
	for i, v := range report.Violations {
		violations[i] = map[string]interface{}{
			"ruleId":       v.RuleID,
			"severity":     string(v.Severity),
			"action":       string(v.Action),
			"dependencyId": v.DependencyID,
			"license":      v.License,
		}
	}

	categories := make(map[string]interface{}, len(report.Categories))
	for name, count := range report.Categories {
		categories[name] = count
	}

	return map[string]interface{}{
		"policyId":     report.PolicyID,
		"passed":       report.Passed,
		"errorCount":   report.ErrorCount,
		"warningCount": report.WarningCount,
		"infoCount":    report.InfoCount,
		"violations":   violations,
		"categories":   categories,
	}
}
