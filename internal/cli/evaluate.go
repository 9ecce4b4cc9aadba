package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/licensegate/licensegate/internal/advisor"
	"github.com/licensegate/licensegate/internal/models"
	"github.com/licensegate/licensegate/internal/observability"
	"github.com/licensegate/licensegate/internal/observability/logging"
	otelobs "github.com/licensegate/licensegate/internal/observability/otel"
	"github.com/licensegate/licensegate/internal/observability/receipt"
	"github.com/licensegate/licensegate/internal/policy"
	"github.com/licensegate/licensegate/internal/store"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// evaluateCmd runs a policy over a scan
var evaluateCmd = &cobra.Command{
	Use:   "evaluate --scan <scan.json>",
	Short: "Evaluate a dependency scan against a license policy",
	Long: `Loads a dependency scan, evaluates every enabled policy rule against
every dependency and prints the resulting report.

Examples:
  # Evaluate with a built-in preset
  licensegate evaluate --scan scan.json --preset baseline

  # Evaluate with a custom policy file
  licensegate evaluate --scan scan.json --policy policy.yaml

  # Attach explanations and emit JSON for CI
  licensegate evaluate --scan scan.json --preset strict --explain --format json`,
	RunE:         runEvaluate,
	SilenceUsage: true,
}

var (
	evalScanFlag    string
	evalPolicyFlag  string
	evalPresetFlag  string
	evalFormatFlag  string
	evalExplainFlag bool
	evalFailOnFlag  string
)

func init() {
	evaluateCmd.Flags().StringVar(&evalScanFlag, "scan", "", "Path to the scan JSON file")
	evaluateCmd.Flags().StringVarP(&evalPolicyFlag, "policy", "P", "", "Path to a policy YAML file")
	evaluateCmd.Flags().StringVar(&evalPresetFlag, "preset", "", "Built-in policy preset: baseline or strict")
	evaluateCmd.Flags().StringVar(&evalFormatFlag, "format", "text", "Output format: text or json")
	evaluateCmd.Flags().BoolVar(&evalExplainFlag, "explain", false, "Attach obligation and resolution explanations to violations")
	evaluateCmd.Flags().StringVar(&evalFailOnFlag, "fail-on", "", "Override the policy fail threshold: error or warning")
	_ = evaluateCmd.MarkFlagRequired("scan")
}

// GetEvaluateCmd export
func GetEvaluateCmd() *cobra.Command {
	return evaluateCmd
}

func runEvaluate(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	sess := receipt.Start(ctx, "licensegate evaluate", os.Args[1:])
	var receiptOpts []receipt.Option

	defer func() {
		receiptOpts = append(receiptOpts, receipt.WithScan(evalScanFlag))
		_ = sess.Finish(err, receiptOpts...)
	}()

	log := logging.From(ctx)
	start := time.Now()

	if h := otelobs.From(ctx); h != nil {
		var span trace.Span
		ctx, span = h.Tracer.Start(ctx, "licensegate.evaluate",
			trace.WithAttributes(
				attribute.String("licensegate.op_id", observability.OpID(ctx)),
				attribute.String("licensegate.command", "evaluate"),
				attribute.String("licensegate.scan", evalScanFlag),
			))
		defer func() {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "failed")
			} else {
				span.SetStatus(codes.Ok, "success")
			}
			span.End()
		}()
	}

	log.Event(ctx, "evaluate.start", nil)

	var resultStatus string
	defer func() {
		log.Event(ctx, "evaluate.complete", map[string]any{
			"duration_ms": time.Since(start).Milliseconds(),
			"result":      resultStatus,
		})
	}()

	if evalFormatFlag != "text" && evalFormatFlag != "json" {
		resultStatus = "fail"
		return fmt.Errorf("invalid format: %s (use text or json)", evalFormatFlag)
	}

	config, presetName, cfgErr := resolvePolicy(evalPolicyFlag, evalPresetFlag)
	if cfgErr != nil {
		resultStatus = "fail"
		return cfgErr
	}

	config, cfgErr = applyFailOn(config, evalFailOnFlag)
	if cfgErr != nil {
		resultStatus = "fail"
		return cfgErr
	}

	scan, loadErr := store.NewManager().LoadScan(evalScanFlag)
	if loadErr != nil {
		resultStatus = "fail"
		return loadErr
	}

	report := policy.Evaluate(scan.Dependencies, config)

	if len(config.Gates) > 0 {
		gateEngine, gateErr := policy.NewGateEngine()
		if gateErr != nil {
			resultStatus = "fail"
			return fmt.Errorf("failed to create gate engine: %w", gateErr)
		}
		if gateErr := gateEngine.ApplyGates(config, report); gateErr != nil {
			resultStatus = "fail"
			return fmt.Errorf("gate evaluation failed: %w", gateErr)
		}
	}

	if evalExplainFlag {
		for i := range report.Violations {
			report.Violations[i].Explanation = advisor.Explain(&report.Violations[i], scan.Dependencies)
		}
	}

	receiptOpts = append(receiptOpts, policyReceipt(presetName, report))

	if evalFormatFlag == "json" {
		out, jsonErr := formatJSON(report)
		if jsonErr != nil {
			resultStatus = "fail"
			return jsonErr
		}
		fmt.Println(out)
	} else {
		fmt.Print(formatReportText(report))
	}

	if !report.Passed {
		resultStatus = "fail"
		// Keep stdout clean for JSON consumers
		if evalFormatFlag == "json" {
			os.Exit(1)
		}
		return fmt.Errorf("policy %q failed: %d error(s), %d warning(s)",
			report.PolicyName, report.ErrorCount, report.WarningCount)
	}

	resultStatus = "success"
	return nil
}

// resolvePolicy loads a policy file or a preset, never both
func resolvePolicy(path, preset string) (*models.PolicyConfig, string, error) {
	switch {
	case path != "" && preset != "":
		return nil, "", fmt.Errorf("--policy and --preset are mutually exclusive")
	case path != "":
		config, err := policy.Load(path)
		if err != nil {
			return nil, "", err
		}
		return config, "custom", nil
	case preset != "":
		config := policy.GetPreset(preset)
		if config == nil {
			return nil, "", fmt.Errorf("unknown preset %q (available: %v)", preset, policy.ListPresetNames())
		}
		return config, preset, nil
	default:
		return policy.MustGetPreset("baseline"), "baseline", nil
	}
}

// applyFailOn overrides the policy fail threshold. Presets are cached and
// shared, so the override works on a copy.
func applyFailOn(config *models.PolicyConfig, failOn string) (*models.PolicyConfig, error) {
	if failOn == "" {
		return config, nil
	}

	override := *config
	switch failOn {
	case "error":
		override.Settings.FailOnErrors = true
		override.Settings.FailOnWarnings = false
	case "warning":
		override.Settings.FailOnErrors = true
		override.Settings.FailOnWarnings = true
	default:
		return nil, fmt.Errorf("invalid --fail-on value: %s (use error or warning)", failOn)
	}
	return &override, nil
}

// policyReceipt summarizes a report for the evidence receipt
func policyReceipt(preset string, report *models.PolicyReport) receipt.Option {
	status := "pass"
	if !report.Passed {
		status = "fail"
	}

	counts := map[string]int{}
	severities := map[string]string{}
	var order []string
	for _, v := range report.Violations {
		if counts[v.RuleID] == 0 {
			order = append(order, v.RuleID)
			severities[v.RuleID] = string(v.Severity)
		}
		counts[v.RuleID]++
	}
	var hits []receipt.RuleHit
	for _, id := range order {
		hits = append(hits, receipt.RuleHit{ID: id, Severity: severities[id], Count: counts[id]})
	}

	return receipt.WithPolicy(preset, status, report.ErrorCount, report.WarningCount, hits)
}
