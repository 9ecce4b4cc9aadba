package cli

import (
	"fmt"
	"os"
	"strings"
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

// explainCmd details the violations of one dependency
var explainCmd = &cobra.Command{
	Use:   "explain --scan <scan.json> --dependency <id>",
	Short: "Explain why a dependency violates the policy",
	Long: `Evaluates the policy and prints the full advisory bundle for one
dependency: causes with risk levels, license obligations, compatibility
against the rest of the scan, and ranked resolution suggestions.

Example:
  licensegate explain --scan scan.json --preset strict --dependency npm:left-pad`,
	RunE:         runExplain,
	SilenceUsage: true,
}

var (
	explainScanFlag   string
	explainPolicyFlag string
	explainPresetFlag string
	explainDepFlag    string
	explainFormatFlag string
)

func init() {
	explainCmd.Flags().StringVar(&explainScanFlag, "scan", "", "Path to the scan JSON file")
	explainCmd.Flags().StringVarP(&explainPolicyFlag, "policy", "P", "", "Path to a policy YAML file")
	explainCmd.Flags().StringVar(&explainPresetFlag, "preset", "", "Built-in policy preset: baseline or strict")
	explainCmd.Flags().StringVarP(&explainDepFlag, "dependency", "d", "", "Dependency id to explain")
	explainCmd.Flags().StringVar(&explainFormatFlag, "format", "text", "Output format: text or json")
	_ = explainCmd.MarkFlagRequired("scan")
	_ = explainCmd.MarkFlagRequired("dependency")
}

// GetExplainCmd export
func GetExplainCmd() *cobra.Command {
	return explainCmd
}

func runExplain(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	sess := receipt.Start(ctx, "licensegate explain", os.Args[1:])
	defer func() {
		_ = sess.Finish(err, receipt.WithScan(explainScanFlag))
	}()

	log := logging.From(ctx)
	start := time.Now()

	if h := otelobs.From(ctx); h != nil {
		var span trace.Span
		ctx, span = h.Tracer.Start(ctx, "licensegate.explain",
			trace.WithAttributes(
				attribute.String("licensegate.op_id", observability.OpID(ctx)),
				attribute.String("licensegate.command", "explain"),
				attribute.String("licensegate.dependency", explainDepFlag),
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

	log.Event(ctx, "explain.start", map[string]any{"dependency": explainDepFlag})
	defer func() {
		log.Event(ctx, "explain.complete", map[string]any{
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}()

	config, _, cfgErr := resolvePolicy(explainPolicyFlag, explainPresetFlag)
	if cfgErr != nil {
		return cfgErr
	}

	scan, loadErr := store.NewManager().LoadScan(explainScanFlag)
	if loadErr != nil {
		return loadErr
	}

	report := policy.Evaluate(scan.Dependencies, config)

	var explained []models.Violation
	for i := range report.Violations {
		v := report.Violations[i]
		if v.DependencyID != explainDepFlag {
			continue
		}
		v.Explanation = advisor.Explain(&v, scan.Dependencies)
		explained = append(explained, v)
	}

	if len(explained) == 0 {
		fmt.Printf("Dependency %s has no policy violations.\n", explainDepFlag)
		return nil
	}

	if explainFormatFlag == "json" {
		out, jsonErr := formatJSON(explained)
		if jsonErr != nil {
			return jsonErr
		}
		fmt.Println(out)
		return nil
	}

	for _, v := range explained {
		var b strings.Builder
		fmt.Fprintf(&b, "%s%s%s violates %s [%s]: %s\n",
			colorBold, v.DependencyID, colorReset, v.RuleName, v.Severity, v.Message)
		writeExplanationText(&b, v.Explanation)
		fmt.Print(b.String())
	}
	return nil
}
