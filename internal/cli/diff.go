package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/licensegate/licensegate/internal/curation"
	"github.com/licensegate/licensegate/internal/differ"
	"github.com/licensegate/licensegate/internal/models"
	"github.com/licensegate/licensegate/internal/observability"
	"github.com/licensegate/licensegate/internal/observability/logging"
	otelobs "github.com/licensegate/licensegate/internal/observability/otel"
	"github.com/licensegate/licensegate/internal/observability/receipt"
	"github.com/licensegate/licensegate/internal/store"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// diffCmd compares two scans
var diffCmd = &cobra.Command{
	Use:   "diff --previous <old.json> --current <new.json>",
	Short: "Diff two dependency scans",
	Long: `Compares two scans and reports added, updated and removed
dependencies. With --session, decisions from an approved curation
session carry over to unchanged dependencies.

Examples:
  licensegate diff --previous old-scan.json --current new-scan.json

  # Carry approved decisions forward
  licensegate diff --previous old-scan.json --current new-scan.json --session approved-session.json`,
	RunE:         runDiff,
	SilenceUsage: true,
}

var (
	diffPreviousFlag string
	diffCurrentFlag  string
	diffSessionFlag  string
	diffFormatFlag   string
)

func init() {
	diffCmd.Flags().StringVar(&diffPreviousFlag, "previous", "", "Path to the previous scan JSON file")
	diffCmd.Flags().StringVar(&diffCurrentFlag, "current", "", "Path to the current scan JSON file")
	diffCmd.Flags().StringVar(&diffSessionFlag, "session", "", "Approved session file whose decisions carry forward")
	diffCmd.Flags().StringVar(&diffFormatFlag, "format", "text", "Output format: text or json")
	_ = diffCmd.MarkFlagRequired("previous")
	_ = diffCmd.MarkFlagRequired("current")
}

// GetDiffCmd export
func GetDiffCmd() *cobra.Command {
	return diffCmd
}

func runDiff(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	sess := receipt.Start(ctx, "licensegate diff", os.Args[1:])
	var receiptOpts []receipt.Option
	defer func() {
		receiptOpts = append(receiptOpts, receipt.WithScan(diffCurrentFlag))
		_ = sess.Finish(err, receiptOpts...)
	}()

	log := logging.From(ctx)
	start := time.Now()

	if h := otelobs.From(ctx); h != nil {
		var span trace.Span
		ctx, span = h.Tracer.Start(ctx, "licensegate.diff",
			trace.WithAttributes(
				attribute.String("licensegate.op_id", observability.OpID(ctx)),
				attribute.String("licensegate.command", "diff"),
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

	log.Event(ctx, "diff.start", nil)
	defer func() {
		log.Event(ctx, "diff.complete", map[string]any{
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}()

	manager := store.NewManager()
	previous, loadErr := manager.LoadScan(diffPreviousFlag)
	if loadErr != nil {
		return loadErr
	}
	current, loadErr := manager.LoadScan(diffCurrentFlag)
	if loadErr != nil {
		return loadErr
	}

	result, diffErr := differ.Diff(previous.Dependencies, current.Dependencies)
	if diffErr != nil {
		return diffErr
	}

	receiptOpts = append(receiptOpts,
		receipt.WithDiff(len(result.Added), len(result.Updated), len(result.Removed)))

	var carried *differ.CarryOverResult
	if diffSessionFlag != "" {
		carried, err = carryOverFromSession(current.Dependencies, result)
		if err != nil {
			return err
		}
	}

	if diffFormatFlag == "json" {
		payload := struct {
			*differ.Result
			CarryOver *differ.CarryOverResult `json:"carryOver,omitempty"`
		}{result, carried}
		out, jsonErr := formatJSON(payload)
		if jsonErr != nil {
			return jsonErr
		}
		fmt.Println(out)
		return nil
	}

	fmt.Print(formatDiffText(result))
	if carried != nil {
		fmt.Printf("Carried forward %d decision(s), %d item(s) need re-review.\n",
			len(carried.Applied), len(carried.Skipped))
	}
	return nil
}

// carryOverFromSession seeds fresh items from the current scan and
// replays the approved session's decisions onto the unchanged ones.
func carryOverFromSession(deps []models.Dependency, diff *differ.Result) (*differ.CarryOverResult, error) {
	var prevSession curation.Session
	if err := store.NewManager().LoadSession(diffSessionFlag, &prevSession); err != nil {
		return nil, err
	}
	if prevSession.Status != models.SessionApproved {
		return nil, fmt.Errorf("session %s is %s; only approved sessions carry decisions forward",
			prevSession.ID, prevSession.Status)
	}

	items := make([]models.CurationItem, 0, len(deps))
	for i := range deps {
		items = append(items, curation.NewItem(&deps[i], nil))
	}

	return differ.ApplyPreviousCurations(items, prevSession.Items, diff), nil
}
