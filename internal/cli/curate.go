package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/licensegate/licensegate/internal/curation"
	"github.com/licensegate/licensegate/internal/models"
	"github.com/licensegate/licensegate/internal/observability/logging"
	"github.com/licensegate/licensegate/internal/observability/receipt"
	"github.com/licensegate/licensegate/internal/policy"
	"github.com/licensegate/licensegate/internal/store"
	"github.com/spf13/cobra"
)

// curateCmd group
var curateCmd = &cobra.Command{
	Use:   "curate",
	Short: "Curation session commands",
	Long: `Creates and works a curation session file. The session carries the
per-dependency decisions, the audit trail and the approval state
between runs.`,
}

// curateInitCmd seeds a session from a scan
var curateInitCmd = &cobra.Command{
	Use:   "init --scan <scan.json> --session <session.json>",
	Short: "Create a curation session from a scan",
	Long: `Evaluates the scan against a policy, seeds one curation item per
dependency (bound to its blocking violation, if any) and writes the
session file.

Example:
  licensegate curate init --scan scan.json --session session.json --preset strict --curator alice`,
	RunE:         runCurateInit,
	SilenceUsage: true,
}

// curateDecideCmd applies one decision
var curateDecideCmd = &cobra.Command{
	Use:   "decide --session <session.json> --dependency <id> --action ACCEPT|REJECT|MODIFY",
	Short: "Decide one curation item",
	Long: `Applies a decision to one item and writes the session back.

Examples:
  licensegate curate decide --session session.json --dependency npm:left-pad --action ACCEPT --curator alice

  # MODIFY needs the corrected license
  licensegate curate decide --session session.json --dependency npm:foo --action MODIFY --license MIT --curator alice`,
	RunE:         runCurateDecide,
	SilenceUsage: true,
}

// curateStatusCmd prints session statistics and readiness
var curateStatusCmd = &cobra.Command{
	Use:          "status --session <session.json>",
	Short:        "Show session statistics and readiness blockers",
	RunE:         runCurateStatus,
	SilenceUsage: true,
}

var (
	curateScanFlag       string
	curateSessionFlag    string
	curatePolicyFlag     string
	curatePresetFlag     string
	curateCuratorFlag    string
	curateDependencyFlag string
	curateActionFlag     string
	curateLicenseFlag    string
	curateCommentFlag    string
)

func init() {
	curateInitCmd.Flags().StringVar(&curateScanFlag, "scan", "", "Path to the scan JSON file")
	curateInitCmd.Flags().StringVar(&curateSessionFlag, "session", "", "Path the session file is written to")
	curateInitCmd.Flags().StringVarP(&curatePolicyFlag, "policy", "P", "", "Path to a policy YAML file")
	curateInitCmd.Flags().StringVar(&curatePresetFlag, "preset", "", "Built-in policy preset: baseline or strict")
	curateInitCmd.Flags().StringVar(&curateCuratorFlag, "curator", "", "Curator id recorded on the session")
	_ = curateInitCmd.MarkFlagRequired("scan")
	_ = curateInitCmd.MarkFlagRequired("session")
	_ = curateInitCmd.MarkFlagRequired("curator")

	curateDecideCmd.Flags().StringVar(&curateSessionFlag, "session", "", "Path to the session JSON file")
	curateDecideCmd.Flags().StringVar(&curateDependencyFlag, "dependency", "", "Dependency id of the item")
	curateDecideCmd.Flags().StringVar(&curateActionFlag, "action", "", "Decision: ACCEPT, REJECT or MODIFY")
	curateDecideCmd.Flags().StringVar(&curateLicenseFlag, "license", "", "Corrected license (MODIFY only)")
	curateDecideCmd.Flags().StringVar(&curateCommentFlag, "comment", "", "Decision comment")
	curateDecideCmd.Flags().StringVar(&curateCuratorFlag, "curator", "", "Curator id recorded on the decision")
	_ = curateDecideCmd.MarkFlagRequired("session")
	_ = curateDecideCmd.MarkFlagRequired("dependency")
	_ = curateDecideCmd.MarkFlagRequired("action")

	curateStatusCmd.Flags().StringVar(&curateSessionFlag, "session", "", "Path to the session JSON file")
	_ = curateStatusCmd.MarkFlagRequired("session")

	curateCmd.AddCommand(curateInitCmd)
	curateCmd.AddCommand(curateDecideCmd)
	curateCmd.AddCommand(curateStatusCmd)
}

// GetCurateCmd export
func GetCurateCmd() *cobra.Command {
	return curateCmd
}

func runCurateInit(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	sess := receipt.Start(ctx, "licensegate curate init", os.Args[1:])
	var receiptOpts []receipt.Option
	defer func() {
		receiptOpts = append(receiptOpts, receipt.WithScan(curateScanFlag))
		_ = sess.Finish(err, receiptOpts...)
	}()

	log := logging.From(ctx)
	start := time.Now()
	defer func() {
		log.Event(ctx, "curate.init.complete", map[string]any{
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}()

	config, _, cfgErr := resolvePolicy(curatePolicyFlag, curatePresetFlag)
	if cfgErr != nil {
		return cfgErr
	}

	manager := store.NewManager()
	scan, loadErr := manager.LoadScan(curateScanFlag)
	if loadErr != nil {
		return loadErr
	}
	if manager.Exists(curateSessionFlag) {
		return fmt.Errorf("session file %s already exists", curateSessionFlag)
	}

	report := policy.Evaluate(scan.Dependencies, config)
	items := curation.BuildItems(scan.Dependencies, report)
	session := curation.NewSession(uuid.NewString(), scan.ID, curateCuratorFlag, items)

	if err := manager.SaveSession(session, curateSessionFlag); err != nil {
		return err
	}

	receiptOpts = append(receiptOpts, receipt.WithCuration(curationSummary(session)))
	fmt.Printf("Session %s created with %d item(s), %d blocked by policy.\n",
		session.ID, len(items), countBlocked(items))
	return nil
}

func runCurateDecide(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	sess := receipt.Start(ctx, "licensegate curate decide", os.Args[1:])
	var receiptOpts []receipt.Option
	defer func() {
		_ = sess.Finish(err, receiptOpts...)
	}()

	log := logging.From(ctx)
	start := time.Now()
	defer func() {
		log.Event(ctx, "curate.decide.complete", map[string]any{
			"duration_ms": time.Since(start).Milliseconds(),
			"dependency":  curateDependencyFlag,
		})
	}()

	action, actErr := curation.ParseDecideAction(curateActionFlag)
	if actErr != nil {
		return actErr
	}

	session, loadErr := loadSession(curateSessionFlag)
	if loadErr != nil {
		return loadErr
	}

	decideErr := session.Decide(curateDependencyFlag, curation.Decision{
		Action:    action,
		License:   curateLicenseFlag,
		Comment:   curateCommentFlag,
		CuratorID: curateCuratorFlag,
	})
	if decideErr != nil {
		return decideErr
	}

	if err := store.NewManager().SaveSession(session, curateSessionFlag); err != nil {
		return err
	}

	receiptOpts = append(receiptOpts, receipt.WithCuration(curationSummary(session)))
	stats := session.Stats()
	fmt.Printf("Item %s %s. %d of %d item(s) still pending.\n",
		curateDependencyFlag, curateActionFlag, stats.Pending, stats.Total)
	return nil
}

func runCurateStatus(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	sess := receipt.Start(ctx, "licensegate curate status", os.Args[1:])
	var receiptOpts []receipt.Option
	defer func() {
		_ = sess.Finish(err, receiptOpts...)
	}()

	session, loadErr := loadSession(curateSessionFlag)
	if loadErr != nil {
		return loadErr
	}
	receiptOpts = append(receiptOpts, receipt.WithCuration(curationSummary(session)))

	fmt.Print(formatSessionText(session))
	return nil
}

// loadSession rehydrates a session file into a live aggregate
func loadSession(path string) (*curation.Session, error) {
	var session curation.Session
	if err := store.NewManager().LoadSession(path, &session); err != nil {
		return nil, err
	}
	return curation.Restore(&session), nil
}

func curationSummary(s *curation.Session) receipt.CurationSummary {
	stats := s.Stats()
	return receipt.CurationSummary{
		SessionID: s.ID,
		Status:    string(s.Status),
		Pending:   stats.Pending,
		Accepted:  stats.Accepted,
		Rejected:  stats.Rejected,
		Modified:  stats.Modified,
	}
}

func countBlocked(items []models.CurationItem) int {
	n := 0
	for i := range items {
		if items[i].BlockingRuleID != "" {
			n++
		}
	}
	return n
}
