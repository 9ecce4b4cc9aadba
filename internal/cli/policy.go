package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/licensegate/licensegate/internal/observability/logging"
	"github.com/licensegate/licensegate/internal/observability/receipt"
	"github.com/licensegate/licensegate/internal/policy"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// policyCmd group
var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Policy management commands",
	Long:  `Validate, inspect and list license policies.`,
}

// policyValidateCmd
var policyValidateCmd = &cobra.Command{
	Use:   "validate --policy <policy.yaml>",
	Short: "Validate a policy file",
	Long: `Loads a policy YAML file and checks rules, exemption patterns and
gate expressions. Exits non-zero when the policy is invalid.

Example:
  licensegate policy validate --policy ./policy.yaml`,
	RunE:         runPolicyValidate,
	SilenceUsage: true,
}

// policyShowCmd
var policyShowCmd = &cobra.Command{
	Use:   "show <preset>",
	Short: "Print a built-in preset as YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runPolicyShow,
}

// policyPresetsCmd
var policyPresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in policy presets",
	RunE:  runPolicyPresets,
}

var policyValidateFile string

func init() {
	policyValidateCmd.Flags().StringVarP(&policyValidateFile, "policy", "P", "", "Path to policy YAML file")
	_ = policyValidateCmd.MarkFlagRequired("policy")

	policyCmd.AddCommand(policyValidateCmd)
	policyCmd.AddCommand(policyShowCmd)
	policyCmd.AddCommand(policyPresetsCmd)
}

// GetPolicyCmd export
func GetPolicyCmd() *cobra.Command {
	return policyCmd
}

func runPolicyValidate(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	sess := receipt.Start(ctx, "licensegate policy validate", os.Args[1:])
	defer func() {
		_ = sess.Finish(err)
	}()

	log := logging.From(ctx)
	start := time.Now()
	defer func() {
		log.Event(ctx, "policy.validate.complete", map[string]any{
			"duration_ms": time.Since(start).Milliseconds(),
			"valid":       err == nil,
		})
	}()

	config, loadErr := policy.Load(policyValidateFile)
	if loadErr != nil {
		return loadErr
	}

	fmt.Printf("Policy %q is valid: %d rule(s), %d exemption(s), %d gate(s)\n",
		config.Name, len(config.Rules), len(config.Exemptions), len(config.Gates))
	return nil
}

func runPolicyShow(cmd *cobra.Command, args []string) error {
	config := policy.GetPreset(args[0])
	if config == nil {
		return fmt.Errorf("unknown preset %q (available: %v)", args[0], policy.ListPresetNames())
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to render preset: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

func runPolicyPresets(cmd *cobra.Command, args []string) error {
	for _, name := range policy.ListPresetNames() {
		preset := policy.MustGetPreset(name)
		fmt.Printf("%-10s %s\n", name, preset.Name)
	}
	return nil
}
