package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/licensegate/licensegate/internal/observability"
	"github.com/licensegate/licensegate/internal/observability/logging"
	otelobs "github.com/licensegate/licensegate/internal/observability/otel"
	"github.com/licensegate/licensegate/internal/observability/receipt"
	"github.com/licensegate/licensegate/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "licensegate",
	Short: "License compliance gate for dependency scans",
	Long: `licensegate evaluates dependency scans against license policies,
explains violations, and drives the curation and approval workflow.`,
	Version: version.BuildVersion(),
}

var (
	logFormatFlag   string
	logLevelFlag    string
	logOutputFlag   string
	receiptFlag     string
	receiptModeFlag string
	otelFlag        bool
	otelEndpoint    string
	otelProtocol    string
	otelInsecure    bool
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logFormatFlag, "log-format", "pretty", "Log format: pretty or jsonl")
	pf.StringVar(&logLevelFlag, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&logOutputFlag, "log-output", "stderr", "Log output: stderr or a file path")
	pf.StringVar(&receiptFlag, "receipt", "", "Write an evidence receipt to this path")
	pf.StringVar(&receiptModeFlag, "receipt-mode", "overwrite", "Receipt write mode: overwrite or append")
	pf.BoolVar(&otelFlag, "otel", false, "Enable OpenTelemetry tracing")
	pf.StringVar(&otelEndpoint, "otel-endpoint", "", "OTLP endpoint (defaults per protocol)")
	pf.StringVar(&otelProtocol, "otel-protocol", otelobs.ProtocolHTTP, "OTLP protocol: otlphttp or otlpgrpc")
	pf.BoolVar(&otelInsecure, "otel-insecure", false, "Allow insecure OTLP connections")

	rootCmd.AddCommand(GetEvaluateCmd())
	rootCmd.AddCommand(GetExplainCmd())
	rootCmd.AddCommand(GetDiffCmd())
	rootCmd.AddCommand(GetPolicyCmd())
	rootCmd.AddCommand(GetCurateCmd())
}

func Execute() {
	ctx, cleanup, err := setupContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer cleanup()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

// setupContext wires op id, logger, receipt writer and tracing into the
// context every command runs with.
func setupContext(ctx context.Context) (context.Context, func(), error) {
	ctx = observability.WithOpID(ctx)

	// flags are not parsed yet; scan os.Args so observability covers
	// flag errors too
	applyGlobalFlags(os.Args[1:])

	logger, err := logging.NewLogger(logging.Config{
		Format: logFormatFlag,
		Level:  logLevelFlag,
		Output: logOutputFlag,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log output: %w", err)
	}
	ctx = logging.WithLogger(ctx, logger)

	var receiptWriter receipt.Writer
	if receiptFlag != "" {
		receiptWriter, err = receipt.NewWriter(receiptFlag, receiptModeFlag)
		if err != nil {
			logger.Close()
			return nil, nil, err
		}
		ctx = receipt.WithWriter(ctx, receiptWriter)
	}

	var otelHandle *otelobs.Handle
	if otelFlag {
		cfg := otelobs.DefaultConfig()
		cfg.Enabled = true
		cfg.Endpoint = otelEndpoint
		cfg.Protocol = otelProtocol
		cfg.Insecure = otelInsecure
		otelHandle, err = otelobs.Init(ctx, cfg)
		if err != nil {
			logger.Close()
			return nil, nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
		ctx = otelobs.WithHandle(ctx, otelHandle)
	}

	cleanup := func() {
		if otelHandle != nil {
			_ = otelHandle.Shutdown(context.Background())
		}
		if receiptWriter != nil {
			_ = receiptWriter.Close()
		}
		_ = logger.Close()
	}
	return ctx, cleanup, nil
}

// applyGlobalFlags pre-reads the persistent flags cobra will parse again
// later, so logging and receipts are live before command dispatch.
func applyGlobalFlags(args []string) {
	fs := rootCmd.PersistentFlags()
	fs.ParseErrorsWhitelist.UnknownFlags = true
	_ = fs.Parse(args)
}
