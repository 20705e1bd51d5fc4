package main

import (
	"fmt"
	"io"

	"github.com/iwvelando/reimburse/internal/config"
	"github.com/iwvelando/reimburse/internal/reimbursement"
	"github.com/iwvelando/reimburse/pkg/constants"
	"github.com/iwvelando/reimburse/pkg/output"
	"github.com/iwvelando/reimburse/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the flags and the state built from them by the persistent
// pre-run hook.
type app struct {
	configPath   string
	outputFormat string
	logLevel     string

	conf   *config.Configuration
	logger *zap.Logger
	engine *reimbursement.Engine
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "reimburse <days> <miles> <receipts>",
		Short: "Compute a travel reimbursement",
		Long: `reimburse computes the reimbursement for a business trip from its
length in days, the miles driven and the total of submitted receipts.

The result is printed to stdout with two decimals. Logs and errors go to
stderr.

Examples:
  reimburse 5 900 300
  reimburse --output-format pretty 1 1200 1500
  reimburse batch cases.json
  reimburse serve`,
		Args:              tripArgs,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
		RunE:              a.runSingle,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	// Stop flag parsing at the first positional so negative amounts reach
	// the input validator.
	rootCmd.Flags().SetInterspersed(false)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	flags.StringVar(&a.outputFormat, "output-format", "", "output format override: plain, json, pretty (batch: pretty, csv, json)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(newBatchCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newRulesCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// tripArgs reports a wrong positional argument count as an input error.
func tripArgs(_ *cobra.Command, args []string) error {
	return reimbursement.CheckArgumentCount(args)
}

// setup loads the configuration, initializes logging and builds the engine.
// A missing default config file is not an error; a missing file named with
// --config is.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var err error
	if cmd.Flags().Changed("config") {
		a.conf, err = config.LoadConfiguration(a.configPath)
	} else {
		a.conf, err = config.LoadOptional(a.configPath)
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", a.configPath, err)
	}

	a.logger, err = initializeLogger(a.conf.Logging, a.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	for _, warning := range a.conf.ValidateConfiguration() {
		a.logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	a.engine, err = reimbursement.New(a.logger, a.conf.Rules)
	if err != nil {
		return err
	}
	return nil
}

func (a *app) teardown(_ *cobra.Command, _ []string) {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// singleFormat resolves the output format: CLI override, then config, then
// plain.
func (a *app) singleFormat() (string, error) {
	format := a.conf.Output.Format
	if a.outputFormat != "" {
		format = a.outputFormat
	}
	if format == "" {
		format = constants.OutputFormatPlain
	}
	return format, validation.ValidateOutputFormat(format)
}

func (a *app) runSingle(cmd *cobra.Command, args []string) error {
	format, err := a.singleFormat()
	if err != nil {
		return err
	}

	trip, err := reimbursement.ParseTrip(args)
	if err != nil {
		a.logger.Debug("rejected input",
			zap.String("op", "main"),
			zap.Strings("args", args),
			zap.Error(err),
		)
		return err
	}

	result := a.engine.Evaluate(trip)
	return output.Write(cmd.OutOrStdout(), format, result)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// The version needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		PersistentPostRun: func(*cobra.Command, []string) {},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "reimburse version %s\n", version)
			return err
		},
	}
}
