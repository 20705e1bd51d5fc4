package main

import (
	"fmt"

	"github.com/iwvelando/reimburse/internal/batch"
	"github.com/iwvelando/reimburse/pkg/constants"
	"github.com/iwvelando/reimburse/pkg/output"
	"github.com/iwvelando/reimburse/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newBatchCmd(a *app) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "batch <cases.json>",
		Short: "Evaluate a file of trips in parallel",
		Long: `Evaluate every trip in a JSON case file and print the results.

The file is a list of cases:
  [{"input": {"trip_duration_days": 5, "miles_traveled": 900,
              "total_receipts_amount": 300}, "expected_output": 1192.00}]

expected_output is optional. When present, the summary reports exact
(within a cent) and close (within a dollar) matches.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := a.outputFormat
			if format == "" {
				format = constants.OutputFormatPretty
			}
			if err := validation.ValidateBatchOutputFormat(format); err != nil {
				return err
			}

			if !cmd.Flags().Changed("workers") {
				workers = a.conf.Batch.Workers
			}

			cases, err := batch.LoadFile(args[0])
			if err != nil {
				return err
			}

			outcomes, err := batch.Evaluate(cmd.Context(), a.logger, a.engine, cases, workers)
			if err != nil {
				return err
			}
			summary := batch.Summarize(outcomes)

			a.logger.Info("batch complete",
				zap.String("op", "main.batch"),
				zap.String("file", args[0]),
				zap.Int("cases", summary.Count),
				zap.Int("failed", summary.Failed),
				zap.Int("exact", summary.Exact),
			)

			if err := output.WriteBatch(cmd.OutOrStdout(), format, outcomes, summary); err != nil {
				return fmt.Errorf("failed to write results: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "number of parallel workers (default from config, 0 = one per CPU)")
	return cmd
}
