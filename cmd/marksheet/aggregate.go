package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"marksheet/internal/exitcode"
	"marksheet/internal/ingest"
	"marksheet/internal/logging"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate [subjects-json]",
	Short: "Aggregate extracted records into the workbook",
	Long: "Runs the full pipeline: scan records, canonicalize subject codes, reconcile the\n" +
		"column layout, upsert rows, save the workbook, and remove the input directory.\n" +
		"The optional positional argument is a JSON array of subject codes to filter by.",
	Args: cobra.MaximumNArgs(1),
	RunE: runAggregate,
}

func init() {
	f := aggregateCmd.Flags()
	f.StringSliceVar(&cfg.Subjects, "subjects", nil, "Subject codes to filter by (empty = all)")
	rootCmd.AddCommand(aggregateCmd)
}

func runAggregate(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.Verbose)

	if configFile != "" {
		if err := cfg.LoadFromFile(configFile); err != nil {
			log.Error().Err(err).Msg("config load failed")
			os.Exit(exitcode.UsageError)
		}
	}
	if len(args) > 0 {
		if err := cfg.ParseSubjectsArg(args[0]); err != nil {
			// Mirror the extraction side's contract: a bad filter argument
			// means no filtering, not a dead run.
			log.Warn().Err(err).Msg("could not parse subject list argument, processing all subjects")
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	summary, err := ingest.Run(log, &cfg)
	if err != nil {
		var pe *ingest.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("aggregation failed")
			switch pe.Phase {
			case "scan":
				os.Exit(exitcode.ValidationError)
			case "save":
				os.Exit(exitcode.SaveError)
			default:
				os.Exit(exitcode.WriteError)
			}
		}
		log.Error().Err(err).Msg("aggregation failed")
		os.Exit(exitcode.WriteError)
	}

	fmt.Printf("Aggregation complete: %d rows written, %d records skipped, %d new subjects (%.1fs)\n",
		summary.RowsWritten, summary.RecordsSkipped, len(summary.NewCodes), summary.DurationTotal.Seconds())
	return nil
}
