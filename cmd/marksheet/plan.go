package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"marksheet/internal/exitcode"
	"marksheet/internal/ingest"
	"marksheet/internal/logging"
	"marksheet/internal/subject"
	"marksheet/internal/table"
)

var planCmd = &cobra.Command{
	Use:   "plan [subjects-json]",
	Short: "Dry-run: report what an aggregation would change (no writes)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.Verbose)

	if configFile != "" {
		if err := cfg.LoadFromFile(configFile); err != nil {
			log.Error().Err(err).Msg("config load failed")
			os.Exit(exitcode.UsageError)
		}
	}
	if len(args) > 0 {
		if err := cfg.ParseSubjectsArg(args[0]); err != nil {
			log.Warn().Err(err).Msg("could not parse subject list argument, processing all subjects")
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	files, err := ingest.ScanRecords(cfg.InputDir, cfg.RecordSuffix)
	if err != nil {
		log.Error().Err(err).Msg("scan failed")
		os.Exit(exitcode.ValidationError)
	}
	if len(files) == 0 {
		fmt.Printf("No record files in %s; nothing to do.\n", cfg.InputDir)
		return nil
	}

	// The workbook is opened only to seed the registry with its headers;
	// nothing is saved.
	var existing []string
	if _, err := os.Stat(cfg.WorkbookPath); err == nil {
		wb, err := table.OpenWorkbook(cfg.WorkbookPath, cfg.SheetName)
		if err != nil {
			log.Error().Err(err).Msg("workbook open failed")
			os.Exit(exitcode.ValidationError)
		}
		existing = table.Headers(wb)
		wb.Close()
	}

	filter := subject.NewFilter(cfg.Subjects)
	canon := subject.NewCanonicalizer(
		subject.NewRegistry(append(append([]string{}, existing...), filter.Codes()...)...), nil)
	res := ingest.Collect(log, files, canon, filter)

	fmt.Printf("Would write %d rows into %s\n", len(res.USNOrder), cfg.WorkbookPath)
	fmt.Printf("  records: %d parsed, %d skipped, %d duplicate identifiers\n",
		res.RecordsParsed, res.RecordsSkipped, res.DuplicateUSNs)
	fmt.Printf("  subjects: %d seen, %d filtered out\n", res.SubjectsSeen, res.SubjectsFiltered)
	if len(res.NewCodes) > 0 {
		fmt.Printf("  new subject columns: %v\n", res.NewCodes)
	}
	for _, usn := range res.USNOrder {
		fmt.Printf("  %s: %d subjects\n", usn, len(res.Marks[usn]))
	}
	return nil
}
