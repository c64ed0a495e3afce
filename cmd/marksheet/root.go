package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"marksheet/internal/config"
	"marksheet/internal/exitcode"
)

var (
	cfg        config.Config
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "marksheet",
	Short: "Consolidates extracted student result records into a structured workbook",
	Long: "Reads per-identifier result records produced by the extraction step, reconciles\n" +
		"noisy subject codes into canonical columns, and upserts the marks into a\n" +
		"persistent spreadsheet without losing data from earlier runs.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.WorkbookPath, "workbook", envOr("MARKSHEET_WORKBOOK", config.DefaultWorkbook), "Path of the output workbook (or set MARKSHEET_WORKBOOK)")
	pf.StringVar(&cfg.InputDir, "input", envOr("MARKSHEET_INPUT_DIR", config.DefaultInputDir), "Directory holding extracted record files (or set MARKSHEET_INPUT_DIR)")
	pf.StringVar(&cfg.SheetName, "sheet", config.DefaultSheetName, "Worksheet name")
	pf.StringVar(&cfg.RecordSuffix, "record-suffix", config.DefaultRecordSuffix, "Filename suffix that marks a record file")
	pf.StringVar(&configFile, "config", "", "Optional YAML config file (subjects, record_suffix, sheet_name)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.BoolVar(&cfg.Verbose, "verbose", false, "Log per-subject filter decisions")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
