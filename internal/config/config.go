package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults for a run; overridable per flag, env, or config file.
const (
	DefaultWorkbook     = "results.xlsx"
	DefaultInputDir     = "extracted_records"
	DefaultSheetName    = "Results"
	DefaultRecordSuffix = "_marks.json"
)

// Config holds all runtime configuration for a marksheet run.
type Config struct {
	WorkbookPath string
	InputDir     string
	SheetName    string
	RecordSuffix string
	LogFormat    string // "text" or "json"
	Verbose      bool
	Subjects     []string // allow-list filter; empty means no filtering
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	Subjects     []string `yaml:"subjects"`
	RecordSuffix string   `yaml:"record_suffix"`
	SheetName    string   `yaml:"sheet_name"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Flags already set keep priority for scalar fields; subjects accumulate.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	c.Subjects = append(c.Subjects, yc.Subjects...)
	if yc.RecordSuffix != "" {
		c.RecordSuffix = yc.RecordSuffix
	}
	if yc.SheetName != "" {
		c.SheetName = yc.SheetName
	}
	return nil
}

// ParseSubjectsArg decodes the positional subject-list argument, a
// JSON-encoded array of code strings, appending to Subjects.
func (c *Config) ParseSubjectsArg(arg string) error {
	var codes []string
	if err := json.Unmarshal([]byte(arg), &codes); err != nil {
		return fmt.Errorf("parse subject list: %w", err)
	}
	c.Subjects = append(c.Subjects, codes...)
	return nil
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.WorkbookPath == "" {
		return fmt.Errorf("--workbook is required")
	}
	if c.InputDir == "" {
		return fmt.Errorf("--input is required")
	}
	if c.RecordSuffix == "" {
		return fmt.Errorf("record suffix must not be empty")
	}
	if c.SheetName == "" {
		return fmt.Errorf("sheet name must not be empty")
	}
	return nil
}
