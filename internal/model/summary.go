package model

import (
	"time"

	"github.com/google/uuid"
)

// RunSummary captures metrics from a single aggregation run.
type RunSummary struct {
	RunID            uuid.UUID
	WorkbookPath     string
	FilesSeen        int
	RecordsParsed    int
	RecordsSkipped   int
	DuplicateUSNs    int
	SubjectsSeen     int
	SubjectsFiltered int
	NewCodes         []string
	RowsWritten      int
	DurationCollect  time.Duration
	DurationLayout   time.Duration
	DurationWrite    time.Duration
	DurationTotal    time.Duration
}
