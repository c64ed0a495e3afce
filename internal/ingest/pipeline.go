package ingest

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"marksheet/internal/config"
	"marksheet/internal/model"
	"marksheet/internal/subject"
	"marksheet/internal/table"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Run executes the full aggregation pipeline: scan → collect → layout →
// write → save → cleanup. Single-threaded by design: canonicalization for
// later records depends on registry growth from earlier ones.
func Run(log zerolog.Logger, cfg *config.Config) (*model.RunSummary, error) {
	totalStart := time.Now()
	summary := &model.RunSummary{RunID: uuid.New(), WorkbookPath: cfg.WorkbookPath}

	// Phase 1: scan
	log.Info().Str("dir", cfg.InputDir).Str("run_id", summary.RunID.String()).Msg("scanning for record files")
	files, err := ScanRecords(cfg.InputDir, cfg.RecordSuffix)
	if err != nil {
		return nil, &PipelineError{Phase: "scan", Err: err}
	}
	summary.FilesSeen = len(files)

	if len(files) == 0 {
		log.Warn().Str("dir", cfg.InputDir).Msg("no record files found, workbook left untouched")
		if err := Cleanup(log, cfg.InputDir); err != nil {
			log.Warn().Err(err).Msg("input cleanup failed (non-fatal)")
		}
		summary.DurationTotal = time.Since(totalStart)
		return summary, nil
	}

	wb, err := table.OpenWorkbook(cfg.WorkbookPath, cfg.SheetName)
	if err != nil {
		return nil, &PipelineError{Phase: "scan", Err: err}
	}
	defer wb.Close()

	// Phase 2: collect
	collectStart := time.Now()
	filter := subject.NewFilter(cfg.Subjects)
	existing := table.Headers(wb)
	canon := subject.NewCanonicalizer(
		subject.NewRegistry(append(append([]string{}, existing...), filter.Codes()...)...), nil)

	res := Collect(log, files, canon, filter)
	summary.RecordsParsed = res.RecordsParsed
	summary.RecordsSkipped = res.RecordsSkipped
	summary.DuplicateUSNs = res.DuplicateUSNs
	summary.SubjectsSeen = res.SubjectsSeen
	summary.SubjectsFiltered = res.SubjectsFiltered
	summary.NewCodes = res.NewCodes
	summary.DurationCollect = time.Since(collectStart)
	log.Info().
		Int("records", res.RecordsParsed).
		Int("skipped", res.RecordsSkipped).
		Int("duplicates", res.DuplicateUSNs).
		Int("subjects_filtered", res.SubjectsFiltered).
		Strs("new_codes", res.NewCodes).
		Dur("duration", summary.DurationCollect).
		Msg("record collection complete")

	// Phase 3: layout
	layoutStart := time.Now()
	layout := table.Plan(wb, headerCodes(existing, res.Found, filter))
	summary.DurationLayout = time.Since(layoutStart)
	log.Info().
		Int("columns", len(layout.Codes())).
		Dur("duration", summary.DurationLayout).
		Msg("column layout reconciled")

	// Phase 4: write
	writeStart := time.Now()
	for _, usn := range res.USNOrder {
		table.Upsert(wb, layout, usn, res.Marks[usn])
		summary.RowsWritten++
	}
	summary.DurationWrite = time.Since(writeStart)
	log.Info().
		Int("rows", summary.RowsWritten).
		Dur("duration", summary.DurationWrite).
		Msg("rows written")

	// Phase 5: save (the only fatal step after scan)
	if err := wb.Save(); err != nil {
		return nil, &PipelineError{Phase: "save", Err: err}
	}

	// Phase 6: cleanup (non-fatal)
	if err := Cleanup(log, cfg.InputDir); err != nil {
		log.Warn().Err(err).Msg("input cleanup failed (non-fatal)")
	}

	summary.DurationTotal = time.Since(totalStart)
	log.Info().
		Str("workbook", cfg.WorkbookPath).
		Int("rows_written", summary.RowsWritten).
		Int("new_codes", len(summary.NewCodes)).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("aggregation pipeline complete")

	return summary, nil
}

// headerCodes decides which subject codes must appear as columns this run.
// Without a filter: everything found (the planner unions in the existing
// headers itself). With a filter: codes found, existing headers passing the
// filter re-canonicalized against the declared and found codes, and every
// declared code — declared columns exist even when no record mentioned them.
func headerCodes(existing, found []string, filter *subject.Filter) []string {
	if filter.Empty() {
		return found
	}
	out := make([]string, 0, len(found)+len(filter.Codes()))
	seen := make(map[string]struct{})
	add := func(code string) {
		if code == "" {
			return
		}
		if _, dup := seen[code]; dup {
			return
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}

	for _, c := range found {
		add(c)
	}
	canon := subject.NewCanonicalizer(
		subject.NewRegistry(append(append([]string{}, filter.Codes()...), found...)...), nil)
	for _, h := range existing {
		if filter.Match(h) {
			c, _ := canon.Resolve(h)
			add(c)
		}
	}
	for _, c := range filter.Codes() {
		add(c)
	}
	return out
}
