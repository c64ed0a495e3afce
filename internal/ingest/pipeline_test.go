package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"marksheet/internal/config"
	"marksheet/internal/table"
)

// ---------- helpers ----------

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		WorkbookPath: filepath.Join(dir, "results.xlsx"),
		InputDir:     filepath.Join(dir, "records"),
		SheetName:    config.DefaultSheetName,
		RecordSuffix: config.DefaultRecordSuffix,
	}
}

func writeRecord(t *testing.T, cfg *config.Config, name, content string) {
	t.Helper()
	if err := os.MkdirAll(cfg.InputDir, 0755); err != nil {
		t.Fatalf("mkdir input: %v", err)
	}
	path := filepath.Join(cfg.InputDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write record %s: %v", name, err)
	}
}

func runPipeline(t *testing.T, cfg *config.Config) {
	t.Helper()
	if _, err := Run(zerolog.Nop(), cfg); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

// snapshot reads the workbook into a comparable cell grid.
func snapshot(t *testing.T, cfg *config.Config) [][]string {
	t.Helper()
	w, err := table.OpenWorkbook(cfg.WorkbookPath, cfg.SheetName)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer w.Close()
	rows := make([][]string, 0, w.Rows())
	for r := 1; r <= w.Rows(); r++ {
		cells := make([]string, 0, w.Cols())
		for c := 1; c <= w.Cols(); c++ {
			cells = append(cells, w.Cell(r, c))
		}
		rows = append(rows, cells)
	}
	return rows
}

func openResult(t *testing.T, cfg *config.Config) *table.Workbook {
	t.Helper()
	w, err := table.OpenWorkbook(cfg.WorkbookPath, cfg.SheetName)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

const recordOne = `{"USN":"1AB21CS001","Subjects":[
	{"Code":"BCS405","Internal":40,"External":49,"Total":89,"Result":"P"},
	{"Code":"BEC601","Internal":12,"External":20,"Total":32,"Result":"F"}]}`

// ---------- tests ----------

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	writeRecord(t, cfg, "1AB21CS001_marks.json", recordOne)
	writeRecord(t, cfg, "1AB21CS002_marks.json",
		`{"USN":"1AB21CS002","Subjects":[{"Code":"BCS405","Internal":10,"External":20,"Total":30,"Result":"A"}]}`)

	summary, err := Run(zerolog.Nop(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.RecordsParsed != 2 || summary.RowsWritten != 2 {
		t.Errorf("summary: parsed=%d written=%d", summary.RecordsParsed, summary.RowsWritten)
	}
	if len(summary.NewCodes) != 2 {
		t.Errorf("new codes = %v", summary.NewCodes)
	}
	if _, err := os.Stat(cfg.InputDir); !os.IsNotExist(err) {
		t.Error("input directory should be removed after a successful run")
	}

	w := openResult(t, cfg)
	h := table.Headers(w)
	if len(h) != 2 || h[0] != "BCS405" || h[1] != "BEC601" {
		t.Fatalf("headers = %v", h)
	}
	if w.Cell(3, 1) != "1AB21CS001" || w.Cell(4, 1) != "1AB21CS002" {
		t.Errorf("identifiers: %q, %q", w.Cell(3, 1), w.Cell(4, 1))
	}
	if w.Cell(3, 2) != "40" || w.Cell(3, 5) != "P" {
		t.Errorf("BCS405 row 3 = %q .. %q", w.Cell(3, 2), w.Cell(3, 5))
	}
	if w.Marker(3, 9) != table.MarkerFail {
		t.Error("BEC601 fail marker missing")
	}
	if w.Marker(4, 5) != table.MarkerAbsent {
		t.Error("absent marker missing")
	}
}

func TestRunIdempotent(t *testing.T) {
	cfg := testConfig(t)
	writeRecord(t, cfg, "1AB21CS001_marks.json", recordOne)
	runPipeline(t, cfg)
	first := snapshot(t, cfg)

	// Same input again: the outcome must not change.
	writeRecord(t, cfg, "1AB21CS001_marks.json", recordOne)
	runPipeline(t, cfg)
	second := snapshot(t, cfg)

	if len(first) != len(second) {
		t.Fatalf("row count changed: %d -> %d", len(first), len(second))
	}
	for r := range first {
		if len(first[r]) != len(second[r]) {
			t.Fatalf("row %d width changed: %d -> %d", r+1, len(first[r]), len(second[r]))
		}
		for c := range first[r] {
			if first[r][c] != second[r][c] {
				t.Errorf("cell (%d,%d) changed: %q -> %q", r+1, c+1, first[r][c], second[r][c])
			}
		}
	}
}

func TestRunLayoutIntegrityAcrossRuns(t *testing.T) {
	cfg := testConfig(t)
	writeRecord(t, cfg, "1AB21CS001_marks.json",
		`{"USN":"1AB21CS001","Subjects":[{"Code":"BCT205","Internal":40,"External":49,"Total":89,"Result":"P"}]}`)
	runPipeline(t, cfg)

	// Run 2 introduces a code sorting before BCT205.
	writeRecord(t, cfg, "1AB21CS002_marks.json",
		`{"USN":"1AB21CS002","Subjects":[{"Code":"BAD101","Internal":30,"External":30,"Total":60,"Result":"P"}]}`)
	runPipeline(t, cfg)

	w := openResult(t, cfg)
	h := table.Headers(w)
	if len(h) != 2 || h[0] != "BAD101" || h[1] != "BCT205" {
		t.Fatalf("headers = %v", h)
	}
	// BCT205 now lives at columns 6-9; run-1 marks must read back there.
	wants := []string{"40", "49", "89", "P"}
	for off, want := range wants {
		if got := w.Cell(3, 6+off); got != want {
			t.Errorf("BCT205 cell (3,%d) = %q, want %q", 6+off, got, want)
		}
	}
	if w.Marker(3, 9) != table.MarkerPass {
		t.Error("run-1 pass marker lost after reorder")
	}
}

func TestRunDerivedTotal(t *testing.T) {
	cfg := testConfig(t)
	writeRecord(t, cfg, "1AB21CS001_marks.json",
		`{"USN":"1AB21CS001","Subjects":[{"Code":"BCS405","Internal":40,"External":49,"Total":null,"Result":"P"}]}`)
	runPipeline(t, cfg)

	w := openResult(t, cfg)
	if got := w.Cell(3, 4); got != "89" {
		t.Errorf("derived total = %q, want 89", got)
	}
}

func TestRunDuplicateIdentifier(t *testing.T) {
	cfg := testConfig(t)
	// Files process in name order; the first wins.
	writeRecord(t, cfg, "a_marks.json",
		`{"USN":"1AB21CS001","Subjects":[{"Code":"BCS405","Internal":11,"External":11,"Total":22,"Result":"F"}]}`)
	writeRecord(t, cfg, "b_marks.json",
		`{"USN":"1AB21CS001","Subjects":[{"Code":"BCS405","Internal":99,"External":99,"Total":198,"Result":"P"}]}`)

	summary, err := Run(zerolog.Nop(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.DuplicateUSNs != 1 {
		t.Errorf("duplicates = %d", summary.DuplicateUSNs)
	}
	w := openResult(t, cfg)
	if w.Cell(3, 2) != "11" || w.Cell(3, 5) != "F" {
		t.Errorf("first record should win: %q %q", w.Cell(3, 2), w.Cell(3, 5))
	}
	if w.Rows() != 3 {
		t.Errorf("rows = %d, want a single data row", w.Rows())
	}
}

func TestRunMalformedRecordSkipped(t *testing.T) {
	cfg := testConfig(t)
	writeRecord(t, cfg, "bad_marks.json", `{not json`)
	writeRecord(t, cfg, "good_marks.json", recordOne)

	summary, err := Run(zerolog.Nop(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.RecordsSkipped != 1 || summary.RecordsParsed != 1 {
		t.Errorf("skipped=%d parsed=%d", summary.RecordsSkipped, summary.RecordsParsed)
	}
}

func TestRunEmptyInputLeavesWorkbookAlone(t *testing.T) {
	cfg := testConfig(t)
	if err := os.MkdirAll(cfg.InputDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// A non-record file must not count.
	os.WriteFile(filepath.Join(cfg.InputDir, "notes.txt"), []byte("x"), 0644)

	summary, err := Run(zerolog.Nop(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.FilesSeen != 0 || summary.RowsWritten != 0 {
		t.Errorf("summary: seen=%d written=%d", summary.FilesSeen, summary.RowsWritten)
	}
	if _, err := os.Stat(cfg.WorkbookPath); !os.IsNotExist(err) {
		t.Error("workbook must not be created on an empty run")
	}
	if _, err := os.Stat(cfg.InputDir); !os.IsNotExist(err) {
		t.Error("empty input directory should still be removed")
	}
}

func TestRunFilterBidirectional(t *testing.T) {
	cfg := testConfig(t)
	cfg.Subjects = []string{"BCS405"}
	writeRecord(t, cfg, "1AB21CS001_marks.json",
		`{"USN":"1AB21CS001","Subjects":[
			{"Code":"BCS405B","Internal":40,"External":49,"Total":89,"Result":"P"},
			{"Code":"BEC601","Internal":1,"External":2,"Total":3,"Result":"F"}]}`)

	summary, err := Run(zerolog.Nop(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.SubjectsFiltered != 1 {
		t.Errorf("filtered = %d, want 1 (BEC601)", summary.SubjectsFiltered)
	}
	w := openResult(t, cfg)
	h := table.Headers(w)
	// BCS405B collapses onto the declared BCS405; BEC601 is excluded.
	if len(h) != 1 || h[0] != "BCS405" {
		t.Fatalf("headers = %v", h)
	}
	if w.Cell(3, 2) != "40" {
		t.Errorf("marks under declared column = %q", w.Cell(3, 2))
	}
}

func TestRunDeclaredCodesAlwaysGetColumns(t *testing.T) {
	cfg := testConfig(t)
	cfg.Subjects = []string{"BXX999", "BCS405"}
	writeRecord(t, cfg, "1AB21CS001_marks.json",
		`{"USN":"1AB21CS001","Subjects":[{"Code":"BCS405","Internal":40,"External":49,"Total":89,"Result":"P"}]}`)
	runPipeline(t, cfg)

	w := openResult(t, cfg)
	h := table.Headers(w)
	if len(h) != 2 || h[0] != "BCS405" || h[1] != "BXX999" {
		t.Errorf("declared code without data should still have a column: %v", h)
	}
}

func TestScanRecordsMatchesSuffixOnly(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "b_marks.json"), []byte("{}"), 0644)
	os.WriteFile(filepath.Join(dir, "a_marks.json"), []byte("{}"), 0644)
	os.WriteFile(filepath.Join(dir, "skip.json"), []byte("{}"), 0644)

	files, err := ScanRecords(dir, "_marks.json")
	if err != nil {
		t.Fatalf("ScanRecords: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %v", files)
	}
	if filepath.Base(files[0]) != "a_marks.json" {
		t.Errorf("files not sorted: %v", files)
	}
}
