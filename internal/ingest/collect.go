package ingest

import (
	"strings"

	"github.com/rs/zerolog"

	"marksheet/internal/model"
	"marksheet/internal/normalize"
	"marksheet/internal/subject"
)

// CollectResult accumulates one run's reconciled contribution before any
// cell is written.
type CollectResult struct {
	// Marks maps identifier -> canonical code -> marks.
	Marks map[string]map[string]model.SubjectMarks
	// USNOrder lists identifiers in first-seen order.
	USNOrder []string
	// Found lists canonical codes accepted this run (post filter), in
	// first-seen order.
	Found []string
	// NewCodes lists accepted codes minted this run.
	NewCodes []string

	RecordsParsed    int
	RecordsSkipped   int
	DuplicateUSNs    int
	SubjectsSeen     int
	SubjectsFiltered int
}

// Collect reads every record file, canonicalizes subject codes against the
// growing registry, applies the filter, and accumulates per-identifier
// marks. Per-record problems are logged and skipped; Collect itself never
// fails, the run continues with whatever parsed.
func Collect(log zerolog.Logger, files []string, canon *subject.Canonicalizer, filter *subject.Filter) *CollectResult {
	res := &CollectResult{Marks: make(map[string]map[string]model.SubjectMarks)}
	foundSet := make(map[string]struct{})

	for _, path := range files {
		rec, err := ReadRecord(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("skipping unreadable record")
			res.RecordsSkipped++
			continue
		}

		usn := normalize.USN(rec.USN)
		if usn == "" {
			log.Warn().Str("file", path).Msg("skipping record without identifier")
			res.RecordsSkipped++
			continue
		}
		if _, dup := res.Marks[usn]; dup {
			log.Warn().Str("usn", usn).Str("file", path).Msg("skipping duplicate identifier, first record wins")
			res.DuplicateUSNs++
			continue
		}

		res.Marks[usn] = make(map[string]model.SubjectMarks)
		res.USNOrder = append(res.USNOrder, usn)
		res.RecordsParsed++

		for _, sub := range rec.Subjects {
			raw := strings.TrimSpace(sub.Code)
			if raw == "" {
				continue
			}
			res.SubjectsSeen++

			code, isNew := canon.Resolve(raw)
			if code == "" {
				continue
			}

			// The canonical code may have collapsed a wanted variant into an
			// unwanted base, so the raw spelling gets a second chance.
			if !filter.Match(code) && !filter.Match(raw) {
				log.Debug().Str("usn", usn).Str("code", raw).Msg("subject not in filter, dropped")
				res.SubjectsFiltered++
				continue
			}

			if _, ok := foundSet[code]; !ok {
				foundSet[code] = struct{}{}
				res.Found = append(res.Found, code)
				if isNew {
					res.NewCodes = append(res.NewCodes, code)
				}
			}

			total := sub.Total
			if model.Blank(total) {
				if i, ok := model.IntValue(sub.Internal); ok {
					if e, ok2 := model.IntValue(sub.External); ok2 {
						total = i + e
					}
				}
			}

			res.Marks[usn][code] = model.SubjectMarks{
				Internal: sub.Internal,
				External: sub.External,
				Total:    total,
				Result:   normalize.Result(sub.Result),
			}
		}
	}
	return res
}
