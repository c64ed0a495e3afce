// mkrecords writes a batch of synthetic record files shaped like the
// extraction collaborator's output, for exercising the aggregation pipeline
// without running an extraction.
// Usage: go run ./cmd/mkrecords --out extracted_records --count 20 --noisy
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"marksheet/internal/model"
)

var subjectPool = []string{"BCS401", "BCS402", "BCS403", "BCSL404", "BCS405A", "BBOC407"}

// noisySpellings are the raw-code corruptions the extraction step produces.
var noisySpellings = map[string][]string{
	"BCS401":  {"bcs401", "BCS-401", "BCS401."},
	"BCS405A": {"BCS405A.", "bcs 405a"},
}

func main() {
	out := flag.String("out", "extracted_records", "output directory for record files")
	count := flag.Int("count", 10, "number of identifiers to generate")
	suffix := flag.String("suffix", "_marks.json", "record filename suffix")
	noisy := flag.Bool("noisy", false, "corrupt some subject-code spellings")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	if err := os.MkdirAll(*out, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir output: %v\n", err)
		os.Exit(1)
	}

	for i := 0; i < *count; i++ {
		usn := fmt.Sprintf("1AB21CS%03d", i+1)
		rec := model.StudentRecord{USN: usn}
		for _, code := range subjectPool {
			internal := 20 + rng.Intn(30)
			external := 15 + rng.Intn(45)
			result := "P"
			switch {
			case external < 21:
				result = "F"
			case rng.Intn(20) == 0:
				result = "A"
			}
			raw := code
			if *noisy {
				if alts := noisySpellings[code]; len(alts) > 0 && rng.Intn(2) == 0 {
					raw = alts[rng.Intn(len(alts))]
				}
			}
			entry := model.SubjectEntry{
				Code:     raw,
				Internal: internal,
				External: external,
				Result:   result,
			}
			// Leave Total absent now and then; the engine derives it.
			if rng.Intn(3) != 0 {
				entry.Total = internal + external
			}
			rec.Subjects = append(rec.Subjects, entry)
		}

		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "marshal %s: %v\n", usn, err)
			os.Exit(1)
		}
		path := filepath.Join(*out, usn+*suffix)
		if err := os.WriteFile(path, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
			os.Exit(1)
		}
	}
	fmt.Printf("Wrote %d record files to %s\n", *count, *out)
}
