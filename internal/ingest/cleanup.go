package ingest

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Cleanup removes the input record directory after a completed run.
func Cleanup(log zerolog.Logger, dir string) error {
	start := time.Now()
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove input dir: %w", err)
	}
	log.Info().
		Str("dir", dir).
		Dur("duration", time.Since(start)).
		Msg("input cleanup complete")
	return nil
}
