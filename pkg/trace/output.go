package trace

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Output bundles the destinations a finished trace is flushed to.
// Archive is optional; nil skips it.
type Output struct {
	CSVPath  string
	PlotPath string
	Archive  *Archive
}

// Flush writes the samples to every configured destination, in order: CSV,
// plot, archive. It returns the first error; the caller still owns the
// in-memory log, so a failed flush can be retried.
func (o *Output) Flush(runID uuid.UUID, startedAt time.Time, samples []Sample) error {
	f, err := os.Create(o.CSVPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", o.CSVPath, err)
	}
	if err := WriteCSV(f, samples); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", o.CSVPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", o.CSVPath, err)
	}

	if err := RenderPNG(o.PlotPath, samples); err != nil {
		return err
	}

	if o.Archive != nil {
		if err := o.Archive.SaveRun(runID, startedAt, samples); err != nil {
			return fmt.Errorf("archive run %s: %w", runID, err)
		}
	}

	return nil
}
