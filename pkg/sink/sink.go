// Package sink persists ingest results. File sinks write atomically via a
// temp file and rename so a crash never leaves a partial document behind.
package sink

import (
	"fmt"
	"os"
	"path/filepath"

	"igingest/pkg/errors"
	"igingest/pkg/models"
)

// timestampLayout matches the scrape time encoded into output filenames.
const timestampLayout = "20060102_150405"

// filename builds "{username}_{YYYYmmdd_HHMMSS}.{ext}" from the snapshot's
// scrape time.
func filename(profile *models.ProfileSnapshot, ext string) string {
	return fmt.Sprintf("%s_%s.%s", profile.Username, profile.ScrapedAt.Format(timestampLayout), ext)
}

// validateResult rejects results a sink cannot name a file for.
func validateResult(result *models.IngestResult) error {
	if result == nil || result.Profile == nil {
		return errors.New(errors.ErrorTypeSink, "result has no profile snapshot")
	}
	if result.Profile.Username == "" {
		return errors.New(errors.ErrorTypeSink, "profile snapshot has no username")
	}
	return nil
}

// writeFileAtomic writes data to path via a temp file in the same directory,
// creating parent directories as needed.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Newf(errors.ErrorTypeSink, "creating directory %s: %v", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.Newf(errors.ErrorTypeSink, "creating temp file: %v", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Newf(errors.ErrorTypeSink, "writing temp file: %v", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Newf(errors.ErrorTypeSink, "closing temp file: %v", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Newf(errors.ErrorTypeSink, "renaming temp file: %v", err)
	}
	return nil
}
