package feed

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SnapshotPath is where a given date's raw feed lives on disk. Existence
// of the file gates re-fetching: the cache is date-keyed, not time-keyed.
func SnapshotPath(dataDir string, day time.Time) string {
	return filepath.Join(dataDir, fmt.Sprintf("tv-data-%s.xml", day.Format("2006-01-02")))
}

// SnapshotExists reports whether the date's feed was already downloaded.
func SnapshotExists(dataDir string, day time.Time) bool {
	_, err := os.Stat(SnapshotPath(dataDir, day))
	return err == nil
}

// WriteSnapshot persists the raw feed bytes for the date.
func WriteSnapshot(dataDir string, day time.Time, data []byte) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(SnapshotPath(dataDir, day), data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot loads the stored feed bytes for the date.
func ReadSnapshot(dataDir string, day time.Time) ([]byte, error) {
	data, err := os.ReadFile(SnapshotPath(dataDir, day))
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return data, nil
}
