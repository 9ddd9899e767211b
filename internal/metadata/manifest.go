package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ExportFile describes a single result file written by an engine run.
type ExportFile struct {
	Path        string `json:"path"`
	Table       string `json:"table"`
	Format      string `json:"format"`
	FileSize    int64  `json:"file_size_in_bytes"`
	RecordCount int64  `json:"record_count"`
}

// Manifest records everything one run exported, keyed by the run ID and the
// content hash of the inputs that produced it.
type Manifest struct {
	RunID          string       `json:"run_id"`
	InputHash      string       `json:"input_hash"`
	CreatedAt      time.Time    `json:"created_at"`
	CurrentPeriod  int          `json:"current_period,omitempty"`
	PreviousPeriod int          `json:"previous_period,omitempty"`
	Files          []ExportFile `json:"files"`
}

// Recorder incrementally builds the manifest for a run and writes it under
// <dir>/metadata alongside a catalog entry pointing at the latest run.
type Recorder struct {
	dir      string
	manifest Manifest
}

// NewRecorder returns a manifest recorder rooted at dir.
func NewRecorder(dir, runID, inputHash string) *Recorder {
	return &Recorder{
		dir: dir,
		manifest: Manifest{
			RunID:     runID,
			InputHash: inputHash,
			CreatedAt: time.Now().UTC(),
		},
	}
}

// SetPeriods records the bridge period pair the run resolved.
func (r *Recorder) SetPeriods(current, previous int) {
	r.manifest.CurrentPeriod = current
	r.manifest.PreviousPeriod = previous
}

// AddFile records a newly written export file.
func (r *Recorder) AddFile(f ExportFile) {
	r.manifest.Files = append(r.manifest.Files, f)
}

// Write persists the manifest and updates the latest-run catalog entry.
func (r *Recorder) Write() error {
	metaDir := filepath.Join(r.dir, "metadata")
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		return err
	}

	b, err := json.MarshalIndent(r.manifest, "", "  ")
	if err != nil {
		return err
	}
	manifestPath := filepath.Join(metaDir, fmt.Sprintf("manifest-%s.json", r.manifest.RunID))
	if err := os.WriteFile(manifestPath, b, 0o644); err != nil {
		return err
	}

	latest := map[string]string{
		"run_id":            r.manifest.RunID,
		"manifest_location": manifestPath,
	}
	lb, err := json.MarshalIndent(latest, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(metaDir, "latest.json"), lb, 0o644)
}
