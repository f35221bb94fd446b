package validator

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// EntryStatus classifies a single logical entry in the comparison.
type EntryStatus string

const (
	// StatusMatched means the entry agrees on both sides.
	StatusMatched EntryStatus = "matched"
	// StatusSizeMismatch means the sizes differ beyond tolerance.
	StatusSizeMismatch EntryStatus = "size_mismatch"
	// StatusContentMismatch means the content fingerprints differ.
	StatusContentMismatch EntryStatus = "content_mismatch"
	// StatusMissing means the entry exists only in the original tree.
	StatusMissing EntryStatus = "missing"
	// StatusExtra means the entry exists only in the extracted tree.
	StatusExtra EntryStatus = "extra"
)

// EntryResult is the comparison outcome for one logical entry, keyed by
// its relative path.
type EntryResult struct {
	// Path is the slash-separated path relative to each root.
	Path string `json:"path"`

	// Dir marks directory entries.
	Dir bool `json:"dir,omitempty"`

	// Status is the single classification for this entry.
	Status EntryStatus `json:"status"`

	// Detail elaborates on non-matched classifications.
	Detail string `json:"detail,omitempty"`
}

// Statistics aggregates the per-entry classifications.
type Statistics struct {
	TotalFilesOriginal   int `json:"total_files_original"`
	TotalFilesExtracted  int `json:"total_files_extracted"`
	TotalDirsOriginal    int `json:"total_dirs_original"`
	TotalDirsExtracted   int `json:"total_dirs_extracted"`
	FilesMatched         int `json:"files_matched"`
	FilesSizeMismatch    int `json:"files_size_mismatch"`
	FilesContentMismatch int `json:"files_content_mismatch"`
	FilesMissing         int `json:"files_missing"`
	FilesExtra           int `json:"files_extra"`
	DirsMatched          int `json:"dirs_matched"`
	DirsMissing          int `json:"dirs_missing"`
	DirsExtra            int `json:"dirs_extra"`
}

// Report is the full outcome of a validation run. It is a pure function
// of the comparison results: persisting or logging it has no side effect
// on classification.
type Report struct {
	// ID uniquely identifies this validation run.
	ID string `json:"report_id"`

	// Timestamp records when the validation ran.
	Timestamp time.Time `json:"timestamp"`

	// OriginalPath is the root treated as the source of truth.
	OriginalPath string `json:"original_path"`

	// ExtractedPath is the root being checked against the original.
	ExtractedPath string `json:"extracted_path"`

	// ValidationPassed is true only when every entry matched and no
	// errors were recorded.
	ValidationPassed bool `json:"validation_passed"`

	// Statistics aggregates the classifications.
	Statistics Statistics `json:"statistics"`

	// Results holds the per-entry classifications, sorted by path.
	Results []EntryResult `json:"results"`

	// Errors lists every recovered error, in order.
	Errors []string `json:"errors"`

	// Warnings lists every non-fatal observation, in order.
	Warnings []string `json:"warnings"`
}

// Save persists the report as an indented JSON document.
func (r *Report) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return f.Close()
}

// LogSummary writes the human-readable summary of the report.
func (r *Report) LogSummary(l *zap.Logger) {
	s := r.Statistics

	l.Info("Directory comparison",
		zap.Int("dirs_original", s.TotalDirsOriginal),
		zap.Int("dirs_extracted", s.TotalDirsExtracted),
		zap.Int("dirs_matched", s.DirsMatched),
		zap.Int("dirs_missing", s.DirsMissing),
		zap.Int("dirs_extra", s.DirsExtra),
	)
	l.Info("File comparison",
		zap.Int("files_original", s.TotalFilesOriginal),
		zap.Int("files_extracted", s.TotalFilesExtracted),
		zap.Int("matched", s.FilesMatched),
		zap.Int("size_mismatch", s.FilesSizeMismatch),
		zap.Int("content_mismatch", s.FilesContentMismatch),
		zap.Int("missing", s.FilesMissing),
		zap.Int("extra", s.FilesExtra),
	)

	for _, msg := range r.Errors {
		l.Error(msg)
	}
	for _, msg := range r.Warnings {
		l.Warn(msg)
	}

	if r.ValidationPassed {
		l.Info("Validation passed: directories match")
	} else {
		l.Error("Validation failed: directories do not match",
			zap.Int("errors", len(r.Errors)),
			zap.Int("warnings", len(r.Warnings)),
		)
	}
}
