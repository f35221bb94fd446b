package extractor

import (
	"fmt"
	"os"
	"path/filepath"

	"dirpack/core/tree"

	"go.uber.org/zap"
)

// Stats summarizes an extraction run.
type Stats struct {
	// Directories is the number of directories created.
	Directories int
	// Files is the number of files written.
	Files int
	// Errors is the number of entries that failed.
	Errors int
}

// Options controls extraction behavior.
type Options struct {
	// Overwrite permits replacing existing files and extracting into a
	// non-empty destination. When false, collisions are refused.
	Overwrite bool
}

// Extractor writes packaged trees back onto the filesystem.
type Extractor struct {
	log   *zap.Logger
	opts  Options
	stats Stats
	errs  []string
}

// New creates an extractor.
func New(log *zap.Logger, opts Options) *Extractor {
	return &Extractor{log: log, opts: opts}
}

// Stats returns the statistics from the last extraction.
func (e *Extractor) Stats() Stats {
	return e.stats
}

// Errors returns the per-entry failures recorded during the last
// extraction, in the order they occurred.
func (e *Extractor) Errors() []string {
	return e.errs
}

// Extract materializes root under destPath. The write is best-effort:
// per-entry failures (collisions, decode errors) are recorded and the
// remaining entries are still written. Only an unusable destination root
// aborts the operation.
func (e *Extractor) Extract(root *tree.DirNode, destPath string) error {
	e.stats = Stats{}
	e.errs = nil

	if err := e.makeDir(destPath); err != nil {
		return fmt.Errorf("failed to create destination %s: %w", destPath, err)
	}

	e.extractChildren(root, destPath)
	return nil
}

func (e *Extractor) extractChildren(dir *tree.DirNode, dirPath string) {
	for _, child := range dir.Children {
		childPath := filepath.Join(dirPath, child.NodeName())
		switch node := child.(type) {
		case *tree.DirNode:
			e.extractDir(node, childPath)
		case *tree.FileNode:
			e.extractFile(node, childPath)
		}
	}
}

func (e *Extractor) extractDir(dir *tree.DirNode, dirPath string) {
	if err := e.makeDir(dirPath); err != nil {
		e.recordError(dirPath, fmt.Errorf("failed to create directory: %w", err))
		return
	}
	e.extractChildren(dir, dirPath)
}

// makeDir ensures dirPath exists, counting it as created only when it
// was not already present.
func (e *Extractor) makeDir(dirPath string) error {
	_, statErr := os.Stat(dirPath)
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return err
	}
	if os.IsNotExist(statErr) {
		e.stats.Directories++
		e.log.Debug("Created directory", zap.String("path", dirPath))
	}
	return nil
}

func (e *Extractor) extractFile(file *tree.FileNode, filePath string) {
	if !e.opts.Overwrite {
		if _, err := os.Stat(filePath); err == nil {
			e.recordError(filePath, fmt.Errorf("collision: file already exists"))
			return
		}
	}

	data, err := e.fileBytes(file)
	if err != nil {
		e.recordError(filePath, err)
		return
	}

	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		e.recordError(filePath, fmt.Errorf("failed to write file: %w", err))
		return
	}
	e.stats.Files++
	e.log.Debug("Created file", zap.String("path", filePath), zap.Int("bytes", len(data)))

	if !file.Modified.IsZero() {
		// Timestamp restoration is cosmetic; a failure here is not an
		// extraction error.
		_ = os.Chtimes(filePath, file.Modified, file.Modified)
	}
}

// fileBytes resolves the bytes to write for a file node. Nodes without a
// usable payload (capture omitted by policy, or recorded as a read or
// access error) materialize as empty files.
func (e *Extractor) fileBytes(file *tree.FileNode) ([]byte, error) {
	if file.Err != "" || file.Content == nil || file.Content.Kind == tree.KindError {
		return []byte{}, nil
	}
	data, err := file.Content.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}
	return data, nil
}

func (e *Extractor) recordError(path string, err error) {
	e.stats.Errors++
	msg := fmt.Sprintf("%s: %v", path, err)
	e.errs = append(e.errs, msg)
	e.log.Warn("Extraction entry failed", zap.String("path", path), zap.Error(err))
}
