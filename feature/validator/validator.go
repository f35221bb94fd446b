package validator

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"dirpack/core/ignore"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// binaryLikelyExtensions marks files whose size is allowed to drift
// within the tolerance band. The capture transform can shift binary
// sizes slightly; text files must match exactly.
var binaryLikelyExtensions = map[string]struct{}{
	".xlsx": {}, ".xls": {}, ".doc": {}, ".docx": {}, ".pdf": {},
	".zip": {}, ".rar": {}, ".7z": {}, ".tar": {}, ".gz": {},
	".exe": {}, ".dll": {}, ".so": {}, ".dylib": {}, ".bin": {},
	".img": {}, ".iso": {}, ".mp3": {}, ".mp4": {}, ".avi": {},
	".mkv": {}, ".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {},
	".bmp": {}, ".tiff": {},
}

const (
	// defaultContentCeiling is the size above which content
	// fingerprints are not computed; size alone decides.
	defaultContentCeiling = 50 * 1024 * 1024

	// defaultBinaryHashCeiling is the size above which binary-likely
	// files within size tolerance skip fingerprinting.
	defaultBinaryHashCeiling = 1024 * 1024

	// absoluteTolerance is the fixed size allowance for binary-likely
	// files, taken when larger than the relative allowance.
	absoluteTolerance = 500
)

// Options controls comparison behavior.
type Options struct {
	// ContentCeiling overrides the content-comparison size ceiling.
	// Zero keeps the 50 MB default.
	ContentCeiling int64

	// BinaryHashCeiling overrides the binary fingerprint ceiling.
	// Zero keeps the 1 MB default.
	BinaryHashCeiling int64
}

// Validator compares two directory trees under a shared ignore policy.
type Validator struct {
	matcher *ignore.Matcher
	log     *zap.Logger
	opts    Options

	errors   []string
	warnings []string
}

// fileEntry is one side's view of a file, keyed externally by relative path.
type fileEntry struct {
	absPath string
	size    int64
}

// treeIndex holds one side's scan results keyed by relative path.
type treeIndex struct {
	files map[string]fileEntry
	dirs  map[string]struct{}
}

// New creates a validator sharing the packaging ignore rules.
func New(matcher *ignore.Matcher, log *zap.Logger, opts Options) *Validator {
	if opts.ContentCeiling <= 0 {
		opts.ContentCeiling = defaultContentCeiling
	}
	if opts.BinaryHashCeiling <= 0 {
		opts.BinaryHashCeiling = defaultBinaryHashCeiling
	}
	return &Validator{matcher: matcher, log: log, opts: opts}
}

// Validate re-scans both roots and produces the comparison report.
// Either root missing or not a directory is a fatal input error.
func (v *Validator) Validate(originalDir, extractedDir string) (*Report, error) {
	v.errors = nil
	v.warnings = nil

	original, err := v.indexTree(originalDir)
	if err != nil {
		return nil, fmt.Errorf("original directory: %w", err)
	}
	extracted, err := v.indexTree(extractedDir)
	if err != nil {
		return nil, fmt.Errorf("extracted directory: %w", err)
	}

	report := &Report{
		ID:            uuid.NewString(),
		Timestamp:     time.Now(),
		OriginalPath:  originalDir,
		ExtractedPath: extractedDir,
	}
	report.Statistics.TotalFilesOriginal = len(original.files)
	report.Statistics.TotalFilesExtracted = len(extracted.files)
	report.Statistics.TotalDirsOriginal = len(original.dirs)
	report.Statistics.TotalDirsExtracted = len(extracted.dirs)

	v.compareDirs(original, extracted, report)
	v.compareFiles(original, extracted, report)

	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].Path < report.Results[j].Path
	})

	report.Errors = append([]string{}, v.errors...)
	report.Warnings = append([]string{}, v.warnings...)

	s := report.Statistics
	report.ValidationPassed = s.FilesSizeMismatch == 0 &&
		s.FilesContentMismatch == 0 &&
		s.FilesMissing == 0 &&
		s.FilesExtra == 0 &&
		s.DirsMissing == 0 &&
		s.DirsExtra == 0 &&
		len(report.Errors) == 0

	return report, nil
}

// indexTree walks root through the ignore rules and indexes every
// retained entry by its slash-normalized relative path.
func (v *Validator) indexTree(root string) (*treeIndex, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%s does not exist: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	idx := &treeIndex{
		files: make(map[string]fileEntry),
		dirs:  make(map[string]struct{}),
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if path == root {
			if walkErr != nil {
				return walkErr
			}
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if walkErr != nil {
			v.recordError(fmt.Sprintf("Error scanning %s: %v", rel, walkErr))
			return nil
		}

		if _, ignored := v.matcher.Match(rel, d.IsDir()); ignored {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			idx.dirs[rel] = struct{}{}
			return nil
		}
		fi, statErr := d.Info()
		if statErr != nil {
			v.recordError(fmt.Sprintf("Error scanning %s: %v", rel, statErr))
			return nil
		}
		idx.files[rel] = fileEntry{absPath: path, size: fi.Size()}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return idx, nil
}

// compareDirs classifies every directory in the union of both sides.
func (v *Validator) compareDirs(original, extracted *treeIndex, report *Report) {
	for _, rel := range unionKeys(original.dirs, extracted.dirs) {
		_, inOriginal := original.dirs[rel]
		_, inExtracted := extracted.dirs[rel]
		switch {
		case inOriginal && inExtracted:
			report.Statistics.DirsMatched++
			report.Results = append(report.Results, EntryResult{Path: rel, Dir: true, Status: StatusMatched})
		case inOriginal:
			report.Statistics.DirsMissing++
			v.recordError(fmt.Sprintf("Directory missing in extracted: %s", rel))
			report.Results = append(report.Results, EntryResult{Path: rel, Dir: true, Status: StatusMissing})
		default:
			report.Statistics.DirsExtra++
			v.recordWarning(fmt.Sprintf("Extra directory in extracted: %s", rel))
			report.Results = append(report.Results, EntryResult{Path: rel, Dir: true, Status: StatusExtra})
		}
	}
}

// compareFiles classifies every file in the union of both sides. Each
// logical entry gets exactly one classification.
func (v *Validator) compareFiles(original, extracted *treeIndex, report *Report) {
	for _, rel := range unionFileKeys(original.files, extracted.files) {
		orig, inOriginal := original.files[rel]
		extr, inExtracted := extracted.files[rel]

		switch {
		case inOriginal && inExtracted:
			result := v.compareFile(rel, orig, extr)
			switch result.Status {
			case StatusMatched:
				report.Statistics.FilesMatched++
			case StatusSizeMismatch:
				report.Statistics.FilesSizeMismatch++
			case StatusContentMismatch:
				report.Statistics.FilesContentMismatch++
			}
			report.Results = append(report.Results, result)
		case inOriginal:
			report.Statistics.FilesMissing++
			v.recordError(fmt.Sprintf("File missing in extracted: %s", rel))
			report.Results = append(report.Results, EntryResult{Path: rel, Status: StatusMissing})
		default:
			report.Statistics.FilesExtra++
			v.recordWarning(fmt.Sprintf("Extra file in extracted: %s", rel))
			report.Results = append(report.Results, EntryResult{Path: rel, Status: StatusExtra})
		}
	}
}

// compareFile classifies a file present on both sides: the size check
// runs first, then (within the ceiling) the content fingerprint.
func (v *Validator) compareFile(rel string, orig, extr fileEntry) EntryResult {
	sizeDiff := orig.size - extr.size
	if sizeDiff < 0 {
		sizeDiff = -sizeDiff
	}
	tolerance := v.sizeTolerance(rel, orig.size)

	if sizeDiff > tolerance {
		detail := fmt.Sprintf("original=%s extracted=%s diff=%s",
			humanize.Bytes(uint64(orig.size)),
			humanize.Bytes(uint64(extr.size)),
			humanize.Bytes(uint64(sizeDiff)),
		)
		v.recordError(fmt.Sprintf("Size mismatch for %s: %s", rel, detail))
		return EntryResult{Path: rel, Status: StatusSizeMismatch, Detail: detail}
	}

	if !v.shouldCompareContent(rel, orig.size) {
		v.recordWarning(fmt.Sprintf("Skipping content comparison for large file: %s (%s)",
			rel, humanize.Bytes(uint64(orig.size))))
		return EntryResult{Path: rel, Status: StatusMatched, Detail: "size only"}
	}

	origSum, err := fingerprint(orig.absPath)
	if err != nil {
		v.recordWarning(fmt.Sprintf("Could not fingerprint %s: %v", rel, err))
		return EntryResult{Path: rel, Status: StatusMatched, Detail: "size only"}
	}
	extrSum, err := fingerprint(extr.absPath)
	if err != nil {
		v.recordWarning(fmt.Sprintf("Could not fingerprint %s: %v", rel, err))
		return EntryResult{Path: rel, Status: StatusMatched, Detail: "size only"}
	}

	if origSum != extrSum {
		// A binary-likely file inside its size tolerance is accepted:
		// the capture transform may not reproduce it bit-exactly.
		if v.isBinaryLikely(rel) && sizeDiff <= tolerance {
			v.log.Debug("Binary content drift within tolerance", zap.String("path", rel))
			return EntryResult{Path: rel, Status: StatusMatched, Detail: "binary within tolerance"}
		}
		v.recordError(fmt.Sprintf("Content mismatch for %s", rel))
		return EntryResult{Path: rel, Status: StatusContentMismatch}
	}

	return EntryResult{Path: rel, Status: StatusMatched}
}

// sizeTolerance returns the allowed size drift for a file: zero for
// text-likely files, max(500 bytes, 1%) for binary-likely ones.
func (v *Validator) sizeTolerance(rel string, originalSize int64) int64 {
	if !v.isBinaryLikely(rel) {
		return 0
	}
	relative := originalSize / 100
	if relative < absoluteTolerance {
		return absoluteTolerance
	}
	return relative
}

// shouldCompareContent decides whether to fingerprint a file pair.
func (v *Validator) shouldCompareContent(rel string, size int64) bool {
	if size > v.opts.ContentCeiling {
		return false
	}
	if v.isBinaryLikely(rel) && size > v.opts.BinaryHashCeiling {
		return false
	}
	return true
}

func (v *Validator) isBinaryLikely(rel string) bool {
	ext := strings.ToLower(filepath.Ext(rel))
	_, ok := binaryLikelyExtensions[ext]
	return ok
}

func (v *Validator) recordError(msg string) {
	v.errors = append(v.errors, msg)
	v.log.Error(msg)
}

func (v *Validator) recordWarning(msg string) {
	v.warnings = append(v.warnings, msg)
	v.log.Warn(msg)
}

// fingerprint computes the content hash of a file.
func fingerprint(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// unionKeys returns the sorted union of two key sets.
func unionKeys(a, b map[string]struct{}) []string {
	union := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		union[k] = struct{}{}
	}
	for k := range b {
		union[k] = struct{}{}
	}
	keys := make([]string, 0, len(union))
	for k := range union {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func unionFileKeys(a, b map[string]fileEntry) []string {
	union := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		union[k] = struct{}{}
	}
	for k := range b {
		union[k] = struct{}{}
	}
	keys := make([]string, 0, len(union))
	for k := range union {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
