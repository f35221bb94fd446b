// Package validator reconciles an extracted directory tree against the
// original it was packaged from.
//
// Both sides are re-scanned through the same ignore rules used for
// packaging, indexed by slash-normalized relative path, and compared over
// the union of keys. Each logical entry is classified exactly once:
//
//   - matched: present on both sides with size (and, where computed,
//     content fingerprint) in agreement
//   - size_mismatch: sizes differ beyond the allowed tolerance
//   - content_mismatch: sizes agree but the content fingerprints differ
//   - missing: present only in the original
//   - extra: present only in the extracted tree
//
// Binary-likely files get a size tolerance band of max(500 bytes, 1% of
// the original size) to absorb drift introduced by the capture transform;
// text files must match byte for byte. Files above the content-comparison
// ceiling are judged by size alone.
//
// The outcome is a Report: aggregate statistics, per-entry results, and
// every recovered error and warning. Validation passes only when all
// entries are matched and no errors were recorded.
package validator
