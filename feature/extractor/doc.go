// Package extractor materializes a packaged tree onto the filesystem.
//
// Directories are recreated first, then files are written with their
// decoded contents: text re-encoded with the recorded encoding, binary
// base64-decoded. A file whose content was omitted by policy or recorded
// as a read error is created empty; that is the single materialization
// policy for contentless nodes, so a validated extraction never has files
// silently missing from the tree.
//
// Extraction is a best-effort bulk write, not an atomic operation.
// Without the overwrite option a colliding file is never replaced: the
// collision is reported, the entry is skipped, and the rest of the tree
// is still materialized. Every per-entry failure is recorded and surfaced
// through Errors, so callers can flag the run as non-clean.
package extractor
