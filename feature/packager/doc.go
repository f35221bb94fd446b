// Package packager scans a filesystem subtree into a packaged tree model.
//
// The scan applies the configured ignore rules per entry, captures file
// contents according to the capture policy, and classifies captured
// contents as text (trial-decoded against candidate encodings) or binary
// (base64). The result is a tree.DirNode ready for serialization.
//
// Scanning is a pure read: the filesystem is never modified. Entries that
// cannot be read are emitted with an error marker and the scan continues
// with their siblings; only a missing or non-directory root aborts the
// operation. The capture policy is evaluated once, at scan time, and the
// resulting tree is never re-evaluated later.
package packager
