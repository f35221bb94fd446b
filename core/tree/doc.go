// Package tree defines the node model for packaged directory documents.
//
// A packaged document is a single JSON object describing a directory
// subtree: names, hierarchy, file metadata, and (optionally) file contents
// captured as decoded text or base64 payloads. The model is a closed set
// of variants:
//
//   - DirNode: a directory with an ordered list of child nodes. Only the
//     root carries the absolute source path and the generation timestamp.
//   - FileNode: a file with size, modification time, extension, and an
//     optional Content payload.
//   - Content: a tagged variant with kinds "text", "binary", and "error".
//     A nil Content means capture was skipped by policy.
//
// Nodes are built once (by the scanner or by decoding a document) and are
// never mutated afterwards. Encoding and decoding are lossless: every field
// of the model appears in the document and vice versa.
package tree
