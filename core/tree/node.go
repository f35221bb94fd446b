package tree

import "time"

// NodeType discriminates node variants on the wire.
type NodeType string

const (
	// TypeDirectory marks a directory node.
	TypeDirectory NodeType = "directory"
	// TypeFile marks a file node.
	TypeFile NodeType = "file"
)

// Node is a single entry in a packaged tree, either a *DirNode or a *FileNode.
type Node interface {
	// NodeName returns the base name of the entry.
	NodeName() string
	// Type returns the wire discriminator for the node.
	Type() NodeType
}

// DirNode represents a directory and its retained children.
type DirNode struct {
	// Name is the base name of the directory.
	Name string

	// Path is the absolute path of the scanned root.
	// Set on the root node only.
	Path string

	// GeneratedAt records when the document was produced.
	// Set on the root node only.
	GeneratedAt time.Time

	// Children holds the retained entries in scan order
	// (directories first, then case-insensitive name).
	Children []Node

	// Err records an access failure for this directory.
	// Children may be partial when set.
	Err string
}

// FileNode represents a file and its captured metadata.
type FileNode struct {
	// Name is the base name of the file.
	Name string

	// Size is the file size in bytes at scan time.
	Size int64

	// Modified is the last-modification timestamp at scan time.
	Modified time.Time

	// Extension is the lowercased file extension including the dot,
	// or "" when the file has none.
	Extension string

	// Content is the captured payload, or nil when capture was
	// skipped by policy.
	Content *Content

	// Err records an access failure; when set, the remaining
	// metadata fields are unreliable and are not serialized.
	Err string
}

// NodeName returns the directory's base name.
func (d *DirNode) NodeName() string { return d.Name }

// Type returns TypeDirectory.
func (d *DirNode) Type() NodeType { return TypeDirectory }

// NodeName returns the file's base name.
func (f *FileNode) NodeName() string { return f.Name }

// Type returns TypeFile.
func (f *FileNode) Type() NodeType { return TypeFile }
