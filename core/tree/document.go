package tree

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// timeLayouts are accepted when parsing document timestamps. Documents we
// write use RFC 3339 with nanoseconds; the zone-less layout accepts
// timestamps produced by tooling that writes naive ISO-8601.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

type dirWire struct {
	Name        string            `json:"name"`
	Type        NodeType          `json:"type"`
	Path        string            `json:"path,omitempty"`
	GeneratedAt string            `json:"generated_at,omitempty"`
	Contents    []json.RawMessage `json:"contents"`
	Error       string            `json:"error,omitempty"`
}

type fileWire struct {
	Name      string          `json:"name"`
	Type      NodeType        `json:"type"`
	Size      *int64          `json:"size,omitempty"`
	Modified  string          `json:"modified,omitempty"`
	Extension *string         `json:"extension,omitempty"`
	Contents  json.RawMessage `json:"contents,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type contentWire struct {
	Type     ContentKind `json:"type"`
	Encoding string      `json:"encoding,omitempty"`
	Data     *string     `json:"data,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// MarshalJSON encodes the directory node using the document schema.
func (d *DirNode) MarshalJSON() ([]byte, error) {
	wire := dirWire{
		Name:     d.Name,
		Type:     TypeDirectory,
		Path:     d.Path,
		Contents: make([]json.RawMessage, 0, len(d.Children)),
		Error:    d.Err,
	}
	if !d.GeneratedAt.IsZero() {
		wire.GeneratedAt = formatTime(d.GeneratedAt)
	}
	for _, child := range d.Children {
		raw, err := json.Marshal(child)
		if err != nil {
			return nil, err
		}
		wire.Contents = append(wire.Contents, raw)
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes a directory node, dispatching each child on its
// "type" discriminator. Duplicate child names are rejected.
func (d *DirNode) UnmarshalJSON(data []byte) error {
	var wire dirWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Name == "" {
		return fmt.Errorf("directory node missing required field %q", "name")
	}
	if wire.Type != TypeDirectory {
		return fmt.Errorf("expected node type %q, got %q", TypeDirectory, wire.Type)
	}

	d.Name = wire.Name
	d.Path = wire.Path
	d.Err = wire.Error
	d.GeneratedAt = time.Time{}
	if wire.GeneratedAt != "" {
		t, err := parseTime(wire.GeneratedAt)
		if err != nil {
			return fmt.Errorf("directory %q: invalid generated_at: %w", wire.Name, err)
		}
		d.GeneratedAt = t
	}

	seen := make(map[string]struct{}, len(wire.Contents))
	d.Children = make([]Node, 0, len(wire.Contents))
	for _, raw := range wire.Contents {
		child, err := decodeNode(raw)
		if err != nil {
			return fmt.Errorf("directory %q: %w", wire.Name, err)
		}
		if _, dup := seen[child.NodeName()]; dup {
			return fmt.Errorf("directory %q: duplicate entry %q", wire.Name, child.NodeName())
		}
		seen[child.NodeName()] = struct{}{}
		d.Children = append(d.Children, child)
	}
	return nil
}

// MarshalJSON encodes the file node using the document schema. A node
// carrying an access error serializes as {name, type, error} only.
func (f *FileNode) MarshalJSON() ([]byte, error) {
	if f.Err != "" {
		return json.Marshal(fileWire{Name: f.Name, Type: TypeFile, Error: f.Err})
	}
	size := f.Size
	ext := f.Extension
	wire := fileWire{
		Name:      f.Name,
		Type:      TypeFile,
		Size:      &size,
		Modified:  formatTime(f.Modified),
		Extension: &ext,
	}
	if f.Content != nil {
		raw, err := json.Marshal(f.Content)
		if err != nil {
			return nil, err
		}
		wire.Contents = raw
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes a file node from the document schema.
func (f *FileNode) UnmarshalJSON(data []byte) error {
	var wire fileWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Name == "" {
		return fmt.Errorf("file node missing required field %q", "name")
	}
	if wire.Type != TypeFile {
		return fmt.Errorf("expected node type %q, got %q", TypeFile, wire.Type)
	}

	f.Name = wire.Name
	f.Err = wire.Error
	if wire.Size != nil {
		f.Size = *wire.Size
	}
	if wire.Extension != nil {
		f.Extension = *wire.Extension
	}
	f.Modified = time.Time{}
	if wire.Modified != "" {
		t, err := parseTime(wire.Modified)
		if err != nil {
			return fmt.Errorf("file %q: invalid modified timestamp: %w", wire.Name, err)
		}
		f.Modified = t
	}
	f.Content = nil
	if len(wire.Contents) > 0 {
		var content Content
		if err := json.Unmarshal(wire.Contents, &content); err != nil {
			return fmt.Errorf("file %q: %w", wire.Name, err)
		}
		f.Content = &content
	}
	return nil
}

// MarshalJSON encodes the content variant using the document schema.
func (c *Content) MarshalJSON() ([]byte, error) {
	wire := contentWire{Type: c.Kind}
	switch c.Kind {
	case KindText, KindBinary:
		wire.Encoding = c.Encoding
		data := c.Data
		wire.Data = &data
	case KindError:
		wire.Error = c.Err
	default:
		return nil, fmt.Errorf("unsupported content type %q", c.Kind)
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes a content variant, rejecting unknown kinds.
func (c *Content) UnmarshalJSON(data []byte) error {
	var wire contentWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch wire.Type {
	case KindText:
		if wire.Data == nil {
			return fmt.Errorf("text content missing required field %q", "data")
		}
		c.Encoding = wire.Encoding
		if c.Encoding == "" {
			c.Encoding = EncodingUTF8
		}
		c.Data = *wire.Data
	case KindBinary:
		if wire.Data == nil {
			return fmt.Errorf("binary content missing required field %q", "data")
		}
		if wire.Encoding != EncodingBase64 {
			return fmt.Errorf("unsupported binary encoding %q", wire.Encoding)
		}
		c.Encoding = wire.Encoding
		c.Data = *wire.Data
	case KindError:
		c.Err = wire.Error
	default:
		return fmt.Errorf("unsupported content type %q", wire.Type)
	}
	c.Kind = wire.Type
	return nil
}

func decodeNode(raw json.RawMessage) (Node, error) {
	var probe struct {
		Name string   `json:"name"`
		Type NodeType `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	switch probe.Type {
	case TypeDirectory:
		var dir DirNode
		if err := json.Unmarshal(raw, &dir); err != nil {
			return nil, err
		}
		return &dir, nil
	case TypeFile:
		var file FileNode
		if err := json.Unmarshal(raw, &file); err != nil {
			return nil, err
		}
		return &file, nil
	default:
		return nil, fmt.Errorf("entry %q: unsupported node type %q", probe.Name, probe.Type)
	}
}

// Encode writes the tree as an indented JSON document.
func Encode(w io.Writer, root *DirNode) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(root)
}

// Decode reads a packaged document and returns its root node.
// The document must be valid JSON with a directory node at the root.
func Decode(r io.Reader) (*DirNode, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	var root DirNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("invalid packaged document: %w", err)
	}
	return &root, nil
}

// Save writes the tree to a document file.
func Save(path string, root *DirNode) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create document %s: %w", path, err)
	}
	defer f.Close()
	if err := Encode(f, root); err != nil {
		return fmt.Errorf("failed to write document %s: %w", path, err)
	}
	return f.Close()
}

// Load reads and decodes a document file.
func Load(path string) (*DirNode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document %s: %w", path, err)
	}
	defer f.Close()
	root, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", path, err)
	}
	return root, nil
}
