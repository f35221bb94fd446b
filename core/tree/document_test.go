package tree

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree(t *testing.T) *DirNode {
	t.Helper()
	modified := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	return &DirNode{
		Name:        "project",
		Path:        "/home/user/project",
		GeneratedAt: time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
		Children: []Node{
			&DirNode{
				Name: "docs",
				Children: []Node{
					&FileNode{
						Name:      "readme.md",
						Size:      5,
						Modified:  modified,
						Extension: ".md",
						Content:   TextContent("hello", EncodingUTF8),
					},
				},
			},
			&FileNode{
				Name:      "logo.bin",
				Size:      3,
				Modified:  modified,
				Extension: ".bin",
				Content:   BinaryContent([]byte{0x00, 0x01, 0xFF}),
			},
			&FileNode{
				Name: "locked.txt",
				Err:  "permission denied",
			},
			&FileNode{
				Name:      "skipped.iso",
				Size:      1024,
				Modified:  modified,
				Extension: ".iso",
			},
		},
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	root := sampleTree(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, root))

	decoded, err := Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, "project", decoded.Name)
	assert.Equal(t, "/home/user/project", decoded.Path)
	assert.True(t, decoded.GeneratedAt.Equal(root.GeneratedAt))
	require.Len(t, decoded.Children, 4)

	docs, ok := decoded.Children[0].(*DirNode)
	require.True(t, ok)
	assert.Empty(t, docs.Path, "only the root carries an absolute path")
	assert.True(t, docs.GeneratedAt.IsZero(), "only the root carries a timestamp")
	require.Len(t, docs.Children, 1)

	readme, ok := docs.Children[0].(*FileNode)
	require.True(t, ok)
	require.NotNil(t, readme.Content)
	assert.Equal(t, KindText, readme.Content.Kind)
	assert.Equal(t, "hello", readme.Content.Data)
	assert.Equal(t, EncodingUTF8, readme.Content.Encoding)
	assert.Equal(t, int64(5), readme.Size)
	assert.Equal(t, ".md", readme.Extension)
	assert.True(t, readme.Modified.Equal(time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)))

	logo, ok := decoded.Children[1].(*FileNode)
	require.True(t, ok)
	require.NotNil(t, logo.Content)
	assert.Equal(t, KindBinary, logo.Content.Kind)
	raw, err := logo.Content.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x01, 0xFF}, raw)

	locked, ok := decoded.Children[2].(*FileNode)
	require.True(t, ok)
	assert.Equal(t, "permission denied", locked.Err)
	assert.Nil(t, locked.Content)

	skipped, ok := decoded.Children[3].(*FileNode)
	require.True(t, ok)
	assert.Nil(t, skipped.Content, "omitted capture stays omitted")
}

func TestErrorFileNodeSerializesMinimal(t *testing.T) {
	node := &FileNode{Name: "secret.key", Err: "open secret.key: permission denied"}

	raw, err := node.MarshalJSON()
	require.NoError(t, err)

	assert.JSONEq(t, `{"name":"secret.key","type":"file","error":"open secret.key: permission denied"}`, string(raw))
}

func TestDecodeRejectsMalformedDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "not JSON",
			doc:  "{not json",
			want: "invalid packaged document",
		},
		{
			name: "root is a file",
			doc:  `{"name":"a.txt","type":"file","size":1,"modified":"2025-03-14T09:00:00Z","extension":".txt"}`,
			want: `expected node type "directory"`,
		},
		{
			name: "missing name",
			doc:  `{"type":"directory","contents":[]}`,
			want: "missing required field",
		},
		{
			name: "unknown child type",
			doc:  `{"name":"root","type":"directory","contents":[{"name":"x","type":"symlink"}]}`,
			want: "unsupported node type",
		},
		{
			name: "duplicate child names",
			doc:  `{"name":"root","type":"directory","contents":[{"name":"a","type":"directory","contents":[]},{"name":"a","type":"directory","contents":[]}]}`,
			want: "duplicate entry",
		},
		{
			name: "binary content without base64",
			doc:  `{"name":"root","type":"directory","contents":[{"name":"b","type":"file","size":1,"modified":"2025-03-14T09:00:00Z","extension":"","contents":{"type":"binary","encoding":"hex","data":"ff"}}]}`,
			want: "unsupported binary encoding",
		},
		{
			name: "unknown content kind",
			doc:  `{"name":"root","type":"directory","contents":[{"name":"c","type":"file","size":1,"modified":"2025-03-14T09:00:00Z","extension":"","contents":{"type":"mystery"}}]}`,
			want: "unsupported content type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader([]byte(tt.doc)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecodeAcceptsNaiveTimestamps(t *testing.T) {
	doc := `{"name":"root","type":"directory","generated_at":"2025-03-14T10:00:00.123456","contents":[]}`

	root, err := Decode(bytes.NewReader([]byte(doc)))
	require.NoError(t, err)
	assert.Equal(t, 2025, root.GeneratedAt.Year())
}

func TestContentBytesOnErrorKind(t *testing.T) {
	content := ErrorContent("disk read failed")

	_, err := content.Bytes()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk read failed")
}
