package packager

import (
	"os"
	"path/filepath"
	"testing"

	"dirpack/core/config"
	"dirpack/core/ignore"
	"dirpack/core/tree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, data, 0o644))
}

func testPackager(cfg *config.Config) *Packager {
	return New(cfg, ignore.NewMatcher(cfg.IgnoreRules()), zap.NewNop())
}

func findChild(t *testing.T, dir *tree.DirNode, name string) tree.Node {
	t.Helper()
	for _, child := range dir.Children {
		if child.NodeName() == name {
			return child
		}
	}
	t.Fatalf("child %q not found in %q", name, dir.Name)
	return nil
}

func TestScanBuildsTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", []byte("hello"))
	writeFile(t, root, "b.bin", []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09})
	writeFile(t, root, "sub/nested.md", []byte("# nested"))

	// The default policy ignores .bin entirely; relax it so the
	// binary file participates.
	cfg := config.Default()
	cfg.IgnoreExtensions = nil
	cfg.NoCaptureExtensions = nil
	p := testPackager(&cfg)

	node, err := p.Scan(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Base(root), node.Name)
	assert.Equal(t, root, node.Path)
	assert.False(t, node.GeneratedAt.IsZero(), "root carries the generation timestamp")
	require.Len(t, node.Children, 3)

	// Directories sort before files.
	sub, ok := node.Children[0].(*tree.DirNode)
	require.True(t, ok)
	assert.Equal(t, "sub", sub.Name)
	assert.Empty(t, sub.Path, "only the root carries an absolute path")
	require.Len(t, sub.Children, 1)

	a, ok := findChild(t, node, "a.txt").(*tree.FileNode)
	require.True(t, ok)
	assert.Equal(t, int64(5), a.Size)
	assert.Equal(t, ".txt", a.Extension)
	require.NotNil(t, a.Content)
	assert.Equal(t, tree.KindText, a.Content.Kind)
	assert.Equal(t, "hello", a.Content.Data)
	assert.Equal(t, "utf-8", a.Content.Encoding)

	b, ok := findChild(t, node, "b.bin").(*tree.FileNode)
	require.True(t, ok)
	assert.Equal(t, int64(10), b.Size)
	require.NotNil(t, b.Content)
	assert.Equal(t, tree.KindBinary, b.Content.Kind)

	stats := p.Stats()
	assert.Equal(t, 1, stats.Directories)
	assert.Equal(t, 3, stats.Files)
}

func TestScanCapturesBinaryContent(t *testing.T) {
	root := t.TempDir()
	raw := []byte{0x00, 0x10, 0x20, 0x30, 0x40, 0x50, 0x60, 0x70, 0x80, 0x90}
	writeFile(t, root, "blob.dat", raw)

	cfg := config.Default()
	p := testPackager(&cfg)

	node, err := p.Scan(root)
	require.NoError(t, err)

	blob, ok := findChild(t, node, "blob.dat").(*tree.FileNode)
	require.True(t, ok)
	require.NotNil(t, blob.Content)
	assert.Equal(t, tree.KindBinary, blob.Content.Kind)
	assert.Equal(t, tree.EncodingBase64, blob.Content.Encoding)

	decoded, err := blob.Content.Bytes()
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestScanAppliesIgnoreRules(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.txt", []byte("keep"))
	writeFile(t, root, "drop.tmp", []byte("drop"))
	writeFile(t, root, ".git/HEAD", []byte("ref: refs/heads/main"))
	writeFile(t, root, "node_modules/pkg/index.js", []byte("x"))

	cfg := config.Default()
	p := testPackager(&cfg)

	node, err := p.Scan(root)
	require.NoError(t, err)

	require.Len(t, node.Children, 1)
	assert.Equal(t, "keep.txt", node.Children[0].NodeName())
	assert.Equal(t, 3, p.Stats().Ignored)
}

func TestScanCapturePolicy(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*config.Config)
		file        string
		data        []byte
		wantContent bool
	}{
		{
			name:        "capture disabled globally",
			mutate:      func(c *config.Config) { c.CaptureContents = false },
			file:        "a.txt",
			data:        []byte("hello"),
			wantContent: false,
		},
		{
			name:        "size over ceiling",
			mutate:      func(c *config.Config) { c.MaxContentSize = 4 },
			file:        "a.txt",
			data:        []byte("hello"),
			wantContent: false,
		},
		{
			name:        "size at ceiling",
			mutate:      func(c *config.Config) { c.MaxContentSize = 5 },
			file:        "a.txt",
			data:        []byte("hello"),
			wantContent: true,
		},
		{
			name:        "whitelist excludes others",
			mutate:      func(c *config.Config) { c.CaptureExtensions = []string{".md"} },
			file:        "a.txt",
			data:        []byte("hello"),
			wantContent: false,
		},
		{
			name:        "whitelist includes listed",
			mutate:      func(c *config.Config) { c.CaptureExtensions = []string{".txt"} },
			file:        "a.txt",
			data:        []byte("hello"),
			wantContent: true,
		},
		{
			name: "blacklist wins over whitelist",
			mutate: func(c *config.Config) {
				c.CaptureExtensions = []string{".txt"}
				c.NoCaptureExtensions = []string{".txt"}
			},
			file:        "a.txt",
			data:        []byte("hello"),
			wantContent: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, root, tt.file, tt.data)

			cfg := config.Default()
			cfg.NoCaptureExtensions = nil
			tt.mutate(&cfg)
			p := testPackager(&cfg)

			node, err := p.Scan(root)
			require.NoError(t, err)

			file, ok := findChild(t, node, tt.file).(*tree.FileNode)
			require.True(t, ok)
			if tt.wantContent {
				assert.NotNil(t, file.Content)
			} else {
				assert.Nil(t, file.Content)
			}
		})
	}
}

func TestScanRejectsBadRoot(t *testing.T) {
	cfg := config.Default()
	p := testPackager(&cfg)

	t.Run("missing root", func(t *testing.T) {
		_, err := p.Scan(filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("root is a file", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "f.txt", []byte("x"))
		_, err := p.Scan(filepath.Join(root, "f.txt"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})
}

func TestScanLegacyEncodedFile(t *testing.T) {
	root := t.TempDir()
	// "café" in windows-1252: é = 0xE9, invalid as UTF-8.
	raw := []byte{0x63, 0x61, 0x66, 0xE9}
	writeFile(t, root, "menu.txt", raw)

	cfg := config.Default()
	p := testPackager(&cfg)

	node, err := p.Scan(root)
	require.NoError(t, err)

	menu, ok := findChild(t, node, "menu.txt").(*tree.FileNode)
	require.True(t, ok)
	require.NotNil(t, menu.Content)
	assert.Equal(t, tree.KindText, menu.Content.Kind)
	assert.Equal(t, "windows-1252", menu.Content.Encoding)
	assert.Equal(t, "café", menu.Content.Data)

	// Re-encoding reproduces the original bytes exactly.
	back, err := menu.Content.Bytes()
	require.NoError(t, err)
	assert.Equal(t, raw, back)
}
