package validator

import (
	"bytes"
	"path/filepath"
	"testing"

	"dirpack/core/config"
	"dirpack/core/ignore"
	"dirpack/core/tree"
	"dirpack/feature/extractor"
	"dirpack/feature/packager"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestPackExtractValidateRoundTrip drives the full pipeline: scan a
// directory, push the tree through the document codec, materialize it,
// and validate the result against the original.
func TestPackExtractValidateRoundTrip(t *testing.T) {
	original := t.TempDir()
	writeFile(t, original, "a.txt", []byte("hello"))
	writeFile(t, original, "b.bin", []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0xFB, 0xFC, 0xFD, 0xFE, 0xFF})

	// The default policy ignores .bin files outright; relax it so the
	// binary path participates.
	cfg := config.Default()
	cfg.IgnoreExtensions = nil
	cfg.NoCaptureExtensions = nil
	matcher := ignore.NewMatcher(cfg.IgnoreRules())

	p := packager.New(&cfg, matcher, zap.NewNop())
	root, err := p.Scan(original)
	require.NoError(t, err)

	// Through the document codec, the way the CLI persists and reloads.
	var buf bytes.Buffer
	require.NoError(t, tree.Encode(&buf, root))
	decoded, err := tree.Decode(&buf)
	require.NoError(t, err)

	extracted := filepath.Join(t.TempDir(), "out")
	e := extractor.New(zap.NewNop(), extractor.Options{})
	require.NoError(t, e.Extract(decoded, extracted))
	assert.Empty(t, e.Errors())

	v := New(matcher, zap.NewNop(), Options{})
	report, err := v.Validate(original, extracted)
	require.NoError(t, err)

	assert.True(t, report.ValidationPassed)
	assert.Equal(t, 2, report.Statistics.FilesMatched)
	assert.Equal(t, 0, report.Statistics.FilesSizeMismatch)
	assert.Equal(t, 0, report.Statistics.FilesContentMismatch)
	assert.Equal(t, 0, report.Statistics.FilesMissing)
	assert.Equal(t, 0, report.Statistics.FilesExtra)
	assert.Equal(t, 0, report.Statistics.DirsMissing)
	assert.Equal(t, 0, report.Statistics.DirsExtra)
	assert.Empty(t, report.Errors)
}
