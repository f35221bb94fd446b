package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectText(t *testing.T) {
	tests := []struct {
		name         string
		raw          []byte
		wantOK       bool
		wantEncoding string
	}{
		{
			name:         "plain ascii",
			raw:          []byte("hello world\n"),
			wantOK:       true,
			wantEncoding: "utf-8",
		},
		{
			name:         "multibyte utf-8",
			raw:          []byte("héllo — wörld"),
			wantOK:       true,
			wantEncoding: "utf-8",
		},
		{
			name:         "empty file",
			raw:          []byte{},
			wantOK:       true,
			wantEncoding: "utf-8",
		},
		{
			name:         "windows-1252 smart quotes",
			raw:          []byte{0x93, 0x68, 0x69, 0x94}, // “hi”
			wantOK:       true,
			wantEncoding: "windows-1252",
		},
		{
			name:         "high bytes fall back to windows-1252",
			raw:          []byte{0x68, 0x69, 0xE9}, // "hié" in latin codepages
			wantOK:       true,
			wantEncoding: "windows-1252",
		},
		{
			name:   "nul byte means binary",
			raw:    []byte{0x68, 0x00, 0x69},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, encodingName, ok := DetectText(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantEncoding, encodingName)

			// Re-encoding with the recorded encoding must reproduce
			// the original byte sequence exactly.
			raw, err := EncodeText(data, encodingName)
			require.NoError(t, err)
			assert.Equal(t, tt.raw, raw)
		})
	}
}

func TestEncodeTextRecordedISO88591(t *testing.T) {
	// Documents produced elsewhere may record iso-8859-1; re-encoding
	// must still work even though detection prefers windows-1252.
	raw, err := EncodeText("hié", "iso-8859-1")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x68, 0x69, 0xE9}, raw)
}

func TestEncodeTextUnknownEncoding(t *testing.T) {
	_, err := EncodeText("hi", "ebcdic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown text encoding")
}

func TestBinaryContentRoundTrip(t *testing.T) {
	raw := []byte{0x00, 0x10, 0x20, 0xFE, 0xFF, 0x00, 0x7F, 0x80, 0x01, 0x02}

	content := BinaryContent(raw)
	assert.Equal(t, KindBinary, content.Kind)
	assert.Equal(t, EncodingBase64, content.Encoding)

	decoded, err := content.Bytes()
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}
