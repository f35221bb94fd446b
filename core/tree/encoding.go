package tree

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// EncodingUTF8 is the first trial encoding and the common case.
const EncodingUTF8 = "utf-8"

// legacyEncodings are the single-byte codepages tried, in order, when
// content is not valid UTF-8. A candidate is accepted only when
// decode→re-encode reproduces the input bytes. iso-8859-1 stays in the
// list so documents that recorded it as their encoding can be re-encoded.
var legacyEncodings = []struct {
	name string
	cm   encoding.Encoding
}{
	{"windows-1252", charmap.Windows1252},
	{"iso-8859-1", charmap.ISO8859_1},
}

// binaryProbeSize bounds how much of the content head is checked for
// NUL bytes before any trial decoding.
const binaryProbeSize = 512

// looksBinary reports whether the content head contains a NUL byte,
// which no candidate text encoding produces.
func looksBinary(raw []byte) bool {
	probe := raw
	if len(probe) > binaryProbeSize {
		probe = probe[:binaryProbeSize]
	}
	return bytes.IndexByte(probe, 0) >= 0
}

// DetectText attempts to decode raw as text against the ordered candidate
// encodings. It returns the decoded string, the encoding that succeeded,
// and whether any candidate succeeded. A candidate counts as successful
// only if re-encoding the decoded string reproduces raw byte for byte,
// so a text capture always round-trips exactly.
func DetectText(raw []byte) (data, encodingName string, ok bool) {
	if looksBinary(raw) {
		return "", "", false
	}

	if utf8.Valid(raw) {
		return string(raw), EncodingUTF8, true
	}

	for _, candidate := range legacyEncodings {
		decoded, err := candidate.cm.NewDecoder().Bytes(raw)
		if err != nil {
			continue
		}
		reencoded, err := candidate.cm.NewEncoder().Bytes(decoded)
		if err != nil || !bytes.Equal(reencoded, raw) {
			continue
		}
		return string(decoded), candidate.name, true
	}

	return "", "", false
}

// EncodeText converts a decoded string back to the byte sequence it was
// read as, using the recorded encoding name.
func EncodeText(data, encodingName string) ([]byte, error) {
	if encodingName == EncodingUTF8 || encodingName == "" {
		return []byte(data), nil
	}
	for _, candidate := range legacyEncodings {
		if candidate.name != encodingName {
			continue
		}
		raw, err := candidate.cm.NewEncoder().Bytes([]byte(data))
		if err != nil {
			return nil, fmt.Errorf("re-encoding as %s failed: %w", encodingName, err)
		}
		return raw, nil
	}
	return nil, fmt.Errorf("unknown text encoding %q", encodingName)
}
